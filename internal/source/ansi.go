package source

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpager/internal/styled"
	"github.com/kk-code-lab/rpager/internal/textutil"
)

const esc = 0x1b

// Decoder turns raw text lines into styled lines. SGR colour and attribute
// sequences set the style of the characters that follow them, and that style
// carries over into later lines until reset. Every other escape sequence is
// dropped.
type Decoder struct {
	tabWidth int
	style    styled.Char
}

func NewDecoder(tabWidth int) *Decoder {
	if tabWidth <= 0 {
		tabWidth = textutil.DefaultTabWidth
	}
	return &Decoder{tabWidth: tabWidth, style: styled.Plain(0)}
}

// Reset drops any style left over from earlier lines.
func (d *Decoder) Reset() {
	d.style = styled.Plain(0)
}

// Line decodes one line of text without its terminator.
func (d *Decoder) Line(text string) styled.Line {
	line := make(styled.Line, 0, len(text))
	col := 0
	for i := 0; i < len(text); {
		if text[i] == esc {
			i += d.escape(text[i:])
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size

		switch {
		case r == '\t':
			for n := textutil.TabSpaces(col, d.tabWidth); n > 0; n-- {
				line = append(line, d.char(' '))
				col++
			}
		case textutil.IsControl(r):
			line = append(line, d.char('?'))
			col++
		default:
			if label, ok := textutil.Label(r); ok {
				for _, lr := range label {
					ch := d.char(lr)
					ch.Attrs |= tcell.AttrDim
					line = append(line, ch)
					col += ch.Width()
				}
				continue
			}
			ch := d.char(r)
			line = append(line, ch)
			col += ch.Width()
		}
	}
	return line
}

func (d *Decoder) char(r rune) styled.Char {
	ch := d.style
	ch.Glyph = r
	return ch
}

// escape consumes the sequence at the start of s and returns its length.
func (d *Decoder) escape(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[':
		for j := 2; j < len(s); j++ {
			c := s[j]
			if c >= 0x40 && c <= 0x7e {
				if c == 'm' {
					d.applySGR(s[2:j])
				}
				return j + 1
			}
		}
		return len(s)
	case ']', 'P', 'X', '^', '_':
		for j := 2; j < len(s); j++ {
			if s[j] == 0x07 {
				return j + 1
			}
			if s[j] == esc && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2
			}
		}
		return len(s)
	default:
		j := 1
		for j < len(s) && s[j] >= 0x20 && s[j] <= 0x2f {
			j++
		}
		return min(j+1, len(s))
	}
}

var sgrAttrs = map[int]tcell.AttrMask{
	1: tcell.AttrBold,
	2: tcell.AttrDim,
	3: tcell.AttrItalic,
	4: tcell.AttrUnderline,
	5: tcell.AttrBlink,
	7: tcell.AttrReverse,
	9: tcell.AttrStrikeThrough,
}

var sgrAttrsOff = map[int]tcell.AttrMask{
	22: tcell.AttrBold | tcell.AttrDim,
	23: tcell.AttrItalic,
	24: tcell.AttrUnderline,
	25: tcell.AttrBlink,
	27: tcell.AttrReverse,
	29: tcell.AttrStrikeThrough,
}

func (d *Decoder) applySGR(params string) {
	codes := parseParams(params)
	if len(codes) == 0 {
		codes = []int{0}
	}
	for i := 0; i < len(codes); i++ {
		c := codes[i]
		switch {
		case c == 0:
			d.style = styled.Plain(0)
		case sgrAttrs[c] != 0:
			d.style.Attrs |= sgrAttrs[c]
		case sgrAttrsOff[c] != 0:
			d.style.Attrs &^= sgrAttrsOff[c]
		case c >= 30 && c <= 37:
			d.style.Fg = tcell.PaletteColor(c - 30)
		case c >= 90 && c <= 97:
			d.style.Fg = tcell.PaletteColor(c - 90 + 8)
		case c >= 40 && c <= 47:
			d.style.Bg = tcell.PaletteColor(c - 40)
		case c >= 100 && c <= 107:
			d.style.Bg = tcell.PaletteColor(c - 100 + 8)
		case c == 39:
			d.style.Fg = tcell.ColorDefault
		case c == 49:
			d.style.Bg = tcell.ColorDefault
		case c == 38 || c == 48:
			color, used := extendedColor(codes[i+1:])
			i += used
			if used == 0 {
				continue
			}
			if c == 38 {
				d.style.Fg = color
			} else {
				d.style.Bg = color
			}
		}
	}
}

// extendedColor reads the arguments of a 38 or 48 code: "5;n" for the
// 256-colour palette or "2;r;g;b" for true colour.
func extendedColor(args []int) (tcell.Color, int) {
	if len(args) == 0 {
		return tcell.ColorDefault, 0
	}
	switch args[0] {
	case 5:
		if len(args) < 2 || args[1] < 0 || args[1] > 255 {
			return tcell.ColorDefault, len(args)
		}
		return tcell.PaletteColor(args[1]), 2
	case 2:
		if len(args) < 4 {
			return tcell.ColorDefault, len(args)
		}
		return tcell.NewRGBColor(clampByte(args[1]), clampByte(args[2]), clampByte(args[3])), 4
	}
	return tcell.ColorDefault, 1
}

func clampByte(v int) int32 {
	return int32(max(0, min(v, 255)))
}

// parseParams splits SGR parameters on ';' or ':'. Empty parameters are 0.
func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(strings.ReplaceAll(s, ":", ";"), ";")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
