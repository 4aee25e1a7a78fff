package source

import (
	"errors"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/go-enry/go-enry/v2"
	"github.com/kk-code-lab/rpager/internal/styled"
)

const (
	DefaultStyle = "monokai"
	// highlightContext is how many earlier lines the lexer sees.
	highlightContext = 32
)

// ErrNoLexer is returned when no language can be determined.
var ErrNoLexer = errors.New("no lexer for input")

// Highlighter colours lines with a chroma lexer. Characters that already
// carry a foreground colour keep it.
type Highlighter struct {
	lexer   chroma.Lexer
	style   *chroma.Style
	base    chroma.Colour
	context []string
}

// NewHighlighter picks a lexer by explicit language name, then by filename
// and content through enry, then by chroma's own content analysis.
func NewHighlighter(language, styleName, filename string, head []byte) (*Highlighter, error) {
	lexer := resolveLexer(language, filename, head)
	if lexer == nil {
		return nil, ErrNoLexer
	}
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)
	return &Highlighter{
		lexer: chroma.Coalesce(lexer),
		style: style,
		base:  style.Get(chroma.Text).Colour,
	}, nil
}

// Language is the name of the lexer in use.
func (h *Highlighter) Language() string {
	return h.lexer.Config().Name
}

func resolveLexer(language, filename string, head []byte) chroma.Lexer {
	if language != "" {
		return lexers.Get(language)
	}
	if filename != "" {
		if name := enry.GetLanguage(filename, head); name != "" {
			if l := lexers.Get(name); l != nil {
				return l
			}
		}
		if l := lexers.Match(filename); l != nil {
			return l
		}
	}
	if len(head) == 0 {
		return nil
	}
	if name, ok := enry.GetLanguageByShebang(head); ok {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	return lexers.Analyse(string(head))
}

// Apply colours line in place and returns it.
func (h *Highlighter) Apply(line styled.Line) styled.Line {
	text := line.String()
	defer h.remember(text)
	if strings.TrimSpace(text) == "" {
		return line
	}

	var sb strings.Builder
	for _, c := range h.context {
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	offset := len([]rune(sb.String()))
	sb.WriteString(text)
	sb.WriteByte('\n')

	tokens, err := chroma.Tokenise(h.lexer, nil, sb.String())
	if err != nil {
		return line
	}
	pos := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		n := len([]rune(tok.Value))
		if pos+n > offset {
			fg, attrs, ok := h.tokenStyle(tok.Type)
			for i := max(pos, offset); i < pos+n; i++ {
				ci := i - offset
				if ci >= len(line) {
					break
				}
				if line[ci].Fg != tcell.ColorDefault {
					continue
				}
				if ok {
					line[ci].Fg = fg
				}
				line[ci].Attrs |= attrs
			}
		}
		pos += n
		if pos >= offset+len(line) {
			break
		}
	}
	return line
}

func (h *Highlighter) remember(text string) {
	if len(h.context) == highlightContext {
		copy(h.context, h.context[1:])
		h.context = h.context[:highlightContext-1]
	}
	h.context = append(h.context, text)
}

// tokenStyle maps a token type to a foreground colour and attributes. The
// boolean is false when the token uses the style's plain text colour.
func (h *Highlighter) tokenStyle(t chroma.TokenType) (tcell.Color, tcell.AttrMask, bool) {
	entry := h.style.Get(t)
	var attrs tcell.AttrMask
	if entry.Bold == chroma.Yes {
		attrs |= tcell.AttrBold
	}
	if entry.Italic == chroma.Yes {
		attrs |= tcell.AttrItalic
	}
	if entry.Underline == chroma.Yes {
		attrs |= tcell.AttrUnderline
	}
	if !entry.Colour.IsSet() || entry.Colour == h.base {
		return tcell.ColorDefault, attrs, false
	}
	c := entry.Colour
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue())), attrs, true
}
