// Package styled holds the display unit shared by the producer, the search
// engine and the renderer: a rune with colours and attributes.
package styled

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpager/internal/textutil"
)

// Char is one glyph with its presentation.
type Char struct {
	Glyph rune
	Fg    tcell.Color
	Bg    tcell.Color
	Attrs tcell.AttrMask
}

// Plain returns a character with default colours and no attributes.
func Plain(r rune) Char {
	return Char{Glyph: r, Fg: tcell.ColorDefault, Bg: tcell.ColorDefault}
}

// Width is the number of terminal columns the glyph occupies (0, 1 or 2).
func (c Char) Width() int {
	return textutil.RuneWidth(c.Glyph)
}

// SameStyle reports whether two characters share colours and attributes.
func (c Char) SameStyle(o Char) bool {
	return c.Fg == o.Fg && c.Bg == o.Bg && c.Attrs == o.Attrs
}

// Line is an ordered sequence of styled characters with no line terminator.
type Line []Char

// PlainLine converts text into an unstyled line.
func PlainLine(text string) Line {
	line := make(Line, 0, len(text))
	for _, r := range text {
		line = append(line, Plain(r))
	}
	return line
}

// Width sums the display width of every character.
func (l Line) Width() int {
	w := 0
	for _, c := range l {
		w += c.Width()
	}
	return w
}

// String drops styling and returns the glyphs.
func (l Line) String() string {
	var b strings.Builder
	b.Grow(len(l))
	for _, c := range l {
		b.WriteRune(c.Glyph)
	}
	return b.String()
}
