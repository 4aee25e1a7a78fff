// Package render turns styled lines into terminal output.
package render

import (
	"bytes"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpager/internal/styled"
)

// Writer emits styled characters into a frame buffer, sending colour and
// attribute changes only when they differ from what was last emitted, and
// wrapping onto the next row when a character would overflow the terminal.
type Writer struct {
	columns int
	pos     int
	wrap    int
	attrs   tcell.AttrMask
	fg      tcell.Color
	bg      tcell.Color
}

func NewWriter(columns int) *Writer {
	w := &Writer{}
	w.Reset(columns)
	return w
}

// Reset prepares the writer for a new frame on a terminal of the given width.
// The terminal is assumed to be in its default style.
func (w *Writer) Reset(columns int) {
	if columns < 1 {
		columns = 1
	}
	*w = Writer{columns: columns, fg: tcell.ColorDefault, bg: tcell.ColorDefault}
}

// Wraps counts the extra rows produced by wrapping since Reset.
func (w *Writer) Wraps() int { return w.wrap }

// Column is the current column on the row being written.
func (w *Writer) Column() int { return w.pos }

// Put writes one character.
func (w *Writer) Put(buf *bytes.Buffer, ch styled.Char) {
	fg := normalizeColor(ch.Fg)
	bg := normalizeColor(ch.Bg)
	if ch.Attrs != w.attrs {
		appendStyle(buf, ch.Attrs, fg, bg)
		w.attrs, w.fg, w.bg = ch.Attrs, fg, bg
	} else {
		if fg != w.fg {
			appendColorSGR(buf, fg, true)
			w.fg = fg
		}
		if bg != w.bg {
			appendColorSGR(buf, bg, false)
			w.bg = bg
		}
	}

	width := ch.Width()
	if w.pos+width > w.columns {
		buf.WriteString(NextLine)
		buf.WriteString(ClearLine)
		w.wrap++
		w.pos = width
	} else {
		w.pos += width
	}

	glyph := ch.Glyph
	if glyph < 0x20 || glyph == 0x7f {
		glyph = '?'
	}
	buf.WriteRune(glyph)
}

// WriteLine writes every character of line.
func (w *Writer) WriteLine(buf *bytes.Buffer, line styled.Line) {
	for _, ch := range line {
		w.Put(buf, ch)
	}
}

// WriteReverse writes line with reverse video forced on, then turns reverse
// video off again.
func (w *Writer) WriteReverse(buf *bytes.Buffer, line styled.Line) {
	for _, ch := range line {
		ch.Attrs |= tcell.AttrReverse
		w.Put(buf, ch)
	}
	buf.WriteString(NoReverse)
	w.attrs &^= tcell.AttrReverse
}

// EndLine marks the start of a fresh row.
func (w *Writer) EndLine() { w.pos = 0 }

// ResetStyle returns the terminal to its default style.
func (w *Writer) ResetStyle(buf *bytes.Buffer) {
	buf.WriteString(ResetStyle)
	w.attrs, w.fg, w.bg = 0, tcell.ColorDefault, tcell.ColorDefault
}
