package render

import (
	"bytes"
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// Terminal control sequences used by the pager.
const (
	CursorHome      = "\x1b[H"
	ClearLine       = "\x1b[2K"
	NextLine        = "\x1b[1E"
	ResetStyle      = "\x1b[0m"
	NoReverse       = "\x1b[27m"
	HideCursor      = "\x1b[?25l"
	ShowCursor      = "\x1b[?25h"
	DisableAutowrap = "\x1b[?7l"
	EnableAutowrap  = "\x1b[?7h"
	EnterAltScreen  = "\x1b[?1049h"
	LeaveAltScreen  = "\x1b[?1049l"
	EnableMouse     = "\x1b[?1000h\x1b[?1006h"
	DisableMouse    = "\x1b[?1006l\x1b[?1000l"
)

// MoveTo positions the cursor at the zero-based column and row.
func MoveTo(buf *bytes.Buffer, col, row int) {
	buf.WriteString("\x1b[")
	buf.WriteString(strconv.Itoa(row + 1))
	buf.WriteByte(';')
	buf.WriteString(strconv.Itoa(col + 1))
	buf.WriteByte('H')
}

var attrCodes = []struct {
	mask tcell.AttrMask
	code byte
}{
	{tcell.AttrBold, '1'},
	{tcell.AttrDim, '2'},
	{tcell.AttrItalic, '3'},
	{tcell.AttrUnderline, '4'},
	{tcell.AttrBlink, '5'},
	{tcell.AttrReverse, '7'},
	{tcell.AttrStrikeThrough, '9'},
}

// appendStyle writes a full SGR: reset, attributes, then any non-default colours.
func appendStyle(buf *bytes.Buffer, attrs tcell.AttrMask, fg, bg tcell.Color) {
	buf.WriteString("\x1b[0")
	for _, a := range attrCodes {
		if attrs&a.mask != 0 {
			buf.WriteByte(';')
			buf.WriteByte(a.code)
		}
	}
	if fg != tcell.ColorDefault {
		buf.WriteByte(';')
		appendColor(buf, fg, true)
	}
	if bg != tcell.ColorDefault {
		buf.WriteByte(';')
		appendColor(buf, bg, false)
	}
	buf.WriteByte('m')
}

func appendColorSGR(buf *bytes.Buffer, c tcell.Color, fg bool) {
	buf.WriteString("\x1b[")
	appendColor(buf, c, fg)
	buf.WriteByte('m')
}

// appendColor writes SGR parameters for c without the CSI prefix.
func appendColor(buf *bytes.Buffer, c tcell.Color, fg bool) {
	base := 30
	if !fg {
		base = 40
	}
	switch {
	case c == tcell.ColorDefault || !c.Valid():
		buf.WriteString(strconv.Itoa(base + 9))
	case c.IsRGB():
		r, g, b := c.RGB()
		buf.WriteString(strconv.Itoa(base + 8))
		buf.WriteString(";2;")
		buf.WriteString(strconv.Itoa(int(r)))
		buf.WriteByte(';')
		buf.WriteString(strconv.Itoa(int(g)))
		buf.WriteByte(';')
		buf.WriteString(strconv.Itoa(int(b)))
	default:
		idx := int(c - tcell.ColorValid)
		switch {
		case idx < 8:
			buf.WriteString(strconv.Itoa(base + idx))
		case idx < 16:
			buf.WriteString(strconv.Itoa(base + 60 + idx - 8))
		default:
			buf.WriteString(strconv.Itoa(base + 8))
			buf.WriteString(";5;")
			buf.WriteString(strconv.Itoa(idx))
		}
	}
}

func normalizeColor(c tcell.Color) tcell.Color {
	if c == tcell.ColorReset || !c.Valid() {
		return tcell.ColorDefault
	}
	return c
}
