package pager

import (
	"unicode/utf16"

	"github.com/gdamore/tcell/v2"
)

// Console input record constants (wincon.h).
const (
	consoleKeyEvent    = 0x0001
	consoleMouseEvent  = 0x0002
	consoleResizeEvent = 0x0004

	consoleMouseWheeled = 0x0004

	consoleRightAlt  = 0x0001
	consoleLeftAlt   = 0x0002
	consoleRightCtrl = 0x0004
	consoleLeftCtrl  = 0x0008
	consoleShift     = 0x0010
)

var consoleKeyCodes = map[uint16]tcell.Key{
	0x08: tcell.KeyBackspace2,
	0x09: tcell.KeyTab,
	0x0D: tcell.KeyEnter,
	0x1B: tcell.KeyEscape,
	0x21: tcell.KeyPgUp,
	0x22: tcell.KeyPgDn,
	0x23: tcell.KeyEnd,
	0x24: tcell.KeyHome,
	0x25: tcell.KeyLeft,
	0x26: tcell.KeyUp,
	0x27: tcell.KeyRight,
	0x28: tcell.KeyDown,
	0x2E: tcell.KeyDelete,
}

// consoleKeys turns console key records into the events the unix decoder
// produces for the same keystrokes.
type consoleKeys struct {
	high rune
}

// key translates one key-down record. Bare modifier presses and unpaired
// surrogates yield false.
func (c *consoleKeys) key(vk uint16, unit uint16, state uint32) (tcell.Event, bool) {
	mod := consoleMods(state)
	if code, ok := consoleKeyCodes[vk]; ok {
		c.high = 0
		return tcell.NewEventKey(code, 0, mod), true
	}

	r := rune(unit)
	switch {
	case utf16.IsSurrogate(r) && r < 0xDC00:
		c.high = r
		return nil, false
	case utf16.IsSurrogate(r):
		high := c.high
		c.high = 0
		if high == 0 {
			return nil, false
		}
		r = utf16.DecodeRune(high, r)
	case r == 0:
		return nil, false
	}
	c.high = 0

	switch {
	case r >= 0x01 && r <= 0x1a:
		return tcell.NewEventKey(tcell.Key(r), 0, mod|tcell.ModCtrl), true
	case r < 0x20 || r == 0x7f:
		return nil, false
	}
	mod &^= tcell.ModShift
	// AltGr arrives as Ctrl+Alt with the composed character.
	if mod&(tcell.ModCtrl|tcell.ModAlt) == tcell.ModCtrl|tcell.ModAlt {
		mod &^= tcell.ModCtrl | tcell.ModAlt
	}
	return tcell.NewEventKey(tcell.KeyRune, r, mod), true
}

func consoleMods(state uint32) tcell.ModMask {
	var mod tcell.ModMask
	if state&(consoleLeftCtrl|consoleRightCtrl) != 0 {
		mod |= tcell.ModCtrl
	}
	if state&(consoleLeftAlt|consoleRightAlt) != 0 {
		mod |= tcell.ModAlt
	}
	if state&consoleShift != 0 {
		mod |= tcell.ModShift
	}
	return mod
}

// consoleWheel translates a wheel record; the signed delta is in the high
// word of the button state.
func consoleWheel(flags, buttons uint32, x, y int16) (tcell.Event, bool) {
	if flags&consoleMouseWheeled == 0 {
		return nil, false
	}
	delta := int16(buttons >> 16)
	switch {
	case delta > 0:
		return tcell.NewEventMouse(int(x), int(y), tcell.WheelUp, tcell.ModNone), true
	case delta < 0:
		return tcell.NewEventMouse(int(x), int(y), tcell.WheelDown, tcell.ModNone), true
	}
	return nil, false
}
