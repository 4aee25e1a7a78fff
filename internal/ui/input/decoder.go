package input

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

const maxCSILen = 32

// Decoder turns raw terminal bytes into tcell events.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	if br, ok := r.(*bufio.Reader); ok {
		return &Decoder{r: br}
	}
	return &Decoder{r: bufio.NewReader(r)}
}

// Buffered reports bytes read from the device but not yet decoded.
func (d *Decoder) Buffered() int { return d.r.Buffered() }

// ReadEvent decodes the next input. Sequences that carry nothing the pager
// understands yield a nil event and a nil error.
func (d *Decoder) ReadEvent() (tcell.Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b == 0x1b:
		return d.parseEscapeSequence()
	case b == '\r' || b == '\n':
		return tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), nil
	case b == '\t':
		return tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), nil
	case b == 0x7f:
		return tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), nil
	case b == 0x08:
		return tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), nil
	case b >= 0x01 && b <= 0x1a:
		return tcell.NewEventKey(tcell.Key(b), 0, tcell.ModCtrl), nil
	case b < 0x20:
		return nil, nil
	case b < utf8.RuneSelf:
		return tcell.NewEventKey(tcell.KeyRune, rune(b), tcell.ModNone), nil
	}

	if err := d.r.UnreadByte(); err != nil {
		return nil, err
	}
	r, _, err := d.r.ReadRune()
	if err != nil {
		return nil, err
	}
	if r == utf8.RuneError {
		return nil, nil
	}
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone), nil
}

func (d *Decoder) parseEscapeSequence() (tcell.Event, error) {
	if d.r.Buffered() == 0 {
		return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
	}
	next, err := d.r.ReadByte()
	if err != nil {
		return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
	}

	switch next {
	case '[':
		return d.parseCSI()
	case 'O':
		final, err := d.r.ReadByte()
		if err != nil {
			return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
		}
		if key, ok := cursorKey(final); ok {
			return tcell.NewEventKey(key, 0, tcell.ModNone), nil
		}
		return nil, nil
	case 0x1b:
		_ = d.r.UnreadByte()
		return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
	}

	if next < 0x20 || next == 0x7f {
		_ = d.r.UnreadByte()
		ev, err := d.ReadEvent()
		if key, ok := ev.(*tcell.EventKey); ok && err == nil {
			return tcell.NewEventKey(key.Key(), key.Rune(), key.Modifiers()|tcell.ModAlt), nil
		}
		return ev, err
	}
	_ = d.r.UnreadByte()
	r, _, err := d.r.ReadRune()
	if err != nil {
		return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
	}
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModAlt), nil
}

func (d *Decoder) parseCSI() (tcell.Event, error) {
	seq := make([]byte, 0, 8)
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if len(seq) > maxCSILen {
			return nil, nil
		}
	}

	final := seq[len(seq)-1]
	params := string(seq[:len(seq)-1])

	if strings.HasPrefix(params, "<") && (final == 'M' || final == 'm') {
		return parseSGRMouse(params[1:], final == 'M'), nil
	}
	if params == "" && final == 'M' {
		return d.parseX10Mouse()
	}

	fields := strings.Split(params, ";")
	mod := tcell.ModNone
	if len(fields) > 1 {
		mod = modifierParam(fields[1])
	}

	if key, ok := cursorKey(final); ok {
		return tcell.NewEventKey(key, 0, mod), nil
	}
	switch final {
	case 'Z':
		return tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), nil
	case '~':
		switch fields[0] {
		case "1", "7":
			return tcell.NewEventKey(tcell.KeyHome, 0, mod), nil
		case "4", "8":
			return tcell.NewEventKey(tcell.KeyEnd, 0, mod), nil
		case "5":
			return tcell.NewEventKey(tcell.KeyPgUp, 0, mod), nil
		case "6":
			return tcell.NewEventKey(tcell.KeyPgDn, 0, mod), nil
		case "2":
			return tcell.NewEventKey(tcell.KeyInsert, 0, mod), nil
		case "3":
			return tcell.NewEventKey(tcell.KeyDelete, 0, mod), nil
		}
	}
	return nil, nil
}

func cursorKey(final byte) (tcell.Key, bool) {
	switch final {
	case 'A':
		return tcell.KeyUp, true
	case 'B':
		return tcell.KeyDown, true
	case 'C':
		return tcell.KeyRight, true
	case 'D':
		return tcell.KeyLeft, true
	case 'H':
		return tcell.KeyHome, true
	case 'F':
		return tcell.KeyEnd, true
	}
	return 0, false
}

// modifierParam decodes the xterm modifier parameter (1 + bitmask).
func modifierParam(field string) tcell.ModMask {
	n, err := strconv.Atoi(field)
	if err != nil || n < 2 {
		return tcell.ModNone
	}
	bits := n - 1
	mod := tcell.ModNone
	if bits&1 != 0 {
		mod |= tcell.ModShift
	}
	if bits&2 != 0 {
		mod |= tcell.ModAlt
	}
	if bits&4 != 0 {
		mod |= tcell.ModCtrl
	}
	if bits&8 != 0 {
		mod |= tcell.ModMeta
	}
	return mod
}

func parseSGRMouse(params string, press bool) tcell.Event {
	fields := strings.Split(params, ";")
	if len(fields) != 3 || !press {
		return nil
	}
	cb, err1 := strconv.Atoi(fields[0])
	x, err2 := strconv.Atoi(fields[1])
	y, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	return mouseEvent(cb, x-1, y-1)
}

func (d *Decoder) parseX10Mouse() (tcell.Event, error) {
	var raw [3]byte
	if _, err := io.ReadFull(d.r, raw[:]); err != nil {
		return nil, nil
	}
	return mouseEvent(int(raw[0])-32, int(raw[1])-33, int(raw[2])-33), nil
}

// mouseEvent reports wheel motion; button presses are not used by the pager.
func mouseEvent(cb, x, y int) tcell.Event {
	mod := tcell.ModNone
	if cb&4 != 0 {
		mod |= tcell.ModShift
	}
	if cb&8 != 0 {
		mod |= tcell.ModAlt
	}
	if cb&16 != 0 {
		mod |= tcell.ModCtrl
	}
	var buttons tcell.ButtonMask
	switch cb &^ (4 | 8 | 16 | 32) {
	case 64:
		buttons = tcell.WheelUp
	case 65:
		buttons = tcell.WheelDown
	default:
		return nil
	}
	return tcell.NewEventMouse(max(x, 0), max(y, 0), buttons, mod)
}
