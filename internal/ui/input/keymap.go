// Package input maps terminal input to pager behaviors.
package input

import (
	"math"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// ScrollSize is the distance of a scroll behavior.
type ScrollSize int

const (
	ScrollOne ScrollSize = iota
	ScrollHalfPage
	ScrollPage
	ScrollEnd
)

// Rows converts the size into a row count for a viewport of the given height.
func (s ScrollSize) Rows(viewport int) int {
	switch s {
	case ScrollHalfPage:
		return max(viewport/2, 1)
	case ScrollPage:
		return max(viewport, 1)
	case ScrollEnd:
		return math.MaxInt
	default:
		return 1
	}
}

// Action identifies what a key does.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionDown
	ActionUp
	ActionSearchNext
	ActionSearchPrev
	ActionNormalMode
	ActionDigit
	ActionSearch
	ActionFollow
	ActionSuspend
	ActionRedraw
)

// Behavior is the bound effect of a key. Size applies to scrolling and
// Digit to ActionDigit.
type Behavior struct {
	Action Action
	Size   ScrollSize
	Digit  int
}

// Key is a normalised key identity: a special key code, or KeyRune with the
// rune. Shift is folded into the rune for printable keys.
type Key struct {
	Code tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

func RuneKey(r rune) Key { return Key{Code: tcell.KeyRune, Rune: r} }

func CodeKey(code tcell.Key, mod tcell.ModMask) Key { return Key{Code: code, Mod: mod} }

// CtrlKey is Ctrl plus a letter.
func CtrlKey(letter rune) Key {
	letter = unicode.ToLower(letter)
	return Key{Code: tcell.KeyCtrlA + tcell.Key(letter-'a'), Mod: tcell.ModCtrl}
}

// KeyOf normalises a key event.
func KeyOf(ev *tcell.EventKey) Key {
	code := ev.Key()
	mod := ev.Modifiers() & (tcell.ModCtrl | tcell.ModAlt | tcell.ModShift | tcell.ModMeta)
	if code == tcell.KeyRune {
		r := ev.Rune()
		if mod&tcell.ModCtrl != 0 {
			lower := unicode.ToLower(r)
			if lower >= 'a' && lower <= 'z' {
				return Key{Code: tcell.KeyCtrlA + tcell.Key(lower-'a'), Mod: mod&^tcell.ModShift | tcell.ModCtrl}
			}
		}
		return Key{Code: tcell.KeyRune, Rune: r, Mod: mod &^ tcell.ModShift}
	}
	if code >= tcell.KeyCtrlA && code <= tcell.KeyCtrlZ && !typeableControl(code) {
		mod |= tcell.ModCtrl
	}
	return Key{Code: code, Mod: mod}
}

// typeableControl reports control codes that have their own key on a keyboard.
func typeableControl(code tcell.Key) bool {
	switch code {
	case tcell.KeyBackspace, tcell.KeyTab, tcell.KeyEnter:
		return true
	}
	return false
}

// KeyMap is the dispatch table from keys to behaviors.
type KeyMap map[Key]Behavior

// Lookup resolves a key event. Unmapped keys report false.
func (m KeyMap) Lookup(ev *tcell.EventKey) (Behavior, bool) {
	b, ok := m[KeyOf(ev)]
	return b, ok
}

// Clone copies the table so it can be modified independently.
func (m KeyMap) Clone() KeyMap {
	out := make(KeyMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DefaultKeyMap returns the vi/less bindings.
func DefaultKeyMap() KeyMap {
	down := func(s ScrollSize) Behavior { return Behavior{Action: ActionDown, Size: s} }
	up := func(s ScrollSize) Behavior { return Behavior{Action: ActionUp, Size: s} }

	m := KeyMap{
		CodeKey(tcell.KeyEnter, tcell.ModNone): down(ScrollOne),
		CodeKey(tcell.KeyDown, tcell.ModNone):  down(ScrollOne),
		RuneKey('j'):                           down(ScrollOne),
		CtrlKey('e'):                           down(ScrollOne),
		CtrlKey('n'):                           down(ScrollOne),

		CodeKey(tcell.KeyUp, tcell.ModNone): up(ScrollOne),
		RuneKey('k'):                        up(ScrollOne),
		CtrlKey('y'):                        up(ScrollOne),
		CtrlKey('k'):                        up(ScrollOne),
		CtrlKey('p'):                        up(ScrollOne),

		RuneKey('u'):                           up(ScrollHalfPage),
		CtrlKey('u'):                           up(ScrollHalfPage),
		CodeKey(tcell.KeyLeft, tcell.ModNone):  up(ScrollHalfPage),
		RuneKey('d'):                           down(ScrollHalfPage),
		CodeKey(tcell.KeyRight, tcell.ModNone): down(ScrollHalfPage),

		RuneKey('f'):                          down(ScrollPage),
		CtrlKey('f'):                          down(ScrollPage),
		CtrlKey('v'):                          down(ScrollPage),
		RuneKey(' '):                          down(ScrollPage),
		CodeKey(tcell.KeyPgDn, tcell.ModNone): down(ScrollPage),
		RuneKey('b'):                          up(ScrollPage),
		CtrlKey('b'):                          up(ScrollPage),
		CodeKey(tcell.KeyPgUp, tcell.ModNone): up(ScrollPage),

		CodeKey(tcell.KeyHome, tcell.ModNone): up(ScrollEnd),
		RuneKey('g'):                          up(ScrollEnd),
		CodeKey(tcell.KeyEnd, tcell.ModNone):  down(ScrollEnd),
		RuneKey('G'):                          down(ScrollEnd),

		RuneKey('q'):                            {Action: ActionQuit},
		RuneKey('Q'):                            {Action: ActionQuit},
		CtrlKey('c'):                            {Action: ActionQuit},
		RuneKey('/'):                            {Action: ActionSearch},
		RuneKey('n'):                            {Action: ActionSearchNext},
		RuneKey('N'):                            {Action: ActionSearchPrev},
		CodeKey(tcell.KeyEscape, tcell.ModNone): {Action: ActionNormalMode},
		RuneKey('F'):                            {Action: ActionFollow},
		CtrlKey('z'):                            {Action: ActionSuspend},
		RuneKey('r'):                            {Action: ActionRedraw},
		CtrlKey('l'):                            {Action: ActionRedraw},
	}
	for d := 0; d <= 9; d++ {
		m[RuneKey(rune('0'+d))] = Behavior{Action: ActionDigit, Digit: d}
	}
	// Ctrl-d quits instead of scrolling half a page.
	m[CtrlKey('d')] = Behavior{Action: ActionQuit}
	return m
}
