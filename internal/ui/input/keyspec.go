package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
	ErrUnknownName = errors.New("unknown behavior")
)

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"cr":        tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"bs":        tcell.KeyBackspace2,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pgup":      tcell.KeyPgUp,
	"pageup":    tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"pagedown":  tcell.KeyPgDn,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
}

// ParseKey parses a key specification. Accepted forms are a single
// character ("j", "G"), a key name ("enter", "pgdn", "space"), and modified
// keys in vi ("C-d", "<C-d>", "M-x") or long ("Ctrl+D", "Alt+x") notation.
func ParseKey(spec string) (Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Key{}, ErrEmptySpec
	}
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		spec = spec[1 : len(spec)-1]
	}

	var mod tcell.ModMask
	keyPart := spec
	if utf8.RuneCountInString(spec) > 1 {
		sep := "-"
		if strings.Contains(spec, "+") && !strings.HasSuffix(spec, "+") {
			sep = "+"
		}
		parts := strings.Split(spec, sep)
		if len(parts) > 1 && parts[len(parts)-1] == "" {
			// "C--" binds Ctrl with the separator itself.
			parts = append(parts[:len(parts)-2], sep)
		}
		keyPart = parts[len(parts)-1]
		for _, p := range parts[:len(parts)-1] {
			switch strings.ToLower(strings.TrimSpace(p)) {
			case "c", "ctrl", "control":
				mod |= tcell.ModCtrl
			case "a", "m", "alt", "meta":
				mod |= tcell.ModAlt
			case "s", "shift":
				mod |= tcell.ModShift
			default:
				return Key{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
			}
		}
	}
	return keyWithModifiers(keyPart, mod, spec)
}

func keyWithModifiers(keyPart string, mod tcell.ModMask, spec string) (Key, error) {
	if keyPart == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	lower := strings.ToLower(keyPart)
	if lower == "space" {
		keyPart, lower = " ", " "
	}
	if code, ok := namedKeys[lower]; ok && utf8.RuneCountInString(keyPart) > 1 {
		return Key{Code: code, Mod: mod}, nil
	}
	if utf8.RuneCountInString(keyPart) != 1 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	r, _ := utf8.DecodeRuneInString(keyPart)
	if mod&tcell.ModCtrl != 0 {
		lr := r | 0x20
		if lr < 'a' || lr > 'z' {
			return Key{}, fmt.Errorf("%w: ctrl needs a letter in %q", ErrInvalidSpec, spec)
		}
		k := CtrlKey(lr)
		k.Mod |= mod &^ tcell.ModShift
		return k, nil
	}
	if mod&tcell.ModShift != 0 && r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return Key{Code: tcell.KeyRune, Rune: r, Mod: mod &^ tcell.ModShift}, nil
}

var behaviorNames = map[string]Behavior{
	"quit":        {Action: ActionQuit},
	"down":        {Action: ActionDown, Size: ScrollOne},
	"up":          {Action: ActionUp, Size: ScrollOne},
	"down-half":   {Action: ActionDown, Size: ScrollHalfPage},
	"up-half":     {Action: ActionUp, Size: ScrollHalfPage},
	"down-page":   {Action: ActionDown, Size: ScrollPage},
	"up-page":     {Action: ActionUp, Size: ScrollPage},
	"bottom":      {Action: ActionDown, Size: ScrollEnd},
	"top":         {Action: ActionUp, Size: ScrollEnd},
	"search":      {Action: ActionSearch},
	"search-next": {Action: ActionSearchNext},
	"search-prev": {Action: ActionSearchPrev},
	"normal":      {Action: ActionNormalMode},
	"follow":      {Action: ActionFollow},
	"suspend":     {Action: ActionSuspend},
	"redraw":      {Action: ActionRedraw},
}

// ParseBehavior resolves a behavior name such as "down-half" or "digit-3".
func ParseBehavior(name string) (Behavior, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if b, ok := behaviorNames[name]; ok {
		return b, nil
	}
	if d, ok := strings.CutPrefix(name, "digit-"); ok && len(d) == 1 && d[0] >= '0' && d[0] <= '9' {
		return Behavior{Action: ActionDigit, Digit: int(d[0] - '0')}, nil
	}
	return Behavior{}, fmt.Errorf("%w: %q", ErrUnknownName, name)
}

// Bind sets key to behavior, both given as text. The behavior "none"
// removes the binding.
func (m KeyMap) Bind(keySpec, behavior string) error {
	k, err := ParseKey(keySpec)
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(behavior), "none") {
		delete(m, k)
		return nil
	}
	b, err := ParseBehavior(behavior)
	if err != nil {
		return err
	}
	m[k] = b
	return nil
}
