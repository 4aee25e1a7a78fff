package pager

// Mode is the interpretation applied to keystrokes.
type Mode int

const (
	ModeNormal Mode = iota
	ModeNumber
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeNumber:
		return "number"
	case ModeSearch:
		return "search"
	default:
		return "normal"
	}
}

// PromptState is the pending numeric prefix or search input.
type PromptState struct {
	mode   Mode
	number int
	input  []rune
}

func (p PromptState) Mode() Mode { return p.mode }

// Number is the accumulated prefix in ModeNumber.
func (p PromptState) Number() int { return p.number }

// Input is the search buffer in ModeSearch.
func (p PromptState) Input() string { return string(p.input) }

// Repeat is the multiplier a scroll applies: the numeric prefix when one
// is pending, one otherwise.
func (p PromptState) Repeat() int {
	if p.mode == ModeNumber {
		return p.number
	}
	return 1
}

// Take returns the current state and resets to ModeNormal.
func (p *PromptState) Take() PromptState {
	old := *p
	*p = PromptState{}
	return old
}

// PushDigit appends d to the prefix, starting a new one outside ModeNumber.
func (p *PromptState) PushDigit(d int) {
	if p.mode != ModeNumber {
		*p = PromptState{mode: ModeNumber, number: d}
		return
	}
	const limit = int(^uint(0)>>1) / 10
	if p.number > limit {
		return
	}
	p.number = p.number*10 + d
}

// BeginSearch switches to ModeSearch with an empty buffer.
func (p *PromptState) BeginSearch() {
	*p = PromptState{mode: ModeSearch}
}

func (p *PromptState) AppendRune(r rune) {
	p.input = append(p.input, r)
}

// Backspace drops the last search rune. It reports false when the buffer
// was already empty.
func (p *PromptState) Backspace() bool {
	if len(p.input) == 0 {
		return false
	}
	p.input = p.input[:len(p.input)-1]
	return true
}
