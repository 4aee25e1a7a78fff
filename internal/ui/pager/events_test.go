package pager

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func code(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func send(t *testing.T, v *Viewport, events ...tcell.Event) bool {
	t.Helper()
	quit := false
	for _, ev := range events {
		quit = v.HandleEvent(context.Background(), ev)
	}
	return quit
}

func TestKeyScrolling(t *testing.T) {
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "line"
	}
	v, _ := newTestViewport(t, 80, 11, lines...)

	tests := []struct {
		name  string
		ev    tcell.Event
		start int
		want  int
	}{
		{"j scrolls one row", key('j'), 0, 1},
		{"down arrow", code(tcell.KeyDown), 0, 1},
		{"enter scrolls one row", code(tcell.KeyEnter), 0, 1},
		{"k scrolls back", key('k'), 5, 4},
		{"d scrolls half a page", key('d'), 0, 5},
		{"u scrolls half a page back", key('u'), 10, 5},
		{"space scrolls a page", key(' '), 0, 10},
		{"b scrolls a page back", key('b'), 20, 10},
		{"G jumps to the end", key('G'), 0, 30},
		{"g jumps to the start", key('g'), 17, 0},
		{"ctrl-y scrolls back", tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl), 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.GotoScroll(tt.start)
			if send(t, v, tt.ev) {
				t.Fatalf("unexpected quit")
			}
			if v.Scroll() != tt.want {
				t.Fatalf("scroll = %d, want %d", v.Scroll(), tt.want)
			}
		})
	}
}

func TestNumberPrefixRepeatsMotion(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, key('2'), key('j'))
	if v.Scroll() != 2 {
		t.Fatalf("2j scrolled to %d, want 2", v.Scroll())
	}
	if v.Prompt().Mode() != ModeNormal {
		t.Fatalf("prompt mode = %v after motion, want normal", v.Prompt().Mode())
	}

	send(t, v, key('0'), key('k'))
	if v.Scroll() != 2 {
		t.Fatalf("0k moved to %d", v.Scroll())
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []tcell.Event{
		key('q'),
		key('Q'),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
		tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl),
	} {
		v, _ := newTestViewport(t, 80, 4, "a")
		if !send(t, v, ev) {
			t.Fatalf("%v should quit", ev.(*tcell.EventKey).Name())
		}
	}
}

func TestUnmappedKeyIsIgnored(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	if send(t, v, key('z')) || v.Scroll() != 0 {
		t.Fatalf("unmapped key changed state")
	}
}

func TestSearchInput(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)

	send(t, v, key('/'), key('n'), key('e'), key('e'), key('x'))
	if v.Prompt().Mode() != ModeSearch || v.Prompt().Input() != "neex" {
		t.Fatalf("prompt = %v %q, want search neex", v.Prompt().Mode(), v.Prompt().Input())
	}
	if v.Scroll() != 0 {
		t.Fatalf("typed n must not move to a match")
	}
	send(t, v, code(tcell.KeyBackspace2), key('d'), key('l'), key('e'), code(tcell.KeyEnter))
	if v.Prompt().Mode() != ModeNormal {
		t.Fatalf("enter should leave search mode")
	}
	if v.needle.String() != "needle" {
		t.Fatalf("needle = %q, want needle", v.needle.String())
	}
	if v.Scroll() != 1 {
		t.Fatalf("search moved to %d, want 1", v.Scroll())
	}

	send(t, v, key('n'))
	if v.Scroll() != 3 {
		t.Fatalf("n moved to %d, want 3", v.Scroll())
	}
	send(t, v, key('N'))
	if v.Scroll() != 1 {
		t.Fatalf("N moved to %d, want 1", v.Scroll())
	}
}

func TestBackspaceOnEmptySearchLeavesSearchMode(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, key('/'), code(tcell.KeyBackspace2))
	if v.Prompt().Mode() != ModeNormal {
		t.Fatalf("mode = %v, want normal", v.Prompt().Mode())
	}
}

func TestCtrlKeysPassThroughSearchMode(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, key('/'), key('a'))
	if !send(t, v, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Fatalf("ctrl-c should quit from search mode")
	}
}

func TestEscapeClearsSearch(t *testing.T) {
	v, out := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, key('/'), key('t'), key('w'), key('o'), code(tcell.KeyEnter))
	if len(v.flowMatches) == 0 {
		t.Fatalf("setup: no matches")
	}
	if err := v.Update(context.Background()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	out.Reset()

	send(t, v, key('3'), code(tcell.KeyEscape))
	if v.Prompt().Mode() != ModeNormal || v.Prompt().Number() != 0 {
		t.Fatalf("escape left prompt in %v", v.Prompt().Mode())
	}
	if !v.needle.Empty() || v.flowMatches != nil {
		t.Fatalf("escape kept the search")
	}
	if err := v.Update(context.Background()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if out.Len() == 0 || out.String()[:3] != "\x1b[H" {
		t.Fatalf("escape should repaint the frame, got %q", out.String())
	}
}

func TestMouseWheelOnlyInNormalMode(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if v.Scroll() != 1 {
		t.Fatalf("wheel down scrolled to %d, want 1", v.Scroll())
	}
	send(t, v, tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	if v.Scroll() != 0 {
		t.Fatalf("wheel up scrolled to %d, want 0", v.Scroll())
	}

	send(t, v, key('4'), tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if v.Scroll() != 0 {
		t.Fatalf("wheel must be ignored while typing a number")
	}
	if v.Prompt().Number() != 4 {
		t.Fatalf("wheel disturbed the number prompt")
	}
}

func TestResizeEvent(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, tcell.NewEventResize(40, 8))
	if v.Size().Columns() != 40 || v.Size().Lines() != 7 {
		t.Fatalf("size = %dx%d, want 40x7", v.Size().Columns(), v.Size().Lines())
	}
}

func TestErrorEventQuits(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, "a")
	if !send(t, v, tcell.NewEventError(context.Canceled)) {
		t.Fatalf("input errors should end the pager")
	}
}

func TestFollowToggle(t *testing.T) {
	v, _ := newTestViewport(t, 80, 4, tenLines()...)
	send(t, v, key('F'))
	if !v.Following() || v.Scroll() != 7 {
		t.Fatalf("F: following=%v scroll=%d", v.Following(), v.Scroll())
	}
	send(t, v, key('F'))
	if v.Following() {
		t.Fatalf("second F should stop following")
	}
}

func TestSuspendRunsHookAndRepaints(t *testing.T) {
	calls := 0
	v := New(&discard{}, nil, 80, 4, Options{ReservedRows: 1, Suspend: func() error {
		calls++
		return nil
	}})
	if err := v.Update(context.Background()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	send(t, v, tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl))
	if calls != 1 {
		t.Fatalf("suspend hook called %d times", calls)
	}
	if !v.needRedraw {
		t.Fatalf("resume should force a repaint")
	}
}

func TestRepeatRowsSaturates(t *testing.T) {
	tests := []struct {
		rows, times, want int
	}{
		{1, 1, 1},
		{5, 3, 15},
		{0, 9, 0},
		{4, 0, 0},
		{1 << 62, 4, int(^uint(0) >> 1)},
	}
	for _, tt := range tests {
		if got := repeatRows(tt.rows, tt.times); got != tt.want {
			t.Fatalf("repeatRows(%d, %d) = %d, want %d", tt.rows, tt.times, got, tt.want)
		}
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
