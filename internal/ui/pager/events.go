package pager

import (
	"context"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpager/internal/ui/input"
)

// HandleEvent applies one input event and reports whether the pager should quit.
func (v *Viewport) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ctx, ev)
	case *tcell.EventMouse:
		if v.prompt.Mode() != ModeNormal {
			return false
		}
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			v.ScrollUp(1)
		case ev.Buttons()&tcell.WheelDown != 0:
			v.ScrollDown(1)
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		v.Resize(w, h)
	case *tcell.EventError:
		v.log.Error("input failed", "error", ev.Error())
		return true
	}
	return false
}

func (v *Viewport) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if v.prompt.Mode() == ModeSearch && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		switch ev.Key() {
		case tcell.KeyRune:
			v.prompt.AppendRune(ev.Rune())
			v.promptOutdated = true
			return false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if !v.prompt.Backspace() {
				v.prompt.Take()
			}
			v.promptOutdated = true
			return false
		case tcell.KeyEnter:
			needle := v.prompt.Take().Input()
			v.Search(ctx, needle)
			v.promptOutdated = true
			return false
		}
	}

	b, ok := v.keymap.Lookup(ev)
	if !ok {
		return false
	}
	switch b.Action {
	case input.ActionQuit:
		return true
	case input.ActionDown:
		v.ScrollDown(repeatRows(b.Size.Rows(v.size.Lines()), v.prompt.Take().Repeat()))
		v.promptOutdated = true
	case input.ActionUp:
		v.ScrollUp(repeatRows(b.Size.Rows(v.size.Lines()), v.prompt.Take().Repeat()))
		v.promptOutdated = true
	case input.ActionSearchNext:
		v.MoveSearch(true)
	case input.ActionSearchPrev:
		v.MoveSearch(false)
	case input.ActionNormalMode:
		v.prompt.Take()
		v.Search(ctx, "")
		v.promptOutdated = true
	case input.ActionDigit:
		v.prompt.PushDigit(b.Digit)
		v.promptOutdated = true
	case input.ActionSearch:
		v.prompt.BeginSearch()
		v.promptOutdated = true
	case input.ActionFollow:
		v.SetFollow(!v.follow)
	case input.ActionRedraw:
		v.Invalidate()
	case input.ActionSuspend:
		if v.suspend == nil {
			return false
		}
		if err := v.suspend(); err != nil {
			v.log.Warn("suspend failed", "error", err)
		}
		v.Invalidate()
	}
	return false
}

// repeatRows multiplies without overflowing.
func repeatRows(rows, times int) int {
	if times <= 0 || rows <= 0 {
		return 0
	}
	if rows > math.MaxInt/times {
		return math.MaxInt
	}
	return rows * times
}
