package pager

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Clock paces the tick loop.
type Clock interface {
	Now() time.Time
	// Sleep waits for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Tick runs one loop iteration: every pending event, then at most one batch
// of queued lines, then the render pipeline. It reports true when an event
// asked to quit.
func (v *Viewport) Tick(ctx context.Context, events <-chan tcell.Event) (bool, error) {
drain:
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				break drain
			}
			if v.HandleEvent(ctx, ev) {
				return true, nil
			}
		default:
			break drain
		}
	}

	if v.source != nil {
		v.source.Drain(v.batch, v.PushLine)
	}
	return false, v.Update(ctx)
}

// Run ticks at the configured rate until an event quits, a frame cannot be
// written, or ctx is cancelled. Cancellation is a clean exit.
func (v *Viewport) Run(ctx context.Context, events <-chan tcell.Event) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		start := v.clock.Now()
		quit, err := v.Tick(ctx, events)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		if rest := v.tick - v.clock.Now().Sub(start); rest > 0 {
			v.clock.Sleep(ctx, rest)
		}
	}
}
