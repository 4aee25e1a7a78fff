package pager

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func manyLines(n int) *fakeSource {
	src := &fakeSource{}
	for i := 0; i < n; i++ {
		src.lines = append(src.lines, plainLines("x")...)
	}
	return src
}

func TestTickCapsLinesPerBatch(t *testing.T) {
	src := manyLines(12000)
	v := New(&bytes.Buffer{}, src, 80, 24, Options{ReservedRows: 1})
	for i := 0; i < 4; i++ {
		quit, err := v.Tick(context.Background(), nil)
		if err != nil || quit {
			t.Fatalf("tick %d: quit=%v err=%v", i, quit, err)
		}
	}
	want := []int{5000, 5000, 2000, 0}
	if len(src.drained) != len(want) {
		t.Fatalf("drained %v, want %v", src.drained, want)
	}
	for i := range want {
		if src.drained[i] != want[i] {
			t.Fatalf("drained %v, want %v", src.drained, want)
		}
	}
	if v.Lines() != 12000 || v.Rows() != 12000 {
		t.Fatalf("lines=%d rows=%d, want 12000", v.Lines(), v.Rows())
	}
}

func TestTickHandlesEventsBeforeLines(t *testing.T) {
	src := manyLines(10)
	v := New(&bytes.Buffer{}, src, 80, 24, Options{ReservedRows: 1})
	events := make(chan tcell.Event, 2)
	events <- key('j')
	events <- key('q')

	quit, err := v.Tick(context.Background(), events)
	if err != nil {
		t.Fatalf("Tick error: %v", err)
	}
	if !quit {
		t.Fatalf("q should end the tick with quit")
	}
	if len(src.drained) != 0 {
		t.Fatalf("lines drained after quit: %v", src.drained)
	}
}

func TestTickWithClosedEvents(t *testing.T) {
	v := New(&bytes.Buffer{}, manyLines(3), 80, 24, Options{ReservedRows: 1})
	events := make(chan tcell.Event)
	close(events)
	quit, err := v.Tick(context.Background(), events)
	if quit || err != nil {
		t.Fatalf("quit=%v err=%v", quit, err)
	}
	if v.Lines() != 3 {
		t.Fatalf("lines = %d, want 3", v.Lines())
	}
}

func TestRunSleepsRemainderOfTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	src := &fakeSource{}
	src.onDrain = func() {
		if len(src.drained) == 2 {
			cancel()
		}
	}
	v := New(&bytes.Buffer{}, src, 80, 24, Options{ReservedRows: 1, Clock: clock, TickRate: 10 * time.Millisecond})

	if err := v.Run(ctx, nil); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(clock.slept) != 3 {
		t.Fatalf("slept %v, want three ticks", clock.slept)
	}
	for _, d := range clock.slept {
		if d != 10*time.Millisecond {
			t.Fatalf("slept %v, want 10ms each", clock.slept)
		}
	}
}

func TestRunSkipsSleepAfterSlowTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	src := &fakeSource{}
	src.onDrain = func() {
		clock.now = clock.now.Add(25 * time.Millisecond)
		if len(src.drained) == 2 {
			cancel()
		}
	}
	v := New(&bytes.Buffer{}, src, 80, 24, Options{ReservedRows: 1, Clock: clock, TickRate: 10 * time.Millisecond})

	if err := v.Run(ctx, nil); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Fatalf("slept %v after slow ticks", clock.slept)
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	v := New(&bytes.Buffer{}, manyLines(1), 80, 24, Options{ReservedRows: 1, Clock: clock})
	events := make(chan tcell.Event, 1)
	events <- key('q')
	if err := v.Run(context.Background(), events); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Fatalf("Run kept ticking after quit")
	}
}

func TestRunReturnsFrameErrors(t *testing.T) {
	v := New(failingWriter{}, manyLines(1), 80, 24, Options{ReservedRows: 1, Clock: &fakeClock{}})
	if err := v.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected write error from Run")
	}
}

func TestRunWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := manyLines(1)
	v := New(&bytes.Buffer{}, src, 80, 24, Options{ReservedRows: 1, Clock: &fakeClock{}})
	if err := v.Run(ctx, nil); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(src.drained) != 0 {
		t.Fatalf("cancelled Run should not tick")
	}
}
