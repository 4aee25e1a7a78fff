package pager

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newBufferTTY() (*TTY, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &TTY{
		output: out,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		events: make(chan tcell.Event, 1),
		done:   make(chan struct{}),
	}, out
}

func TestTTYModeSequences(t *testing.T) {
	tty, out := newBufferTTY()
	if err := tty.enterModes(); err != nil {
		t.Fatalf("enterModes error: %v", err)
	}
	if got, want := out.String(), "\x1b[?1049h\x1b[?1000h\x1b[?1006h\x1b[?7l\x1b[?25l"; got != want {
		t.Fatalf("enter = %q, want %q", got, want)
	}

	out.Reset()
	tty.leaveModes()
	if got, want := out.String(), "\x1b[?25h\x1b[?7h\x1b[?1006l\x1b[?1000l\x1b[?1049l"; got != want {
		t.Fatalf("leave = %q, want %q", got, want)
	}

	out.Reset()
	tty.leaveModes()
	if out.Len() != 0 {
		t.Fatalf("second leave wrote %q", out.String())
	}
}

func TestTTYStopIsIdempotent(t *testing.T) {
	tty, out := newBufferTTY()
	if err := tty.enterModes(); err != nil {
		t.Fatalf("enterModes error: %v", err)
	}
	out.Reset()
	tty.Stop()
	tty.Stop()
	if err := tty.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if got := bytes.Count(out.Bytes(), []byte("\x1b[?1049l")); got != 1 {
		t.Fatalf("alternate screen left %d times", got)
	}
	if tty.post(tcell.NewEventResize(1, 1)) {
		t.Fatalf("post after Stop should be refused")
	}
}

func TestTTYWithoutDevice(t *testing.T) {
	tty := &TTY{log: slog.New(slog.NewTextHandler(io.Discard, nil)), events: make(chan tcell.Event, 1), done: make(chan struct{})}
	if _, err := tty.Write([]byte("x")); err == nil {
		t.Fatalf("Write without output should fail")
	}
	if _, _, err := tty.Size(); err == nil {
		t.Fatalf("Size without input should fail")
	}
	tty.postSize()
	select {
	case ev := <-tty.Events():
		t.Fatalf("unexpected event %T", ev)
	default:
	}
}

func TestTTYPostAfterStopNeverQueues(t *testing.T) {
	for i := 0; i < 200; i++ {
		tty, _ := newBufferTTY()
		tty.Stop()
		if tty.post(tcell.NewEventResize(80, 24)) {
			t.Fatalf("iteration %d: post accepted after Stop", i)
		}
		if n := len(tty.events); n != 0 {
			t.Fatalf("iteration %d: %d events queued after Stop", i, n)
		}
	}
}
