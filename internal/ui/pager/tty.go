package pager

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpager/internal/ui/input"
	"github.com/kk-code-lab/rpager/internal/ui/render"
	"golang.org/x/term"
)

// TTY is the interactive terminal device, separate from standard input and
// output so the pager can read piped data while drawing.
type TTY struct {
	input   *os.File
	output  io.Writer
	decoder *input.Decoder
	log     *slog.Logger

	restoreTerm *term.State
	events      chan tcell.Event
	done        chan struct{}
	stopOnce    sync.Once
	stopReader  func()
	active      bool
}

// OpenTTY opens the controlling terminal.
func OpenTTY(logger *slog.Logger) (*TTY, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &TTY{
		log:    logger,
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
	}
	in, out, err := openDevice()
	if err != nil {
		return nil, err
	}
	t.input = in
	t.output = out
	t.decoder = input.NewDecoder(bufio.NewReader(t.input))
	return t, nil
}

func (t *TTY) Write(p []byte) (int, error) {
	if t.output == nil {
		return 0, errors.New("no terminal output")
	}
	return t.output.Write(p)
}

// Size reports the terminal columns and rows.
func (t *TTY) Size() (int, int, error) {
	if f, ok := t.output.(*os.File); ok {
		return term.GetSize(int(f.Fd()))
	}
	if t.input == nil {
		return 0, 0, errors.New("no terminal input")
	}
	return term.GetSize(int(t.input.Fd()))
}

// Events delivers decoded keys, mouse wheel motion and resizes.
func (t *TTY) Events() <-chan tcell.Event { return t.events }

// Start switches the terminal into pager mode and begins reading input.
func (t *TTY) Start() error {
	if err := t.enterModes(); err != nil {
		return err
	}
	t.stopReader = t.startKeyReader()
	t.watchResize()
	return nil
}

// Stop undoes Start. Restoration is best effort.
func (t *TTY) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		if t.stopReader != nil {
			t.stopReader()
		}
	})
	t.leaveModes()
}

// Close stops the terminal and releases the device.
func (t *TTY) Close() error {
	t.Stop()
	var errs []error
	if t.input != nil {
		errs = append(errs, t.input.Close())
	}
	if f, ok := t.output.(*os.File); ok && f != t.input {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func (t *TTY) enterModes() error {
	if t.input != nil {
		rawState, err := term.MakeRaw(int(t.input.Fd()))
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		t.restoreTerm = rawState
	}
	t.active = true
	if _, err := io.WriteString(t, render.EnterAltScreen+render.EnableMouse+render.DisableAutowrap+render.HideCursor); err != nil {
		t.leaveModes()
		return fmt.Errorf("configure terminal: %w", err)
	}
	return nil
}

func (t *TTY) leaveModes() {
	if !t.active {
		return
	}
	t.active = false
	_, _ = io.WriteString(t, render.ShowCursor+render.EnableAutowrap+render.DisableMouse+render.LeaveAltScreen)
	if t.input != nil && t.restoreTerm != nil {
		_ = term.Restore(int(t.input.Fd()), t.restoreTerm)
		t.restoreTerm = nil
	}
}

// post delivers ev unless the terminal is stopping.
func (t *TTY) post(ev tcell.Event) bool {
	select {
	case <-t.done:
		return false
	default:
	}
	select {
	case <-t.done:
		return false
	case t.events <- ev:
		return true
	}
}

func (t *TTY) watchResize() {
	sigs := resizeSignals()
	if len(sigs) == 0 {
		return
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-t.done:
				return
			case <-ch:
				t.postSize()
			}
		}
	}()
}

func (t *TTY) postSize() {
	w, h, err := t.Size()
	if err != nil {
		t.log.Debug("terminal size unavailable", "error", err)
		return
	}
	t.post(tcell.NewEventResize(w, h))
}
