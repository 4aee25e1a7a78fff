package app

import (
	"context"
	"fmt"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/kk-code-lab/rpager/internal/source"
)

// shutdownGrace bounds how long Run waits for the producer after the
// viewport exits.
const shutdownGrace = 250 * time.Millisecond

// Run starts the producer, takes over the terminal and runs the viewport
// until the user quits, ctx is cancelled, or a termination signal arrives.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, terminationSignals()...)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.tty.Start(); err != nil {
		return err
	}
	defer app.tty.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := app.produce(ctx); err != nil {
			app.log.Warn("input stopped", "source", app.name, "error", err)
		}
	}()

	err := app.viewport.Run(ctx, app.tty.Events())
	cancel()
	app.queue.Close()
	if app.closer != nil {
		_ = app.closer.Close()
		app.closer = nil
	}
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		app.log.Debug("producer still blocked on input at exit", "source", app.name)
	}
	if err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	return nil
}

// produce decodes the input into the queue. A panic is logged and ends
// production; the viewport keeps what it already received.
func (app *Application) produce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			app.log.Error("producer panicked", "panic", r, "stack", string(debug.Stack()))
			err = nil
		}
	}()

	in, err := source.NewInput(app.input)
	if err != nil {
		return fmt.Errorf("read %s: %w", app.name, err)
	}
	if in.Encoding != source.EncodingUnknown {
		app.log.Info("input encoding", "source", app.name, "encoding", in.Encoding.String())
	}
	if source.LooksBinary(in.Head) {
		app.log.Warn("input looks binary", "source", app.name)
	}

	opts := source.Options{TabWidth: app.cfg.TabWidth, Logger: app.log}
	if lang := app.cfg.Syntax.Language; lang != "" {
		if lang == "auto" {
			lang = ""
		}
		h, herr := source.NewHighlighter(lang, app.cfg.Syntax.Style, app.filename, in.Head)
		if herr != nil {
			app.log.Info("syntax colouring disabled", "source", app.name, "error", herr)
		} else {
			app.log.Debug("syntax colouring", "language", h.Language())
			opts.Highlighter = h
		}
	}

	err = source.Feed(ctx, in, app.queue, opts)
	if app.command != nil {
		if werr := app.command.Wait(); werr != nil {
			app.log.Info("command exited", "command", app.name, "error", werr)
		}
	}
	return err
}
