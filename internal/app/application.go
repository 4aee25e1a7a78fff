// Package app wires configuration, the input source, the terminal and the
// viewport into a running pager.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rpager/internal/config"
	"github.com/kk-code-lab/rpager/internal/logging"
	"github.com/kk-code-lab/rpager/internal/queue"
	"github.com/kk-code-lab/rpager/internal/source"
	"github.com/kk-code-lab/rpager/internal/styled"
	"github.com/kk-code-lab/rpager/internal/ui/pager"
)

// Options selects what to page and how.
type Options struct {
	Config config.Config
	// Path is the file to page; empty or "-" reads Stdin.
	Path   string
	Follow bool
	// Command, when set, is run on a pseudo-terminal and its output paged.
	Command []string
	Stdin   io.Reader
}

// Application represents the running pager.
type Application struct {
	cfg       config.Config
	log       *slog.Logger
	logCloser io.Closer

	tty      *pager.TTY
	queue    *queue.Bounded[styled.Line]
	viewport *pager.Viewport

	name     string
	filename string
	input    io.Reader
	closer   io.Closer
	command  *source.Command
}

// NewApplication opens the log, the terminal and the input. The command of
// opts.Command lives until ctx is done.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	cfg := opts.Config
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.Setup(cfg.Log.File, level)
	if err != nil {
		return nil, err
	}
	for _, key := range cfg.Unknown {
		logger.Warn("unknown config key", "key", key)
	}

	app := &Application{cfg: cfg, log: logger, logCloser: logCloser}
	app.tty, err = pager.OpenTTY(logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	columns, rows, err := app.tty.Size()
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("terminal size: %w", err)
	}
	if err := app.openInput(ctx, opts, columns, rows); err != nil {
		_ = app.Close()
		return nil, err
	}

	keymap, err := cfg.KeyMap()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.queue = queue.New[styled.Line](cfg.QueueCapacity)
	app.viewport = pager.New(app.tty, app.queue, columns, rows, pager.Options{
		ReservedRows: cfg.ReservedRows,
		BatchLines:   cfg.BatchLines,
		TickRate:     cfg.TickRate(),
		SmartCase:    cfg.SmartCase,
		KeyMap:       keymap,
		Logger:       logger,
		Suspend:      app.tty.Suspend,
	})
	logger.Info("pager ready", "source", app.name, "columns", columns, "rows", rows)
	return app, nil
}

// openInput resolves opts into the reader the producer consumes.
func (app *Application) openInput(ctx context.Context, opts Options, columns, rows int) error {
	switch {
	case len(opts.Command) > 0:
		cmd, err := source.StartCommand(ctx, opts.Command[0], opts.Command[1:], columns, rows)
		if err != nil {
			return err
		}
		app.name = strings.Join(opts.Command, " ")
		app.input, app.command, app.closer = cmd, cmd, cmd
	case opts.Path == "" || opts.Path == "-":
		if opts.Stdin == nil {
			return errors.New("no input: give a file or pipe data to stdin")
		}
		app.name = "stdin"
		app.input = opts.Stdin
	case opts.Follow:
		tail, err := source.OpenTail(ctx, opts.Path, app.log)
		if err != nil {
			return fmt.Errorf("follow %s: %w", opts.Path, err)
		}
		app.name, app.filename = opts.Path, filepath.Base(opts.Path)
		app.input, app.closer = tail, tail
	default:
		f, err := os.Open(opts.Path)
		if err != nil {
			return err
		}
		if info, err := f.Stat(); err == nil && info.IsDir() {
			_ = f.Close()
			return fmt.Errorf("%s is a directory", opts.Path)
		}
		app.name, app.filename = opts.Path, filepath.Base(opts.Path)
		app.input, app.closer = f, f
	}
	return nil
}

// Close releases the terminal, the input and the log file.
func (app *Application) Close() error {
	var errs []error
	if app.tty != nil {
		errs = append(errs, app.tty.Close())
	}
	if app.closer != nil {
		errs = append(errs, app.closer.Close())
		app.closer = nil
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
		app.logCloser = nil
	}
	return errors.Join(errs...)
}
