package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpager/internal/config"
	"github.com/kk-code-lab/rpager/internal/queue"
	"github.com/kk-code-lab/rpager/internal/styled"
)

func newTestApp(input io.Reader) (*Application, *bytes.Buffer) {
	logs := &bytes.Buffer{}
	return &Application{
		cfg:   config.Default(),
		log:   slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		queue: queue.New[styled.Line](16),
		name:  "test",
		input: input,
	}, logs
}

func queued(app *Application) []styled.Line {
	var out []styled.Line
	app.queue.Drain(app.queue.Cap(), func(l styled.Line) { out = append(out, l) })
	return out
}

func TestProduceDecodesInput(t *testing.T) {
	app, _ := newTestApp(strings.NewReader("plain\n\x1b[31mred\tx\n"))
	if err := app.produce(context.Background()); err != nil {
		t.Fatalf("produce error: %v", err)
	}
	lines := queued(app)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := lines[1].String(); got != "red x" {
		t.Fatalf("second line = %q, want %q", got, "red x")
	}
	if lines[1][0].Fg != tcell.PaletteColor(1) {
		t.Fatalf("expected red foreground, got %v", lines[1][0].Fg)
	}
}

func TestProduceTranscodesUTF16(t *testing.T) {
	app, logs := newTestApp(bytes.NewReader([]byte{0xFF, 0xFE, 'h', 0, 'i', 0, '\n', 0}))
	if err := app.produce(context.Background()); err != nil {
		t.Fatalf("produce error: %v", err)
	}
	lines := queued(app)
	if len(lines) != 1 || lines[0].String() != "hi" {
		t.Fatalf("unexpected lines %v", lines)
	}
	if !strings.Contains(logs.String(), "utf-16le") {
		t.Fatalf("encoding not logged: %s", logs.String())
	}
}

func TestProduceHighlightsWhenConfigured(t *testing.T) {
	app, _ := newTestApp(strings.NewReader("package main\n"))
	app.cfg.Syntax.Language = "go"
	if err := app.produce(context.Background()); err != nil {
		t.Fatalf("produce error: %v", err)
	}
	lines := queued(app)
	if len(lines) != 1 || lines[0][0].Fg == tcell.ColorDefault {
		t.Fatalf("expected a coloured keyword, got %+v", lines)
	}
}

func TestProduceFallsBackToPlainWithoutLexer(t *testing.T) {
	app, logs := newTestApp(strings.NewReader("nothing to see\n"))
	app.cfg.Syntax.Language = "auto"
	if err := app.produce(context.Background()); err != nil {
		t.Fatalf("produce error: %v", err)
	}
	if len(queued(app)) != 1 {
		t.Fatalf("line lost when colouring is unavailable")
	}
	if !strings.Contains(logs.String(), "syntax colouring disabled") {
		t.Fatalf("expected a log entry, got %s", logs.String())
	}
}

type panicReader struct{}

func (panicReader) Read([]byte) (int, error) { panic("decoder exploded") }

func TestProduceRecoversFromPanic(t *testing.T) {
	app, logs := newTestApp(panicReader{})
	if err := app.produce(context.Background()); err != nil {
		t.Fatalf("panic should be swallowed, got %v", err)
	}
	if !strings.Contains(logs.String(), "producer panicked") {
		t.Fatalf("panic not logged: %s", logs.String())
	}
}

func TestOpenInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# notes\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app, _ := newTestApp(nil)
	if err := app.openInput(context.Background(), Options{Path: path}, 80, 24); err != nil {
		t.Fatalf("openInput error: %v", err)
	}
	defer app.closer.Close()
	if app.filename != "notes.md" || app.name != path {
		t.Fatalf("name=%q filename=%q", app.name, app.filename)
	}
}

func TestOpenInputErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts Options
	}{
		{"missing file", Options{Path: filepath.Join(dir, "missing")}},
		{"directory", Options{Path: dir}},
		{"no stdin", Options{Path: "-"}},
		{"follow missing file", Options{Path: filepath.Join(dir, "missing"), Follow: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(nil)
			if err := app.openInput(context.Background(), tt.opts, 80, 24); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestOpenInputStdin(t *testing.T) {
	app, _ := newTestApp(nil)
	stdin := strings.NewReader("x\n")
	if err := app.openInput(context.Background(), Options{Stdin: stdin}, 80, 24); err != nil {
		t.Fatalf("openInput error: %v", err)
	}
	if app.input != io.Reader(stdin) || app.closer != nil || app.name != "stdin" {
		t.Fatalf("unexpected stdin wiring: name=%q closer=%v", app.name, app.closer)
	}
}
