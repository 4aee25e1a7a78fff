// Package pager implements the interactive viewport: it buffers styled
// lines, wraps them to the terminal, searches them, and renders frames and
// the status prompt onto the terminal device.
package pager

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/kk-code-lab/rpager/internal/search"
	"github.com/kk-code-lab/rpager/internal/styled"
	"github.com/kk-code-lab/rpager/internal/ui/input"
	"github.com/kk-code-lab/rpager/internal/ui/render"
)

const (
	DefaultBatchLines = 5000
	DefaultFPS        = 30
)

// LineSource is the consumer side of the line queue.
type LineSource interface {
	// Drain hands up to limit queued lines to fn without blocking.
	Drain(limit int, fn func(styled.Line)) int
}

// Options tunes a Viewport. Zero values fall back to defaults.
type Options struct {
	// ReservedRows are kept free at the bottom of the terminal; the prompt
	// is drawn on the first of them.
	ReservedRows  int
	BatchLines    int
	TickRate      time.Duration
	SearchWorkers int
	SmartCase     bool
	KeyMap        input.KeyMap
	Logger        *slog.Logger
	Clock         Clock
	// Suspend hands the terminal back to the shell and returns on resume.
	Suspend func() error
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		ReservedRows: defaultReservedRows,
		BatchLines:   DefaultBatchLines,
		TickRate:     time.Second / DefaultFPS,
		KeyMap:       input.DefaultKeyMap(),
	}
}

// Viewport owns the buffered lines and everything derived from them.
type Viewport struct {
	out     io.Writer
	source  LineSource
	log     *slog.Logger
	keymap  input.KeyMap
	clock   Clock
	suspend func() error

	batch     int
	tick      time.Duration
	workers   int
	smartCase bool

	size   SizeContext
	lines  []styled.Line
	layout layout

	needle      search.Needle
	matches     []search.Positions
	flowMatches []search.Positions

	scroll int
	follow bool
	prompt PromptState
	status string

	writer   *render.Writer
	buf      bytes.Buffer
	prevWrap int

	needReflow     bool
	needRedraw     bool
	promptOutdated bool
}

// New creates a viewport writing frames to out and pulling lines from
// source, for a terminal of columns x rows.
func New(out io.Writer, source LineSource, columns, rows int, opts Options) *Viewport {
	def := DefaultOptions()
	if opts.BatchLines <= 0 {
		opts.BatchLines = def.BatchLines
	}
	if opts.TickRate <= 0 {
		opts.TickRate = def.TickRate
	}
	if opts.KeyMap == nil {
		opts.KeyMap = def.KeyMap
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.SearchWorkers <= 0 {
		opts.SearchWorkers = runtime.GOMAXPROCS(0)
	}

	size := NewSizeContext(columns, rows, opts.ReservedRows)
	return &Viewport{
		out:            out,
		source:         source,
		log:            opts.Logger,
		keymap:         opts.KeyMap,
		clock:          opts.Clock,
		suspend:        opts.Suspend,
		batch:          opts.BatchLines,
		tick:           opts.TickRate,
		workers:        opts.SearchWorkers,
		smartCase:      opts.SmartCase,
		size:           size,
		writer:         render.NewWriter(size.Columns()),
		needReflow:     true,
		needRedraw:     true,
		promptOutdated: true,
	}
}

// PushLine appends a logical line.
func (v *Viewport) PushLine(line styled.Line) {
	v.lines = append(v.lines, line)
	if v.layout.len()-v.scroll < v.size.Lines() {
		v.needRedraw = true
	}
	v.promptOutdated = true
}

// Resize adopts new terminal dimensions.
func (v *Viewport) Resize(columns, rows int) {
	v.size.Resize(columns, rows)
	v.needReflow = true
	v.needRedraw = true
	v.promptOutdated = true
}

// Size returns the current geometry.
func (v *Viewport) Size() SizeContext { return v.size }

// Lines is the number of buffered logical lines.
func (v *Viewport) Lines() int { return len(v.lines) }

// Rows is the number of wrapped rows laid out so far.
func (v *Viewport) Rows() int { return v.layout.len() }

// Scroll is the index of the first row shown.
func (v *Viewport) Scroll() int { return v.scroll }

func (v *Viewport) Prompt() PromptState { return v.prompt }

// Following reports whether the view sticks to the end as lines arrive.
func (v *Viewport) Following() bool { return v.follow }

// MaxScroll is the largest scroll that still fills the content rows.
func (v *Viewport) MaxScroll() int {
	count, _ := v.size.RealSize(v.layout.widths)
	return v.layout.len() - count
}

// GotoScroll moves to row n, clamped to [0, MaxScroll].
func (v *Viewport) GotoScroll(n int) {
	n = max(0, min(n, v.MaxScroll()))
	if n != v.scroll {
		v.scroll = n
		v.needRedraw = true
		v.promptOutdated = true
	}
}

func (v *Viewport) ScrollDown(n int) {
	if n > math.MaxInt-v.scroll {
		n = math.MaxInt - v.scroll
	}
	v.GotoScroll(v.scroll + n)
}

func (v *Viewport) ScrollUp(n int) {
	v.follow = false
	v.GotoScroll(v.scroll - min(n, v.scroll))
}

// SetFollow pins the view to the end while enabled.
func (v *Viewport) SetFollow(on bool) {
	v.follow = on
	v.promptOutdated = true
	if on {
		v.GotoScroll(v.MaxScroll())
	}
}

// reflow brings the layout up to date with the buffered lines.
func (v *Viewport) reflow(ctx context.Context) {
	if !v.needReflow && v.layout.lines() == len(v.lines) {
		return
	}
	if v.needReflow {
		anchor := -1
		if v.scroll < v.layout.len() {
			anchor = v.layout.spans[v.scroll].line
		}
		v.layout.rebuild(v.lines, v.size.WrapWidth())
		if anchor >= 0 && anchor < v.layout.lines() {
			v.scroll = v.layout.rowStart[anchor]
		}
		v.scroll = max(0, min(v.scroll, v.MaxScroll()))
		v.log.Debug("reflow", "lines", len(v.lines), "rows", v.layout.len(), "wrap", v.layout.wrap)
	} else {
		v.layout.extend(v.lines)
	}
	v.needReflow = false
	v.refreshMatches(ctx)
	if v.follow {
		v.GotoScroll(v.MaxScroll())
	}
}
