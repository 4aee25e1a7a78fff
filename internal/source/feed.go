// Package source reads input streams into styled lines and hands them to the
// viewport through a bounded queue.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kk-code-lab/rpager/internal/queue"
	"github.com/kk-code-lab/rpager/internal/styled"
)

// Options configures how raw lines become styled lines.
type Options struct {
	TabWidth int
	// Highlighter, when set, colours every line after ANSI decoding.
	Highlighter *Highlighter
	Logger      *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Feed reads r line by line and pushes each decoded line into q, blocking
// while q is full. It returns nil at end of input, or when ctx is cancelled
// or q is closed.
func Feed(ctx context.Context, r io.Reader, q *queue.Bounded[styled.Line], opts Options) error {
	log := opts.logger()
	dec := NewDecoder(opts.TabWidth)
	br := bufio.NewReader(r)
	count := 0
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			line := dec.Line(trimEOL(raw))
			if opts.Highlighter != nil {
				line = opts.Highlighter.Apply(line)
			}
			if perr := q.Push(ctx, line); perr != nil {
				if errors.Is(perr, queue.ErrClosed) || errors.Is(perr, context.Canceled) {
					log.Debug("feed stopped", "lines", count, "reason", perr)
					return nil
				}
				return perr
			}
			count++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("feed finished", "lines", count)
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
	}
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
