// Package search finds literal needles in styled lines and maps the hits onto
// the wrapped rows the viewport displays.
package search

import (
	"context"
	"runtime"
	"unicode"

	"github.com/kk-code-lab/rpager/internal/styled"
	"golang.org/x/sync/errgroup"
)

// Positions holds ascending character offsets of match starts within one line.
type Positions []int

const minLinesPerTask = 256

// Needle is a prepared search string.
type Needle struct {
	text  string
	runes []rune
	fold  bool
}

// NewNeedle prepares text for matching. With smartCase set, an all-lowercase
// needle matches case-insensitively.
func NewNeedle(text string, smartCase bool) Needle {
	n := Needle{text: text, runes: []rune(text)}
	if smartCase && smartCaseInsensitive(text) {
		n.fold = true
		for i, r := range n.runes {
			n.runes[i] = unicode.ToLower(r)
		}
	}
	return n
}

func (n Needle) String() string { return n.text }

// Len is the needle length in characters.
func (n Needle) Len() int { return len(n.runes) }

func (n Needle) Empty() bool { return len(n.runes) == 0 }

// MatchLine returns every start offset where the needle matches line,
// overlapping occurrences included.
func (n Needle) MatchLine(line styled.Line) Positions {
	size := len(n.runes)
	if size == 0 || len(line) < size {
		return nil
	}
	var out Positions
	for i := 0; i+size <= len(line); i++ {
		if n.matchesAt(line, i) {
			out = append(out, i)
		}
	}
	return out
}

func (n Needle) matchesAt(line styled.Line, start int) bool {
	for j, want := range n.runes {
		got := line[start+j].Glyph
		if n.fold {
			got = unicode.ToLower(got)
		}
		if got != want {
			return false
		}
	}
	return true
}

func smartCaseInsensitive(query string) bool {
	for _, r := range query {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Scan matches needle against every line in parallel. The result has one
// entry per line, in line order. Scan stops early when ctx is cancelled.
func Scan(ctx context.Context, lines []styled.Line, needle Needle, workers int) ([]Positions, error) {
	out := make([]Positions, len(lines))
	if needle.Empty() || len(lines) == 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(lines) + workers - 1) / workers
	if chunk < minLinesPerTask {
		chunk = minLinesPerTask
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(lines); start += chunk {
		start, end := start, min(start+chunk, len(lines))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%minLinesPerTask == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = needle.MatchLine(lines[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Dedup drops every match that starts inside the previously kept match, so
// the survivors never overlap. It reuses the backing array of p.
func Dedup(p Positions, needleLen int) Positions {
	if len(p) < 2 {
		return p
	}
	kept := p[:1]
	for _, start := range p[1:] {
		if kept[len(kept)-1]+needleLen > start {
			continue
		}
		kept = append(kept, start)
	}
	return kept
}

// Find scans lines and removes overlapping matches.
func Find(ctx context.Context, lines []styled.Line, needle Needle, workers int) ([]Positions, error) {
	found, err := Scan(ctx, lines, needle, workers)
	if err != nil {
		return nil, err
	}
	for i := range found {
		found[i] = Dedup(found[i], needle.Len())
	}
	return found, nil
}
