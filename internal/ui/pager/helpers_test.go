package pager

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/kk-code-lab/rpager/internal/styled"
)

type fakeSource struct {
	lines   []styled.Line
	drained []int
	onDrain func()
}

func (f *fakeSource) Drain(limit int, fn func(styled.Line)) int {
	if f.onDrain != nil {
		f.onDrain()
	}
	n := min(limit, len(f.lines))
	for _, line := range f.lines[:n] {
		fn(line)
	}
	f.lines = f.lines[n:]
	f.drained = append(f.drained, n)
	return n
}

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func plainLines(texts ...string) []styled.Line {
	out := make([]styled.Line, len(texts))
	for i, s := range texts {
		out[i] = styled.PlainLine(s)
	}
	return out
}

// newTestViewport lays out texts on a columns x rows terminal with one
// reserved prompt row and renders the first frame.
func newTestViewport(t *testing.T, columns, rows int, texts ...string) (*Viewport, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	v := New(out, nil, columns, rows, Options{ReservedRows: 1, SearchWorkers: 2})
	for _, line := range plainLines(texts...) {
		v.PushLine(line)
	}
	if err := v.Update(context.Background()); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	return v, out
}

func rowText(v *Viewport, i int) string {
	return v.layout.row(v.lines, i).String()
}
