package pager

import (
	"context"

	"github.com/kk-code-lab/rpager/internal/search"
)

// Search replaces the active needle. An empty needle clears every match.
// Otherwise the view moves to the next row holding a match.
func (v *Viewport) Search(ctx context.Context, text string) {
	v.reflow(ctx)
	if len(v.matches) > 0 || len(v.flowMatches) > 0 {
		v.needRedraw = true
	}
	v.matches, v.flowMatches = nil, nil
	v.needle = search.NewNeedle(text, v.smartCase)
	if v.needle.Empty() {
		return
	}

	found, err := search.Find(ctx, v.lines, v.needle, v.workers)
	if err != nil {
		v.log.Warn("search aborted", "needle", text, "error", err)
		v.needle = search.Needle{}
		return
	}
	v.matches = found
	v.flowMatches = search.Remap(v.matches, v.layout.rowStart, v.layout.wrap)
	v.needRedraw = true
	v.log.Debug("search", "needle", text, "rows_with_matches", countNonEmpty(v.flowMatches))
	v.MoveSearch(true)
}

// MoveSearch scrolls to the next (or previous) row with a match, wrapping
// around and skipping the current row.
func (v *Viewport) MoveSearch(forward bool) {
	if row, ok := search.Next(v.flowMatches, v.scroll, forward); ok {
		if row < v.scroll {
			v.follow = false
		}
		v.GotoScroll(row)
	}
}

// refreshMatches scans lines that arrived after the last search and maps
// every match onto the current layout.
func (v *Viewport) refreshMatches(ctx context.Context) {
	if v.needle.Empty() {
		return
	}
	if tail := len(v.lines) - len(v.matches); tail > 0 {
		found, err := search.Find(ctx, v.lines[len(v.matches):], v.needle, v.workers)
		if err != nil {
			v.log.Warn("search of new lines failed", "error", err)
			found = make([]search.Positions, tail)
		}
		v.matches = append(v.matches, found...)
	}
	v.flowMatches = search.Remap(v.matches, v.layout.rowStart, v.layout.wrap)
}

func countNonEmpty(rows []search.Positions) int {
	n := 0
	for _, r := range rows {
		if len(r) > 0 {
			n++
		}
	}
	return n
}
