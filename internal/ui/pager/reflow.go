package pager

import "github.com/kk-code-lab/rpager/internal/styled"

// span is one wrapped row: characters [start, end) of buffered line `line`.
type span struct {
	line  int
	start int
	end   int
}

// layout is the reflowed view of the buffered lines. Rows are index pairs
// into the buffered lines; rowStart[i] is the first row of line i and the
// last entry is the total row count.
type layout struct {
	wrap     int
	spans    []span
	widths   []int
	rowStart []int
}

// rebuild discards every row and wraps all lines at wrap characters.
func (l *layout) rebuild(lines []styled.Line, wrap int) {
	l.wrap = max(wrap, 1)
	l.spans = l.spans[:0]
	l.widths = l.widths[:0]
	l.rowStart = append(l.rowStart[:0], 0)
	l.extend(lines)
}

// extend wraps the lines not yet laid out. Lines are append-only, so the
// result equals a rebuild at the same width.
func (l *layout) extend(lines []styled.Line) {
	if l.wrap < 1 || len(l.rowStart) == 0 {
		l.wrap = max(l.wrap, 1)
		l.rowStart = append(l.rowStart[:0], 0)
	}
	for li := len(l.rowStart) - 1; li < len(lines); li++ {
		line := lines[li]
		if len(line) == 0 {
			l.spans = append(l.spans, span{line: li})
			l.widths = append(l.widths, 0)
		}
		for start := 0; start < len(line); start += l.wrap {
			end := min(start+l.wrap, len(line))
			l.spans = append(l.spans, span{line: li, start: start, end: end})
			l.widths = append(l.widths, line[start:end].Width())
		}
		l.rowStart = append(l.rowStart, len(l.spans))
	}
}

func (l *layout) len() int { return len(l.spans) }

// lines reports how many buffered lines are laid out.
func (l *layout) lines() int { return max(len(l.rowStart)-1, 0) }

func (l *layout) row(lines []styled.Line, i int) styled.Line {
	sp := l.spans[i]
	return lines[sp.line][sp.start:sp.end]
}

// association lists the rows produced by line i.
func (l *layout) association(i int) []int {
	rows := make([]int, 0, l.rowStart[i+1]-l.rowStart[i])
	for r := l.rowStart[i]; r < l.rowStart[i+1]; r++ {
		rows = append(rows, r)
	}
	return rows
}
