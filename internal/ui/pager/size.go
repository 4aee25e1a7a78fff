package pager

import "runtime"

// defaultReservedRows is the bottom row kept for the prompt. Console hosts
// on Windows already exclude it from the reported height.
var defaultReservedRows = func() int {
	if runtime.GOOS == "windows" {
		return 0
	}
	return 1
}()

// SizeContext is the terminal geometry the viewport lays out against.
type SizeContext struct {
	columns  int
	rows     int
	reserved int
}

// NewSizeContext builds a context for a terminal of columns x rows keeping
// reserved rows at the bottom for the prompt.
func NewSizeContext(columns, rows, reserved int) SizeContext {
	s := SizeContext{reserved: max(reserved, 0)}
	s.Resize(columns, rows)
	return s
}

// Resize records new terminal dimensions.
func (s *SizeContext) Resize(columns, rows int) {
	s.columns = max(columns, 2)
	s.rows = max(rows, 1)
}

func (s SizeContext) Columns() int { return s.columns }

// Lines is the number of content rows.
func (s SizeContext) Lines() int { return max(s.rows-s.reserved, 1) }

// PromptRow is the zero-based row of the status line.
func (s SizeContext) PromptRow() int { return s.Lines() }

// WrapWidth is the number of characters a wrapped row holds.
func (s SizeContext) WrapWidth() int { return s.columns - 1 }

// RowsFor returns how many terminal rows a line of the given display width
// occupies. A blank line still takes one.
func (s SizeContext) RowsFor(width int) int {
	if width <= 0 {
		return 1
	}
	return (width + s.columns - 1) / s.columns
}

// RealSize walks widths from the end and reports how many trailing entries
// fit in the content rows, and how many rows stay empty above them.
func (s SizeContext) RealSize(widths []int) (count, margin int) {
	budget := s.Lines()
	for i := len(widths) - 1; i >= 0; i-- {
		need := s.RowsFor(widths[i])
		if need > budget {
			break
		}
		budget -= need
		count++
	}
	return count, budget
}
