package search

// Remap moves per-line match offsets onto wrapped rows. Line i owns rows
// rowStart[i] up to rowStart[i+1], each holding wrap characters except the
// last; the final entry of rowStart is the total row count.
func Remap(positions []Positions, rowStart []int, wrap int) []Positions {
	if len(rowStart) == 0 {
		return nil
	}
	out := make([]Positions, rowStart[len(rowStart)-1])
	if wrap < 1 {
		return out
	}
	for line, starts := range positions {
		if line+1 >= len(rowStart) {
			break
		}
		first, count := rowStart[line], rowStart[line+1]-rowStart[line]
		for _, s := range starts {
			chunk := s / wrap
			if chunk >= count {
				continue
			}
			out[first+chunk] = append(out[first+chunk], s%wrap)
		}
	}
	return out
}

// Next returns the nearest row with at least one match, walking from the row
// after from to the end and wrapping to the start. Backward walks the other
// way. The row from itself is only reached after every other row.
func Next(rows []Positions, from int, forward bool) (int, bool) {
	n := len(rows)
	if n == 0 {
		return 0, false
	}
	from = max(0, min(from, n-1))
	for step := 1; step < n; step++ {
		i := from + step
		if !forward {
			i = from - step
		}
		i = ((i % n) + n) % n
		if len(rows[i]) > 0 {
			return i, true
		}
	}
	return 0, false
}
