// Package textutil holds the rune-level measurements shared by the decoder
// and the status line.
package textutil

import "github.com/mattn/go-runewidth"

const DefaultTabWidth = 4

// RuneWidth reports the columns a single rune occupies: 0 for combining
// marks and other zero-width runes, 2 for wide runes, 1 otherwise.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	switch {
	case w < 0:
		return 0
	case w > 2:
		return 2
	}
	return w
}

// TabSpaces returns how many columns a tab advances from column.
func TabSpaces(column, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return tabWidth - column%tabWidth
}
