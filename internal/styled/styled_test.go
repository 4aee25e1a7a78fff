package styled

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestLineWidthCountsWideGlyphs(t *testing.T) {
	line := PlainLine("ab你")
	if got := line.Width(); got != 4 {
		t.Fatalf("Width() = %d, want 4", got)
	}
	if got := line.String(); got != "ab你" {
		t.Fatalf("String() = %q", got)
	}
}

func TestZeroWidthGlyph(t *testing.T) {
	if w := Plain('\u0301').Width(); w != 0 {
		t.Fatalf("combining mark width = %d, want 0", w)
	}
}

func TestSameStyle(t *testing.T) {
	a := Plain('x')
	b := Plain('y')
	if !a.SameStyle(b) {
		t.Fatalf("plain chars should share style")
	}
	b.Attrs = tcell.AttrBold
	if a.SameStyle(b) {
		t.Fatalf("bold char should differ")
	}
}
