package search

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/kk-code-lab/rpager/internal/styled"
)

func lines(texts ...string) []styled.Line {
	out := make([]styled.Line, len(texts))
	for i, t := range texts {
		out[i] = styled.PlainLine(t)
	}
	return out
}

func TestMatchLineFindsOverlappingRawHits(t *testing.T) {
	got := NewNeedle("aa", false).MatchLine(styled.PlainLine("aaaa"))
	if !reflect.DeepEqual(got, Positions{0, 1, 2}) {
		t.Fatalf("raw matches = %v, want [0 1 2]", got)
	}
}

func TestFindDedupsOverlaps(t *testing.T) {
	tests := []struct {
		line   string
		needle string
		want   Positions
	}{
		{"ababab", "ab", Positions{0, 2, 4}},
		{"aaaa", "aa", Positions{0, 2}},
		{"aaaaa", "aa", Positions{0, 2}},
		{"xyz", "q", nil},
		{"", "a", nil},
		{"a", "ab", nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.line, tt.needle), func(t *testing.T) {
			got, err := Find(context.Background(), lines(tt.line), NewNeedle(tt.needle, false), 2)
			if err != nil {
				t.Fatalf("Find error: %v", err)
			}
			if !reflect.DeepEqual(got[0], tt.want) {
				t.Fatalf("Find(%q, %q) = %v, want %v", tt.line, tt.needle, got[0], tt.want)
			}
		})
	}
}

func TestDedupNeverOverlaps(t *testing.T) {
	raw := Positions{0, 1, 2, 3, 5, 6, 9}
	got := Dedup(raw, 3)
	for i := 1; i < len(got); i++ {
		if got[i-1]+3 > got[i] {
			t.Fatalf("overlap between %d and %d in %v", got[i-1], got[i], got)
		}
	}
	if !reflect.DeepEqual(got, Positions{0, 3, 6, 9}) {
		t.Fatalf("Dedup = %v, want [0 3 6 9]", got)
	}
}

func TestScanPreservesLineOrderAcrossWorkers(t *testing.T) {
	texts := make([]string, 2000)
	for i := range texts {
		if i%7 == 0 {
			texts[i] = fmt.Sprintf("line %d needle", i)
		} else {
			texts[i] = fmt.Sprintf("line %d", i)
		}
	}
	got, err := Scan(context.Background(), lines(texts...), NewNeedle("needle", false), 8)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(got) != len(texts) {
		t.Fatalf("Scan returned %d entries, want %d", len(got), len(texts))
	}
	for i := range texts {
		want := i%7 == 0
		if (len(got[i]) > 0) != want {
			t.Fatalf("line %d: match=%v want %v", i, len(got[i]) > 0, want)
		}
	}
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	texts := make([]string, 1000)
	if _, err := Scan(ctx, lines(texts...), NewNeedle("x", false), 2); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestSmartCase(t *testing.T) {
	line := lines("Hello hello")
	got, _ := Find(context.Background(), line, NewNeedle("hello", true), 1)
	if !reflect.DeepEqual(got[0], Positions{0, 6}) {
		t.Fatalf("smart-case lowercase needle = %v, want [0 6]", got[0])
	}
	got, _ = Find(context.Background(), line, NewNeedle("Hello", true), 1)
	if !reflect.DeepEqual(got[0], Positions{0}) {
		t.Fatalf("smart-case mixed needle = %v, want [0]", got[0])
	}
	got, _ = Find(context.Background(), line, NewNeedle("hello", false), 1)
	if !reflect.DeepEqual(got[0], Positions{6}) {
		t.Fatalf("exact needle = %v, want [6]", got[0])
	}
}
