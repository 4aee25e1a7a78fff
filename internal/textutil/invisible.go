package textutil

import "strings"

var invisibleLabels = map[rune]string{
	0x00AD: "⟪SHY⟫",
	0x061C: "⟪ALM⟫",
	0x180E: "⟪MVS⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0x206A: "⟪ISS⟫",
	0x206B: "⟪ASS⟫",
	0x206C: "⟪IAFS⟫",
	0x206D: "⟪AAFS⟫",
	0x206E: "⟪NADS⟫",
	0x206F: "⟪NODS⟫",
	0xFEFF: "⟪BOM⟫",
}

// Label returns the marker drawn in place of a bidi or zero-width
// formatting rune.
func Label(r rune) (string, bool) {
	label, ok := invisibleLabels[r]
	return label, ok
}

// IsControl reports C0 controls and DEL.
func IsControl(r rune) bool {
	return (r >= 0 && r < 0x20) || r == 0x7f
}

// PromptText flattens typed text for the one-row prompt. Tabs expand
// against the running column, line breaks become spaces, other controls
// become '?' and formatting runes are labelled.
func PromptText(text string, tabWidth int) string {
	clean := true
	for _, r := range text {
		if IsControl(r) {
			clean = false
			break
		}
		if _, ok := invisibleLabels[r]; ok {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	col := 0
	for _, r := range text {
		switch {
		case r == '\t':
			n := TabSpaces(col, tabWidth)
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
			col++
		case IsControl(r):
			b.WriteByte('?')
			col++
		default:
			if label, ok := invisibleLabels[r]; ok {
				b.WriteString(label)
				for _, lr := range label {
					col += RuneWidth(lr)
				}
				continue
			}
			b.WriteRune(r)
			col += RuneWidth(r)
		}
	}
	return b.String()
}
