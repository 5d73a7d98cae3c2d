package render

import "strings"

// Invisible bidi and zero-width runes are shown by name so a file name cannot
// disguise itself on screen.
var formattingRuneLabels = map[rune]string{
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
	0xFEFF: "⟪BOM⟫",
}

// sanitizeTerminalText replaces control characters so names and file contents
// cannot inject escape sequences. Tabs are left for expandTabs.
func sanitizeTerminalText(text string) string {
	clean := true
	for _, ru := range text {
		if needsSanitizing(ru) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	for _, ru := range text {
		if label, ok := formattingRuneLabels[ru]; ok {
			b.WriteString(label)
			continue
		}
		switch {
		case ru == '\n' || ru == '\r':
			b.WriteByte(' ')
		case ru < 0x20 && ru != '\t', ru == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(ru)
		}
	}
	return b.String()
}

func needsSanitizing(ru rune) bool {
	if ru == '\t' {
		return false
	}
	if _, ok := formattingRuneLabels[ru]; ok {
		return true
	}
	return ru < 0x20 || ru == 0x7f
}
