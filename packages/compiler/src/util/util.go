package util

import "strings"

// SplitAtColon splits input at the first colon and trims both halves.
// defaultValues is returned when there is no colon.
func SplitAtColon(input string, defaultValues []string) []string {
	before, after, ok := strings.Cut(input, ":")
	if !ok {
		return defaultValues
	}
	return []string{strings.TrimSpace(before), strings.TrimSpace(after)}
}

// Hyphenate converts camelCase to dash-case, e.g. for style property names.
func Hyphenate(value string) string {
	var b strings.Builder
	for i, r := range value {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
