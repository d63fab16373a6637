package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeList trims every entry and drops the blank ones.
func SanitizeList(values []string, maxLen int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if clean := SanitizeString(v, maxLen); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
