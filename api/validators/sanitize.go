package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims input, drops control characters and caps the result at maxRunes
// characters when maxRunes is positive. Multi-byte characters are never split.
func SanitizeString(input string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxRunes <= 0 {
		return cleaned
	}
	count := 0
	for i := range cleaned {
		if count == maxRunes {
			return cleaned[:i]
		}
		count++
	}
	return cleaned
}
