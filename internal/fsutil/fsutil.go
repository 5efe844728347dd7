// Package fsutil provides filesystem naming helpers shared across the
// export pipeline.
package fsutil

import "strings"

// invalidChars are the characters rejected by at least one supported
// filesystem (Windows being the strictest).
const invalidChars = `<>:"/\|?*`

// maxFilenameLen bounds sanitized names well under common filesystem limits.
const maxFilenameLen = 200

// SanitizeFilename makes a string safe to use as a single path element.
// Invalid characters become underscores and the result is truncated to
// 200 characters and trimmed of surrounding whitespace.
func SanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, name)

	if runes := []rune(sanitized); len(runes) > maxFilenameLen {
		sanitized = string(runes[:maxFilenameLen])
	}

	return strings.TrimSpace(sanitized)
}
