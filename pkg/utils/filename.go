package utils

import (
	"strings"
)

// SanitizeFilename strips any directory component from a client-supplied
// filename and replaces every character outside [A-Za-z0-9._-] with an
// underscore. This runs before any other upload step to remove
// path-traversal and header-injection vectors.
func SanitizeFilename(filename string) string {
	// Keep only the last path segment, handling both separator styles
	// since the client OS is unknown.
	if idx := strings.LastIndexAny(filename, "/\\"); idx != -1 {
		filename = filename[idx+1:]
	}

	var b strings.Builder
	b.Grow(len(filename))
	for _, char := range filename {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') || char == '.' || char == '_' || char == '-' {
			b.WriteRune(char)
		} else {
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" || strings.Trim(sanitized, "._") == "" {
		return "document"
	}

	return sanitized
}
