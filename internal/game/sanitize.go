package game

import (
	"regexp"
	"strings"
)

const maxNameLen = 24

var (
	markupPattern = regexp.MustCompile(`<[^>]*>`)
	unsafePattern = regexp.MustCompile(`[^\p{L}\p{N} _.\-]`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// SanitizeName strips markup and unsafe characters from a display name and
// truncates it to 24 runes. An empty result means the name is unusable.
func SanitizeName(raw string) string {
	s := markupPattern.ReplaceAllString(raw, "")
	s = unsafePattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxNameLen {
		s = strings.TrimSpace(string(runes[:maxNameLen]))
	}
	return s
}
