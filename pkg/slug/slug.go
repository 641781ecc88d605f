// Package slug derives URL-safe tokens from human-readable names. Slugs are
// the shareable navigation surface (category and subcategory query params,
// event anchors), so the transform must stay stable across releases.
package slug

import (
	"strings"
	"unicode"
)

// Make lower-cases name, maps "&" to "and", collapses whitespace runs to a
// single hyphen, and strips everything that is not a word character or
// hyphen. Make("") is "".
func Make(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = strings.ReplaceAll(lowered, "&", "and")

	var b strings.Builder
	b.Grow(len(lowered))
	inSpace := false
	for _, r := range lowered {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if inSpace && b.Len() > 0 {
				b.WriteByte('-')
			}
			inSpace = false
			b.WriteRune(r)
		default:
			// Punctuation contributes nothing, not even a separator.
		}
	}
	return b.String()
}
