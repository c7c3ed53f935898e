package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe identifier from a free-text title: lowercase,
// accents decomposed and dropped, anything outside [a-z0-9] removed.
// Hyphens and whitespace both count as separators, so separator runs
// collapse to one hyphen and the result never starts or ends with one.
// Total and deterministic; an all-symbol title yields the empty string and
// callers must reject it.
func Slugify(title string) string {
	lowered := strings.ToLower(title)
	decomposed, _, err := transform.String(slugStripper, lowered)
	if err != nil {
		decomposed = lowered
	}
	var b strings.Builder
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
