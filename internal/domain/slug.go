package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugCandidate returns the deterministic slug candidate for the event:
// the start date as YYYY-MM-DD followed by the normalized title, e.g.
// "2024-03-15-annual-meetup". It is a pure function of StartedAt and
// Title; uniqueness is resolved by the repository.
func (e *Event) SlugCandidate() string {
	return Slugify(e.StartedAt.Format("2006-01-02") + " " + e.Title)
}

// stripMarks removes combining marks after canonical decomposition, so
// accented letters fold to their base form ("Café" -> "Cafe").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, folds diacritics, and collapses every run of
// non-alphanumeric characters into a single hyphen.
func Slugify(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingSep = false
		default:
			pendingSep = true
		}
	}
	return b.String()
}
