package knowledge

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Directional formatting marks that are invisible but break substring
// comparison: LEFT-TO-RIGHT MARK, RIGHT-TO-LEFT MARK, ARABIC LETTER MARK.
const (
	leftToRightMark  = '\u200E'
	rightToLeftMark  = '\u200F'
	arabicLetterMark = '\u061C'
)

func isDirectionalMark(r rune) bool {
	return r == leftToRightMark || r == rightToLeftMark || r == arabicLetterMark
}

// Normalize returns the canonical comparison form of s: directional marks
// removed, surrounding whitespace trimmed and lowercased. An empty input is
// rejected with ErrInvalidQuery. Whitespace-only input is valid and folds to
// "", so Normalize is idempotent only on inputs with visible text.
func Normalize(s string) (string, error) {
	if s == "" {
		return "", ErrInvalidQuery
	}
	return fold(s), nil
}

// fold applies the normalization steps without validating the input.
func fold(s string) string {
	// cases.Caser keeps state, so build the chain per call.
	t := transform.Chain(runes.Remove(runes.Predicate(isDirectionalMark)), cases.Lower(language.Und))
	out, _, err := transform.String(t, s)
	if err != nil {
		// Only possible on malformed transformer state; fall back to the stdlib path.
		out = strings.ToLower(strings.Map(func(r rune) rune {
			if isDirectionalMark(r) {
				return -1
			}
			return r
		}, s))
	}
	return strings.TrimSpace(out)
}

// Query is a validated matcher input. The zero value is an invalid query.
type Query struct {
	text  string
	valid bool
}

// ParseQuery resolves a loosely typed value, typically a decoded JSON field,
// into a Query. Anything other than a non-empty string is invalid.
func ParseQuery(v any) Query {
	s, ok := v.(string)
	if !ok || s == "" {
		return Query{}
	}
	return Query{text: s, valid: true}
}

// TextQuery wraps a plain string.
func TextQuery(s string) Query {
	return ParseQuery(s)
}

// Valid reports whether the query can enter the matching pipeline.
func (q Query) Valid() bool {
	return q.valid
}

// Text returns the raw query text.
func (q Query) Text() string {
	return q.text
}
