package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var ptLower = cases.Lower(language.BrazilianPortuguese)

// normalizeText NFC-normalizes the input so composed and decomposed
// accent forms match the same patterns, then returns the original and
// a lowercased copy for keyword matching.
func normalizeText(text string) (original, lowered string) {
	original = norm.NFC.String(text)
	lowered = strings.TrimSpace(ptLower.String(original))
	return original, lowered
}

// capitalizeFirst uppercases the first rune only, preserving the rest.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// keywordEntry pairs a vocabulary term, pre-compiled to match on word
// boundaries, with the value it maps to. Boundary matching instead of
// substring containment keeps short entries ("me", "bi") from firing
// inside unrelated words ("nome", "também"). Go's \b is ASCII-only, so
// the boundary classes are spelled out with Unicode letter/digit sets.
type keywordEntry struct {
	re    *regexp.Regexp
	value string
}

func vocabEntry(keyword, value string) keywordEntry {
	return keywordEntry{
		re:    regexp.MustCompile(`(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(keyword) + `($|[^\p{L}\p{N}])`),
		value: value,
	}
}

// firstKeyword returns the mapped value of the first vocabulary entry
// found in the text, in table order.
func firstKeyword(lowered string, table []keywordEntry) (string, bool) {
	for _, e := range table {
		if e.re.MatchString(lowered) {
			return e.value, true
		}
	}
	return "", false
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}
