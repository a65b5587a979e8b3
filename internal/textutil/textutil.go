// Package textutil holds the small pure helpers shared by the activity
// variants: shuffling and forgiving answer comparison.
package textutil

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Shuffle returns a uniformly random permutation of items. The input slice
// is not modified.
func Shuffle[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Normalize folds s for answer comparison: surrounding whitespace is
// trimmed, inner runs of whitespace collapse to one space, diacritics are
// stripped and, unless caseSensitive is set, the result is lower-cased.
func Normalize(s string, caseSensitive bool) string {
	s = strings.Join(strings.Fields(s), " ")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	if !caseSensitive {
		folded = strings.ToLower(folded)
	}
	return folded
}

// CompareStrings reports whether a and b are equal after Normalize.
func CompareStrings(a, b string, caseSensitive bool) bool {
	return Normalize(a, caseSensitive) == Normalize(b, caseSensitive)
}

// MatchesAny reports whether answer equals any of the accepted strings
// under CompareStrings.
func MatchesAny(answer string, accepted []string, caseSensitive bool) bool {
	for _, a := range accepted {
		if CompareStrings(answer, a, caseSensitive) {
			return true
		}
	}
	return false
}
