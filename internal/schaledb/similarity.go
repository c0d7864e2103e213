package schaledb

import "github.com/antzucaro/matchr"

// Levenshtein returns the classic edit distance between a and b: the number
// of single-rune insertions, deletions, and substitutions needed to turn one
// into the other.
//
// The variant resolver deliberately does not use edit distance for inclusion
// decisions — character names share short substrings (school names,
// honorifics) that make loose similarity misleading — but the utility is
// kept for ranking work that needs it.
func Levenshtein(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// Similarity normalizes [Levenshtein] into [0,1]: 1 for identical strings,
// 0 when every position differs.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}
