package schaledb_test

import (
	"math"
	"testing"

	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"aru", "aru", 0},
		{"aru", "ako", 2},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
	}

	for _, tt := range tests {
		if got := schaledb.Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"aru", "aru", 1},
		{"abcd", "abcx", 0.75},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		if got := schaledb.Similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
