package schaledb

import (
	"sort"
	"strings"
)

// Scoring weights for the relevance search. These values, together with the
// partial-match guards and the acceptance floor, are load-bearing: changing
// any of them changes which records a query considers relevant.
const (
	scoreExact    = 100
	scorePrefix   = 80
	scoreContains = 60

	// partialMatchRatio is the minimum fraction of query runes that must
	// appear in a field value for the partial-overlap fallback to score.
	partialMatchRatio = 0.8

	// minSearchScore is the acceptance floor: records scoring below it are
	// excluded from results entirely.
	minSearchScore = 10
)

// Search ranks records against a free-text query over the named fields and
// returns the relevant ones, best first. An empty query returns the input
// unchanged, unscored.
//
// Per record, each requested field that is present contributes to an
// additive score: an exact (case-folded, trimmed) match scores 100, a
// prefix match 80, a substring match 60. Otherwise a partial rune-overlap
// fallback counts how many query rune positions occur anywhere in the value
// and adds floor(matched * matched/len(query)) — but only when at least 80%
// of the query's runes matched and the query is longer than one rune, which
// keeps single-character and coincidental CJK overlaps out.
//
// Records totalling less than 10 are dropped. Survivors are ordered by
// descending score with a stable sort, so equal-scored records keep their
// input order. Scores are not exposed to the caller.
func Search(records []Record, query string, fields []string) []Record {
	if query == "" {
		return records
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	queryRunes := []rune(normalized)

	type scored struct {
		record Record
		score  int
	}
	var results []scored

	for _, record := range records {
		score := 0

		for _, field := range fields {
			raw, present := record.FieldString(field)
			if !present || raw == "" {
				continue
			}
			value := strings.ToLower(raw)

			switch {
			case value == normalized:
				score += scoreExact
			case strings.HasPrefix(value, normalized):
				score += scorePrefix
			case strings.Contains(value, normalized):
				score += scoreContains
			default:
				matched := 0
				for _, r := range queryRunes {
					if strings.ContainsRune(value, r) {
						matched++
					}
				}
				ratio := float64(matched) / float64(len(queryRunes))
				if ratio >= partialMatchRatio && len(queryRunes) > 1 {
					score += int(float64(matched) * ratio)
				}
			}
		}

		if score >= minSearchScore {
			results = append(results, scored{record: record, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]Record, len(results))
	for i, r := range results {
		out[i] = r.record
	}
	return out
}
