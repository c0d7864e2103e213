package schaledb

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// Variant relationship types, most to least specific.
const (
	// VariantSearchedVariant is the exact variant the caller asked for, when
	// the query itself named a variant ("Aru (New Year)").
	VariantSearchedVariant = "searched_variant"

	// VariantExactMatch is the base character when the query named the base
	// character.
	VariantExactMatch = "exact_match"

	// VariantBaseCharacter is the base character when the query named one of
	// its variants.
	VariantBaseCharacter = "base_character"

	// VariantOther is any sibling variant of the same base character.
	VariantOther = "variant"
)

// Similarity assigned to each relationship. The resolver is structural, not
// fuzzy: it never admits a student whose parsed base name differs from the
// query's, so these fixed tiers only order results within one character
// family.
const (
	similaritySearched = 1.0
	similarityExact    = 1.0
	similarityBase     = 0.98
	similarityVariant  = 0.95

	// minVariantSimilarity is the inclusion floor for resolved variants.
	minVariantSimilarity = 0.9
)

// variantNamePattern splits a display name into a base name and a
// parenthesized variant suffix. Both ASCII and full-width parentheses occur
// in the corpus, in either pairing.
var variantNamePattern = regexp.MustCompile(`^(.+?)[（(](.+?)[）)]$`)

// ParseVariantName splits a student display name into its base character
// name and variant suffix. hasSuffix is false for plain names, in which case
// base is the trimmed input and suffix is empty.
//
//	ParseVariantName("アル（正月）")  → "アル", "正月", true
//	ParseVariantName("Aru (New Year)") → "Aru", "New Year", true
//	ParseVariantName("Aru")            → "Aru", "", false
func ParseVariantName(name string) (base, suffix string, hasSuffix bool) {
	name = strings.TrimSpace(name)
	m := variantNamePattern.FindStringSubmatch(name)
	if m == nil {
		return name, "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// Variant is one resolved member of a character family.
type Variant struct {
	Student    Record
	Similarity float64
	Type       string
	BaseName   string
	Suffix     string
}

// Record flattens the variant into a single output record: the simplified
// student plus the resolution fields.
func (v Variant) Record() Record {
	out := simplifyStudent(v.Student, false)
	out["Similarity"] = v.Similarity
	out["VariantType"] = v.Type
	out["BaseName"] = v.BaseName
	if v.Suffix != "" {
		out["VariantSuffix"] = v.Suffix
	}
	return out
}

// FindStudentVariants resolves every student in the same character family as
// name. The query is parsed into base + suffix; every student whose own
// parsed base name equals the query's base (case-folded) is classified:
//
//   - the searched variant itself, when the query named one, at 1.0;
//   - the base character, at 1.0 when the query named it directly
//     (exact_match) or 0.98 when the query named a variant (base_character);
//   - every other variant of the family, at 0.95.
//
// Students outside the family are never included, whatever their textual
// similarity. A plain-name query only establishes a family through its exact
// base record: when no student carries that exact name, siblings are not
// admitted and the result is empty. When includeBase is false the base
// character entry is dropped, leaving only variants. Results are ordered by
// descending similarity; ties keep collection order.
func (c *Client) FindStudentVariants(ctx context.Context, name, language string, includeBase bool) ([]Variant, error) {
	students, err := c.Students(ctx, StudentQuery{Language: language, Limit: 1000})
	if err != nil {
		return nil, err
	}

	queryBase, querySuffix, queryHasSuffix := ParseVariantName(name)
	queryBaseNorm := strings.ToLower(queryBase)
	querySuffixNorm := strings.ToLower(querySuffix)

	var family []Variant
	seen := map[string]bool{}
	baseFound := false

	for _, student := range students {
		studentName, present := student.Str("Name")
		if !present || seen[studentName] {
			continue
		}

		base, suffix, hasSuffix := ParseVariantName(studentName)
		if strings.ToLower(base) != queryBaseNorm {
			continue
		}
		seen[studentName] = true

		v := Variant{Student: student, BaseName: base, Suffix: suffix}
		switch {
		case queryHasSuffix && hasSuffix && strings.ToLower(suffix) == querySuffixNorm:
			v.Type = VariantSearchedVariant
			v.Similarity = similaritySearched
		case !hasSuffix && !queryHasSuffix:
			v.Type = VariantExactMatch
			v.Similarity = similarityExact
		case !hasSuffix:
			v.Type = VariantBaseCharacter
			v.Similarity = similarityBase
		default:
			v.Type = VariantOther
			v.Similarity = similarityVariant
		}
		if !hasSuffix {
			baseFound = true
		}

		if v.Similarity < minVariantSimilarity {
			continue
		}
		family = append(family, v)
	}

	// Without the exact base record a plain-name query matched nothing
	// directly; suffixed siblings alone do not make a family.
	if !queryHasSuffix && !baseFound {
		return nil, nil
	}

	variants := make([]Variant, 0, len(family))
	for _, v := range family {
		if !includeBase && (v.Type == VariantExactMatch || v.Type == VariantBaseCharacter) {
			continue
		}
		variants = append(variants, v)
	}

	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].Similarity > variants[j].Similarity
	})
	return variants, nil
}
