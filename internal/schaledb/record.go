// Package schaledb implements the query core of the schale-mcp server: a
// cache-aside fetcher for the SchaleDB JSON corpus, a relevance-scored
// multi-field search, stage metadata derivation, and a character-variant
// resolver based on structural name parsing.
//
// The upstream corpus is a set of per-language JSON collections (students,
// stages, items, raids, equipment, enemies, ...). Field presence is never
// guaranteed, so records are dynamic maps with explicit-absence accessors:
// every accessor returns (value, ok) rather than a zero value that could be
// mistaken for data.
package schaledb

import (
	"strconv"
	"strings"
)

// Record is a single upstream entity (one student, one stage, ...) decoded
// from JSON. Values are the usual encoding/json dynamic types: string,
// float64, bool, []any, map[string]any.
type Record map[string]any

// Str returns the string value of key. ok is false when the field is absent
// or not a string.
func (r Record) Str(key string) (string, bool) {
	v, present := r[key]
	if !present {
		return "", false
	}
	s, isStr := v.(string)
	return s, isStr
}

// Int returns the integer value of key. JSON numbers decode as float64;
// values with a fractional part report ok=false.
func (r Record) Int(key string) (int, bool) {
	f, ok := r.Float(key)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Float returns the numeric value of key.
func (r Record) Float(key string) (float64, bool) {
	v, present := r[key]
	if !present {
		return 0, false
	}
	f, isNum := v.(float64)
	return f, isNum
}

// Bool returns the boolean value of key.
func (r Record) Bool(key string) (bool, bool) {
	v, present := r[key]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// Strings returns the value of key as a slice of strings. Non-string
// elements of the underlying array are skipped.
func (r Record) Strings(key string) ([]string, bool) {
	v, present := r[key]
	if !present {
		return nil, false
	}
	arr, isArr := v.([]any)
	if !isArr {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, isStr := e.(string); isStr {
			out = append(out, s)
		}
	}
	return out, true
}

// Records returns the value of key as a slice of nested records.
func (r Record) Records(key string) ([]Record, bool) {
	v, present := r[key]
	if !present {
		return nil, false
	}
	arr, isArr := v.([]any)
	if !isArr {
		return nil, false
	}
	out := make([]Record, 0, len(arr))
	for _, e := range arr {
		if m, isMap := e.(map[string]any); isMap {
			out = append(out, Record(m))
		}
	}
	return out, true
}

// FieldString renders the value of key the way the relevance search consumes
// it: strings verbatim, numbers in decimal, booleans as "true"/"false",
// arrays as a comma-joined list of their scalar elements. Nested objects and
// absent fields report ok=false.
func (r Record) FieldString(key string) (string, bool) {
	v, present := r[key]
	if !present || v == nil {
		return "", false
	}
	s, ok := scalarString(v)
	return s, ok
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := scalarString(e); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

// clone returns a shallow copy of the record. Projections operate on copies
// so that cached collections are never mutated.
func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
