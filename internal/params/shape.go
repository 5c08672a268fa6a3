package params

import (
	"sort"
	"strconv"
	"strings"
)

// CommaList joins non-empty items with commas.
func CommaList(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return strings.Join(out, ",")
}

// Disjunction renders values as a parenthesized, space separated group.
func Disjunction(values []string) string {
	return "(" + strings.Join(values, " ") + ")"
}

// Weights renders field boosts as "field^weight" pairs separated by spaces,
// ordered by field name.
func Weights(w map[string]float64) string {
	keys := sortedKeys(w)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"^"+strconv.FormatFloat(w[k], 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

// Pairs renders "field:value" pairs joined by sep, ordered by field name.
// Values that FormatValue omits are skipped.
func Pairs(m map[string]any, sep string) string {
	keys := sortedKeys(m)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := FormatValue(m[k])
		if !ok {
			continue
		}
		parts = append(parts, k+":"+v)
	}
	return strings.Join(parts, sep)
}

// Split breaks a delimited string into trimmed, non-empty items.
// An empty separator means ",".
func Split(list, sep string) []string {
	if sep == "" {
		sep = ","
	}
	var out []string
	for _, it := range strings.Split(list, sep) {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
