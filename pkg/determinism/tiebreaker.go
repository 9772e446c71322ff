package determinism

import "strings"

// SuggestTieBreaker picks a column that would make an ordering unique,
// restricted to columns actually present on the relevant entity. Columns
// listed in ordered already participate in the ordering and cannot break
// their own ties, so they are never candidates. Candidates are tried in a
// fixed priority order; the empty string means no candidate matched and the
// caller must supply a unique column manually.
func SuggestTieBreaker(columns, primaryKeys, ordered []string) string {
	skip := make(map[string]bool, len(ordered))
	for _, col := range ordered {
		skip[strings.ToLower(col)] = true
	}
	candidates := make([]string, 0, len(columns))
	for _, col := range columns {
		if !skip[strings.ToLower(col)] {
			candidates = append(candidates, col)
		}
	}

	match := func(pred func(string) bool) string {
		for _, col := range candidates {
			if pred(strings.ToLower(col)) {
				return col
			}
		}
		return ""
	}

	if c := match(func(s string) bool { return s == "_source_row_id" }); c != "" {
		return c
	}
	if c := match(func(s string) bool { return s == "row_id" || s == "_row_id" }); c != "" {
		return c
	}
	if c := match(func(s string) bool {
		return strings.Contains(s, "load_ts") || strings.Contains(s, "load_timestamp")
	}); c != "" {
		return c
	}
	if c := match(func(s string) bool { return s == "created_at" }); c != "" {
		return c
	}
	if c := match(func(s string) bool {
		return strings.Contains(s, "surrogate_key") || s == "sk" || strings.HasSuffix(s, "_sk")
	}); c != "" {
		return c
	}
	for _, pk := range primaryKeys {
		for _, col := range candidates {
			if strings.EqualFold(col, pk) {
				return col
			}
		}
	}
	return ""
}
