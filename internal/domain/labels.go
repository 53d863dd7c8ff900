package domain

import "strings"

// ParseList splits a comma separated value, trims each item, drops empty items
// and removes duplicates while keeping the first occurrence.
func ParseList(raw string) []string {
	return Normalize(strings.Split(raw, ","))
}

// Normalize trims, drops empty values and deduplicates preserving order.
func Normalize(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// DefaultBaseline returns the explicit baseline when set, otherwise the first label.
func DefaultBaseline(explicit string, labels []string) string {
	if b := strings.TrimSpace(explicit); b != "" {
		return b
	}
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}
