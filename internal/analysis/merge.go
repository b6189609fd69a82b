package analysis

import "strings"

// MergeEmotions concatenates the groups in order, drops blanks and repeats,
// and stops once limit labels are collected.
func MergeEmotions(limit int, groups ...[]string) []string {
	if limit <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)
	for _, group := range groups {
		for _, label := range group {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
