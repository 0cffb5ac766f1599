package stringsutil

import "strings"

func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}

// CollapseWhitespace trims s and folds every run of Unicode whitespace,
// non-breaking spaces included, into a single ASCII space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
