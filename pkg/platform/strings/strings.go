// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitAndTrim splits s on sep, trims each part and drops empty parts.
// Duplicates and order are preserved. The result is never nil.
//
// Example:
//
//	SplitAndTrim("Alice, Bob,  , Alice", ",")
//	// Returns: []string{"Alice", "Bob", "Alice"}
func SplitAndTrim(s, sep string) []string {
	result := make([]string, 0)
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
