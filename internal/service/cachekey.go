package service

import (
	"sort"
	"strings"
)

// CacheKey derives the canonical cache key for a meal request. Two requests
// that differ only in allergen order or in case/whitespace of either field
// produce the same key. No semantic equivalence is applied: "peanut" and
// "peanuts" are distinct.
func CacheKey(meal string, allergens []string) string {
	normalizedMeal := strings.ToLower(strings.TrimSpace(meal))

	normalized := make([]string, len(allergens))
	for i, a := range allergens {
		normalized[i] = strings.ToLower(strings.TrimSpace(a))
	}
	sort.Strings(normalized)

	return normalizedMeal + "|" + strings.Join(normalized, ",")
}
