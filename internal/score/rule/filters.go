package rule

import (
	"cobald/internal/score"
	"fmt"
)

// Compile builds a filter per category from a {category: expression} table.
// Empty expressions are skipped; unknown category names are an error.
func Compile(filters map[string]string) (map[score.Category]*Rule, error) {
	known := make(map[score.Category]bool, len(score.AllCategories))
	for _, c := range score.AllCategories {
		known[c] = true
	}

	rules := make(map[score.Category]*Rule, len(filters))
	for name, expression := range filters {
		category := score.Category(name)
		if !known[category] {
			return nil, fmt.Errorf("filter for unknown category '%s'", name)
		}
		if expression == "" {
			continue
		}
		r, err := New(expression)
		if err != nil {
			return nil, fmt.Errorf("filter for '%s': %w", name, err)
		}
		rules[category] = r
	}
	return rules, nil
}
