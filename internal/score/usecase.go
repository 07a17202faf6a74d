package score

import (
	"cobald/internal/corpus"
)

// Category names an annotation layer that gets its own score.
type Category string

const (
	CategoryLemma    Category = "lemma"
	CategoryUPOS     Category = "upos"
	CategoryXPOS     Category = "xpos"
	CategoryFeats    Category = "feats"
	CategoryUD       Category = "ud"
	CategoryEUD      Category = "eud"
	CategoryDeepslot Category = "deepslot"
	CategorySemclass Category = "semclass"
)

// AllCategories lists every category in reporting order.
var AllCategories = []Category{
	CategoryLemma,
	CategoryUPOS,
	CategoryXPOS,
	CategoryFeats,
	CategoryUD,
	CategoryEUD,
	CategoryDeepslot,
	CategorySemclass,
}

// requiredTags maps a category to the corpus layers it compares.
var requiredTags = map[Category][]string{
	CategoryLemma:    {corpus.TagLemma},
	CategoryUPOS:     {corpus.TagUPOS},
	CategoryXPOS:     {corpus.TagXPOS},
	CategoryFeats:    {corpus.TagFeats},
	CategoryUD:       {corpus.TagHead, corpus.TagDeprel},
	CategoryEUD:      {corpus.TagDeps},
	CategoryDeepslot: {corpus.TagDeepslot},
	CategorySemclass: {corpus.TagSemclass},
}

// CategoriesForTags returns the categories whose layers are all present in tags,
// in reporting order.
func CategoriesForTags(tags []string) []Category {
	present := make(map[string]bool, len(tags))
	for _, t := range tags {
		present[t] = true
	}

	var categories []Category
	for _, c := range AllCategories {
		complete := true
		for _, t := range requiredTags[c] {
			if !present[t] {
				complete = false
				break
			}
		}
		if complete {
			categories = append(categories, c)
		}
	}
	return categories
}

// Scores maps a category to its corpus-level score.
type Scores map[Category]float64

// Result is a single token comparison: a similarity in [0, 1] and the weight
// it carries in the corpus average.
type Result struct {
	Score  float64
	Weight float64
}

// CategoryScorer compares one predicted token against its gold counterpart
// for a single annotation layer.
type CategoryScorer interface {
	Score(test, gold *corpus.Token) (Result, error)
}
