package scorer

import (
	"cobald/internal/score"
	"cobald/internal/taxonomy"
)

// Resources are the read-only tables the category scorers consult.
type Resources struct {
	LemmaWeights *score.WeightTable
	FeatsWeights *score.WeightTable
	// Taxonomy may be nil; the semclass category is then unavailable.
	Taxonomy      *taxonomy.Taxonomy
	OutOfTaxonomy taxonomy.LabelSet
	// IgnoreUnknownSemclass scores labels missing from the taxonomy as out of taxonomy
	// instead of failing the run.
	IgnoreUnknownSemclass bool
}

// NewCategoryScorers registers a scorer for every category the resources allow.
func NewCategoryScorers(res Resources) map[score.Category]score.CategoryScorer {
	scorers := map[score.Category]score.CategoryScorer{
		score.CategoryLemma:    NewLemmaScorer(res.LemmaWeights),
		score.CategoryUPOS:     NewExactScorer(tokenUPOS),
		score.CategoryXPOS:     NewExactScorer(tokenXPOS),
		score.CategoryFeats:    NewFeatsScorer(res.FeatsWeights),
		score.CategoryUD:       NewUDScorer(),
		score.CategoryEUD:      NewEUDScorer(),
		score.CategoryDeepslot: NewExactScorer(tokenDeepslot),
	}
	if res.Taxonomy != nil {
		scorers[score.CategorySemclass] = NewSemclassScorer(res.Taxonomy, res.OutOfTaxonomy, res.IgnoreUnknownSemclass)
	}
	return scorers
}
