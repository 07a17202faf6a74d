package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
)

// FeatsScorer compares morphological features category by category.
//
// Every grammatical category present on either side contributes 1 when both
// values are equal and 0 otherwise, weighted by the category weight. The token
// score is the weighted average; the token itself carries weight 1.
// An empty union scores 1. When all categories weigh 0 the token scores 1 if
// every value matches and 0 otherwise.
type FeatsScorer struct {
	weights *score.WeightTable // grammatical category -> weight
}

func (fs *FeatsScorer) Score(test, gold *corpus.Token) (score.Result, error) {
	var matched, total float64
	allMatch := true

	for category, goldValue := range gold.Feats {
		w := fs.weights.Get(category)
		total += w
		if testValue, found := test.Feats[category]; found && testValue == goldValue {
			matched += w
		} else {
			allMatch = false
		}
	}
	for category := range test.Feats {
		if _, found := gold.Feats[category]; found {
			continue
		}
		total += fs.weights.Get(category)
		allMatch = false
	}

	result := score.Result{Weight: 1.0}
	switch {
	case total > 0:
		result.Score = matched / total
	case allMatch:
		result.Score = 1.0
	}
	return result, nil
}

func NewFeatsScorer(weights *score.WeightTable) *FeatsScorer {
	return &FeatsScorer{weights: weights}
}
