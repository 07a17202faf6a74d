package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
)

// LemmaScorer compares lemmas exactly (case-sensitive).
// Each token is weighted by the UPOS of the gold token.
type LemmaScorer struct {
	weights *score.WeightTable // UPOS -> weight
}

func (ls *LemmaScorer) Score(test, gold *corpus.Token) (score.Result, error) {
	result := score.Result{Weight: ls.weights.Get(gold.UPOS)}
	if test.Lemma == gold.Lemma {
		result.Score = 1.0
	}
	return result, nil
}

func NewLemmaScorer(weights *score.WeightTable) *LemmaScorer {
	return &LemmaScorer{weights: weights}
}
