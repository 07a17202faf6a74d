package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
)

// ExactScorer scores a single string layer by exact match with weight 1.
// It backs the upos, xpos and deepslot categories.
type ExactScorer struct {
	field func(*corpus.Token) string
}

func (es *ExactScorer) Score(test, gold *corpus.Token) (score.Result, error) {
	result := score.Result{Weight: 1.0}
	if es.field(test) == es.field(gold) {
		result.Score = 1.0
	}
	return result, nil
}

func NewExactScorer(field func(*corpus.Token) string) *ExactScorer {
	return &ExactScorer{field: field}
}

func tokenUPOS(t *corpus.Token) string     { return t.UPOS }
func tokenXPOS(t *corpus.Token) string     { return t.XPOS }
func tokenDeepslot(t *corpus.Token) string { return t.Deepslot }
