package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
)

// UDScorer scores the basic dependency tree with labeled attachment semantics:
// a token is correct only when both head and relation match.
type UDScorer struct{}

func (us *UDScorer) Score(test, gold *corpus.Token) (score.Result, error) {
	result := score.Result{Weight: 1.0}
	if equalPtr(test.Head, gold.Head) && equalPtr(test.Deprel, gold.Deprel) {
		result.Score = 1.0
	}
	return result, nil
}

func NewUDScorer() *UDScorer {
	return &UDScorer{}
}

// equalPtr treats two missing values as equal.
func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EUDScorer scores secondary dependencies as the F1 overlap of the two arc sets.
type EUDScorer struct{}

func (es *EUDScorer) Score(test, gold *corpus.Token) (score.Result, error) {
	return score.Result{Score: DepsSimilarity(test.Deps, gold.Deps), Weight: 1.0}, nil
}

func NewEUDScorer() *EUDScorer {
	return &EUDScorer{}
}

// DepsSimilarity returns 2|P∩G| / (|P|+|G|) over the distinct arcs of both sides,
// or 1 when both are empty. It is symmetric in its arguments.
func DepsSimilarity(test, gold []corpus.Dep) float64 {
	testSet := make(map[corpus.Dep]struct{}, len(test))
	for _, d := range test {
		testSet[d] = struct{}{}
	}
	goldSet := make(map[corpus.Dep]struct{}, len(gold))
	for _, d := range gold {
		goldSet[d] = struct{}{}
	}

	if len(testSet) == 0 && len(goldSet) == 0 {
		return 1.0
	}

	common := 0
	for d := range testSet {
		if _, found := goldSet[d]; found {
			common++
		}
	}
	return 2.0 * float64(common) / float64(len(testSet)+len(goldSet))
}
