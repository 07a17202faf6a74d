package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
	"cobald/internal/taxonomy"
	"errors"
	"log/slog"
)

// SemclassScorer gives taxonomy-aware partial credit for semantic classes.
//
// Labels unknown to the taxonomy fail the run unless ignoreUnknown is set, in which
// case the pair is scored like an out-of-taxonomy label (0).
type SemclassScorer struct {
	taxonomy      *taxonomy.Taxonomy
	outOfTaxonomy taxonomy.LabelSet
	ignoreUnknown bool
}

func (ss *SemclassScorer) Score(test, gold *corpus.Token) (score.Result, error) {
	similarity, err := ss.taxonomy.Similarity(test.Semclass, gold.Semclass, ss.outOfTaxonomy)
	if err != nil {
		var unknown *taxonomy.UnknownLabelError
		if !ss.ignoreUnknown || !errors.As(err, &unknown) {
			return score.Result{}, err
		}
		slog.Debug("unknown semantic class scored as out of taxonomy", "label", unknown.Label)
		similarity = 0.0
	}
	return score.Result{Score: similarity, Weight: 1.0}, nil
}

// NewSemclassScorer always adds the empty "no semantic class" label to outOfTaxonomy.
func NewSemclassScorer(t *taxonomy.Taxonomy, outOfTaxonomy taxonomy.LabelSet, ignoreUnknown bool) *SemclassScorer {
	oot := taxonomy.NewLabelSet("")
	for label := range outOfTaxonomy {
		oot[label] = struct{}{}
	}
	return &SemclassScorer{
		taxonomy:      t,
		outOfTaxonomy: oot,
		ignoreUnknown: ignoreUnknown,
	}
}
