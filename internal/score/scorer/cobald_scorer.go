package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
	"cobald/internal/score/rule"
	"cobald/internal/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Report is the outcome of one evaluation run.
type Report struct {
	// Categories: requested categories in request order.
	Categories []score.Category
	// Scores: Σ(score·weight)/Σ(weight) per category, NaN when nothing was counted.
	Scores score.Scores
	// Sentences and Tokens: aligned sentence pairs and token pairs read.
	Sentences int
	Tokens    int
	// Counted: token comparisons per category after filters.
	Counted map[score.Category]int
	// Errors: token comparisons per category that scored below 1.
	Errors map[score.Category]int
	// Mismatches: the most recent disagreements, oldest first.
	Mismatches []Mismatch
}

// CobaldScorer aligns a test corpus with a gold corpus and aggregates per-category
// token scores over the whole corpus.
//
// The scorer keeps no state between calls: every Evaluate builds its own
// accumulator. Registered scorers and filters are only read, so one CobaldScorer
// can serve concurrent runs if they are read-only too.
type CobaldScorer struct {
	scorers    map[score.Category]score.CategoryScorer // one scorer per annotation layer
	filters    map[score.Category]*rule.Rule           // optional gold-token predicates
	sampleSize int                                     // mismatches kept per run, 0 disables
}

// Evaluate consumes both corpora in lockstep and scores every requested category.
// Order of work:
//  1. Checks that every category has a scorer.
//  2. Pulls one sentence from each side; both exhausted ends the run.
//  3. Fails with *score.AlignmentError when only one side is exhausted, the
//     token counts differ or tokens at the same position have different ids.
//  4. Scores every token pair for every category accepted by its filter.
//
// No partial report is returned on error.
func (cs *CobaldScorer) Evaluate(ctx context.Context, test, gold corpus.SentenceIterator, categories []score.Category) (*Report, error) {
	requested := make([]score.Category, 0, len(categories))
	seen := make(map[score.Category]bool, len(categories))
	for _, c := range categories {
		if _, found := cs.scorers[c]; !found {
			return nil, score.NewUnknownCategoryError(c)
		}
		if !seen[c] {
			seen[c] = true
			requested = append(requested, c)
		}
	}

	acc := score.NewAccumulator(requested)
	errs := make(map[score.Category]int, len(requested))
	for _, c := range requested {
		errs[c] = 0
	}
	var sample *utils.RingBuffer[Mismatch]
	if cs.sampleSize > 0 {
		sample = utils.NewRingBuffer[Mismatch](cs.sampleSize)
	}

	report := &Report{Categories: requested}
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		testSentence, testDone, err := next(test)
		if err != nil {
			return nil, fmt.Errorf("test corpus, sentence %d: %w", index, err)
		}
		goldSentence, goldDone, err := next(gold)
		if err != nil {
			return nil, fmt.Errorf("gold corpus, sentence %d: %w", index, err)
		}

		if testDone && goldDone {
			break
		}
		if testDone || goldDone {
			testCount, goldCount := index, index
			if !testDone {
				testCount++
			}
			if !goldDone {
				goldCount++
			}
			return nil, score.NewSentenceCountError(index, testCount, goldCount)
		}

		if testSentence.Len() != goldSentence.Len() {
			return nil, score.NewTokenCountError(index, testSentence.Len(), goldSentence.Len())
		}
		for i := range goldSentence.Tokens {
			if testSentence.Tokens[i].ID != goldSentence.Tokens[i].ID {
				return nil, score.NewTokenIDError(index, goldSentence.Len(), testSentence.Tokens[i].ID, goldSentence.Tokens[i].ID)
			}
		}

		for i := range goldSentence.Tokens {
			testToken, goldToken := &testSentence.Tokens[i], &goldSentence.Tokens[i]
			for _, c := range requested {
				if !cs.accept(c, goldToken) {
					continue
				}
				result, err := cs.scorers[c].Score(testToken, goldToken)
				if err != nil {
					return nil, fmt.Errorf("sentence %d, token %s, %s: %w", index, goldToken.ID, c, err)
				}
				acc.Add(c, result)
				if result.Score < 1.0 {
					errs[c]++
					if sample != nil {
						sample.Push(newMismatch(c, index, goldSentence.ID, testToken, goldToken, result.Score))
					}
				}
			}
		}

		report.Sentences++
		report.Tokens += goldSentence.Len()
	}

	report.Scores = acc.Scores()
	report.Counted = acc.Counted()
	report.Errors = errs
	if sample != nil {
		report.Mismatches = sample.ToSlice()
	}
	return report, nil
}

// ScoreSentences is Evaluate reduced to the {category: score} mapping.
func (cs *CobaldScorer) ScoreSentences(ctx context.Context, test, gold corpus.SentenceIterator, categories []score.Category) (score.Scores, error) {
	report, err := cs.Evaluate(ctx, test, gold, categories)
	if err != nil {
		return nil, err
	}
	return report.Scores, nil
}

// accept applies the category filter to the gold token. A failing filter is
// logged and the token is counted.
func (cs *CobaldScorer) accept(c score.Category, gold *corpus.Token) bool {
	filter, found := cs.filters[c]
	if !found {
		return true
	}
	matched, err := filter.Eval(gold)
	if err != nil {
		slog.Error("filter eval", "error", err, "category", c, "filter", filter.When, "token", gold.ID)
		return true
	}
	return matched
}

func next(it corpus.SentenceIterator) (*corpus.Sentence, bool, error) {
	s, err := it.Next()
	if errors.Is(err, io.EOF) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s, false, nil
}

// NewCobaldScorer creates a scorer.
// Parameters:
//   - scorers: category scorers, see NewCategoryScorers
//   - filters: optional per-category token filters, may be nil
//   - sampleSize: number of most recent mismatches kept in the report, 0 disables sampling
func NewCobaldScorer(scorers map[score.Category]score.CategoryScorer, filters map[score.Category]*rule.Rule, sampleSize int) *CobaldScorer {
	if sampleSize < 0 {
		sampleSize = 0
	}
	return &CobaldScorer{
		scorers:    scorers,
		filters:    filters,
		sampleSize: sampleSize,
	}
}
