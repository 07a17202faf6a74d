package report

import (
	"cobald/internal/score"
	"cobald/internal/score/scorer"
	"math"
	"time"

	"github.com/google/uuid"
)

// Run is one archived evaluation.
type Run struct {
	ID         string              `json:"id"`
	Started    time.Time           `json:"started"`
	TestFile   string              `json:"test_file"`
	GoldFile   string              `json:"gold_file"`
	Scores     map[string]*float64 `json:"scores"`
	Sentences  int                 `json:"sentences"`
	Tokens     int                 `json:"tokens"`
	Counted    map[string]int      `json:"counted"`
	Errors     map[string]int      `json:"errors"`
	Mismatches []scorer.Mismatch   `json:"mismatches,omitempty"`
}

// NewRun wraps a report with a fresh run identifier.
func NewRun(testFile, goldFile string, started time.Time, r *scorer.Report) Run {
	run := Run{
		ID:         uuid.New().String(),
		Started:    started,
		TestFile:   testFile,
		GoldFile:   goldFile,
		Scores:     NullableScores(r.Scores),
		Sentences:  r.Sentences,
		Tokens:     r.Tokens,
		Counted:    make(map[string]int, len(r.Counted)),
		Errors:     make(map[string]int, len(r.Errors)),
		Mismatches: r.Mismatches,
	}
	for c, n := range r.Counted {
		run.Counted[string(c)] = n
	}
	for c, n := range r.Errors {
		run.Errors[string(c)] = n
	}
	return run
}

// NullableScores converts scores to pointers so that the empty-corpus NaN
// becomes JSON null.
func NullableScores(scores score.Scores) map[string]*float64 {
	out := make(map[string]*float64, len(scores))
	for c, v := range scores {
		if math.IsNaN(v) {
			out[string(c)] = nil
			continue
		}
		value := v
		out[string(c)] = &value
	}
	return out
}
