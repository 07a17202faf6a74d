package report

import (
	"cobald/internal/score/scorer"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const scoresBanner = "======== SCORES ========="

// FormatScore renders v with precision significant digits, keeping a decimal
// point on whole numbers ("1.0") and spelling the empty-corpus score "nan".
func FormatScore(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(v, 'g', precision, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// WriteText prints scores one per line in category order.
func WriteText(w io.Writer, r *scorer.Report, precision int) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", scoresBanner); err != nil {
		return err
	}
	for _, c := range r.Categories {
		if _, err := fmt.Fprintf(w, "%s: %s\n", c, FormatScore(r.Scores[c], precision)); err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	Scores    map[string]*float64 `json:"scores"`
	Sentences int                 `json:"sentences"`
	Tokens    int                 `json:"tokens"`
	Counted   map[string]int      `json:"counted"`
	Errors    map[string]int      `json:"errors"`
}

// WriteJSON prints the report as an indented JSON object; scores are rounded
// to precision significant digits and the empty-corpus score is null.
func WriteJSON(w io.Writer, r *scorer.Report, precision int) error {
	out := jsonReport{
		Scores:    NullableScores(r.Scores),
		Sentences: r.Sentences,
		Tokens:    r.Tokens,
		Counted:   make(map[string]int, len(r.Counted)),
		Errors:    make(map[string]int, len(r.Errors)),
	}
	for _, v := range out.Scores {
		if v != nil {
			*v, _ = strconv.ParseFloat(strconv.FormatFloat(*v, 'g', precision, 64), 64)
		}
	}
	for c, n := range r.Counted {
		out.Counted[string(c)] = n
	}
	for c, n := range r.Errors {
		out.Errors[string(c)] = n
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
