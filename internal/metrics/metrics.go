package metrics

import (
	"cobald/internal/score/scorer"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics of one evaluation run.
type Registry struct {
	registry *prometheus.Registry

	// Per-category results
	Score   *prometheus.GaugeVec
	Counted *prometheus.CounterVec
	Errors  *prometheus.CounterVec

	// Corpus size
	Sentences prometheus.Counter
	Tokens    prometheus.Counter
}

// NewRegistry creates a registry with all cobald metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Score: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cobald_score",
				Help: "Weighted score per category (0.0 to 1.0, NaN for an empty category)",
			},
			[]string{"category"},
		),

		Counted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobald_counted_tokens_total",
				Help: "Token comparisons per category after filters",
			},
			[]string{"category"},
		),

		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cobald_token_errors_total",
				Help: "Token comparisons per category scoring below 1",
			},
			[]string{"category"},
		),

		Sentences: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cobald_sentences_total",
				Help: "Aligned sentence pairs",
			},
		),

		Tokens: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cobald_tokens_total",
				Help: "Aligned token pairs",
			},
		),
	}

	r.registry.MustRegister(r.Score, r.Counted, r.Errors, r.Sentences, r.Tokens)
	return r
}

// Observe records a finished report.
func (r *Registry) Observe(report *scorer.Report) {
	for _, c := range report.Categories {
		category := string(c)
		r.Score.WithLabelValues(category).Set(report.Scores[c])
		r.Counted.WithLabelValues(category).Add(float64(report.Counted[c]))
		r.Errors.WithLabelValues(category).Add(float64(report.Errors[c]))
	}
	r.Sentences.Add(float64(report.Sentences))
	r.Tokens.Add(float64(report.Tokens))
}

// WriteTextfile writes all metrics in the text exposition format, suitable for
// the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
