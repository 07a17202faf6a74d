package main

import (
	"cobald/internal/configuration"
	"cobald/internal/corpus"
	"cobald/internal/metrics"
	"cobald/internal/report"
	"cobald/internal/score"
	"cobald/internal/score/rule"
	"cobald/internal/score/scorer"
	"cobald/internal/taxonomy"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// loadResources reads the taxonomy and weight tables named by the configuration.
func loadResources(config *configuration.AppConfig) (scorer.Resources, error) {
	res := scorer.Resources{
		OutOfTaxonomy:         taxonomy.NewLabelSet(config.Taxonomy.OutOfTaxonomy...),
		IgnoreUnknownSemclass: config.Taxonomy.UnknownLabels == configuration.UnknownLabelsIgnore,
	}

	if config.Taxonomy.File != "" {
		slog.Info("Loading taxonomy", "file", config.Taxonomy.File)
		tax, err := taxonomy.LoadFromFile(config.Taxonomy.File, taxonomy.LoadOptions{
			Delimiter: config.Taxonomy.Delimiter,
			Header:    config.Taxonomy.Header,
		})
		if err != nil {
			return res, err
		}
		slog.Info("Taxonomy loaded", "labels", tax.Len())
		for _, label := range config.Taxonomy.OutOfTaxonomy {
			if tax.Contains(label) {
				slog.Warn("Out-of-taxonomy label is also a taxonomy node, it gets no partial credit", "label", label)
			}
		}
		res.Taxonomy = tax
	}

	slog.Info("Loading lemma weights", "file", config.Weights.LemmaFile)
	lemma, err := score.LoadWeightTable(config.Weights.LemmaFile, config.Weights.DefaultPos)
	if err != nil {
		return res, fmt.Errorf("lemma weights: %w", err)
	}
	slog.Info("Lemma weights loaded", "entries", lemma.Len())
	res.LemmaWeights = lemma

	slog.Info("Loading feats weights", "file", config.Weights.FeatsFile)
	feats, err := score.LoadWeightTable(config.Weights.FeatsFile, config.Weights.DefaultFeat)
	if err != nil {
		return res, fmt.Errorf("feats weights: %w", err)
	}
	slog.Info("Feats weights loaded", "entries", feats.Len())
	res.FeatsWeights = feats

	return res, nil
}

// evaluate scores testFile against goldFile and writes the result to out,
// then exports metrics and archives the run when configured.
func evaluate(ctx context.Context, config *configuration.AppConfig, testFile, goldFile string, out io.Writer) error {
	started := time.Now()

	res, err := loadResources(config)
	if err != nil {
		return err
	}

	filters, err := rule.Compile(config.Evaluation.Filters)
	if err != nil {
		return err
	}

	test, err := corpus.Open(testFile, config.Evaluation.Tags)
	if err != nil {
		return err
	}
	defer test.Close()

	gold, err := corpus.Open(goldFile, config.Evaluation.Tags)
	if err != nil {
		return err
	}
	defer gold.Close()

	slog.Info("Evaluating", "test", testFile, "gold", goldFile, "categories", config.Categories())
	cs := scorer.NewCobaldScorer(scorer.NewCategoryScorers(res), filters, config.Evaluation.Mismatches)
	result, err := cs.Evaluate(ctx, test, gold, config.Categories())
	if err != nil {
		return err
	}
	slog.Info("Evaluation finished",
		"sentences", result.Sentences,
		"tokens", result.Tokens,
		"elapsed", time.Since(started).String(),
	)
	for _, m := range result.Mismatches {
		slog.Debug("Mismatch",
			"category", m.Category,
			"sentence", m.Sentence,
			"sent_id", m.SentenceID,
			"token", m.Token,
			"form", m.Form,
			"test", m.Test,
			"gold", m.Gold,
		)
	}

	if config.Output.Format == configuration.FormatJSON {
		err = report.WriteJSON(out, result, config.Output.Precision)
	} else {
		err = report.WriteText(out, result, config.Output.Precision)
	}
	if err != nil {
		return err
	}

	if config.Output.MetricsFile != "" {
		registry := metrics.NewRegistry()
		registry.Observe(result)
		if err := registry.WriteTextfile(config.Output.MetricsFile); err != nil {
			return err
		}
	}

	if config.Output.Archive.File != "" {
		archive := report.NewJsonRunRepository(
			config.Output.Archive.File,
			config.Output.Archive.Size,
			config.Output.Archive.Amount,
		)
		archiveRun(archive, report.NewRun(testFile, goldFile, started, result))
	}

	return nil
}

func archiveRun(repo report.RunRepository, run report.Run) {
	repo.Append(run)
	if err := repo.Close(); err != nil {
		slog.Error("Unable to close run archive", "error", err)
	}
	slog.Info("Run archived", "id", run.ID)
}
