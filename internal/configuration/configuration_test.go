package configuration

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("cobald", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("taxonomy-file", "", "")
	flags.StringSlice("tags", corpus.OptionalTags, "")
	flags.Int("output-precision", 4, "")
	flags.String("format", FormatText, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("", nil)
	require.Error(t, err, "semclass needs a taxonomy file")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--taxonomy-file", "hierarchy.csv"}))

	config, err = LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, "hierarchy.csv", config.Taxonomy.File)
	assert.Equal(t, ",", config.Taxonomy.Delimiter)
	assert.Equal(t, UnknownLabelsFail, config.Taxonomy.UnknownLabels)
	assert.Equal(t, 1.0, config.Weights.DefaultPos)
	assert.Equal(t, 1.0, config.Weights.DefaultFeat)
	assert.Equal(t, corpus.OptionalTags, config.Evaluation.Tags)
	assert.Equal(t, 4, config.Output.Precision)
	assert.Equal(t, FormatText, config.Output.Format)
	assert.Equal(t, 100, config.Output.Archive.Size)
	assert.Equal(t, 20, config.Output.Archive.Amount)
	assert.Equal(t, score.AllCategories, config.Categories())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
taxonomy:
  file: res/hierarchy.csv
  header: true
  out_of_taxonomy: [NONE]
  unknown_labels: ignore
weights:
  lemma_file: res/lemma_weights.json
  default_feat: 0.5
evaluation:
  tags: [lemma, head, deprel]
  mismatches: 25
  filters:
    lemma: "upos != 'PUNCT'"
output:
  precision: 6
  format: json
  archive:
    file: runs.jsonl
    size: 10
`)

	config, err := LoadConfig(path, testFlags())
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logger.Level)
	assert.True(t, config.Taxonomy.Header)
	assert.Equal(t, []string{"NONE"}, config.Taxonomy.OutOfTaxonomy)
	assert.Equal(t, UnknownLabelsIgnore, config.Taxonomy.UnknownLabels)
	assert.Equal(t, "res/lemma_weights.json", config.Weights.LemmaFile)
	assert.Equal(t, 0.5, config.Weights.DefaultFeat)
	assert.Equal(t, []score.Category{score.CategoryLemma, score.CategoryUD}, config.Categories())
	assert.Equal(t, 25, config.Evaluation.Mismatches)
	assert.Equal(t, "upos != 'PUNCT'", config.Evaluation.Filters["lemma"])
	assert.Equal(t, 6, config.Output.Precision)
	assert.Equal(t, FormatJSON, config.Output.Format)
	assert.Equal(t, 10, config.Output.Archive.Size)
	assert.Equal(t, 20, config.Output.Archive.Amount)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
evaluation:
  tags: [lemma]
output:
  precision: 6
`)
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--tags", "feats,deps", "--output-precision", "2"}))

	config, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, []string{"feats", "deps"}, config.Evaluation.Tags)
	assert.Equal(t, 2, config.Output.Precision)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("COBALD_LOGGER_LEVEL", "warn")
	t.Setenv("COBALD_TAXONOMY_FILE", "env.csv")

	config, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Logger.Level)
	assert.Equal(t, "env.csv", config.Taxonomy.File)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"log level":      "logger:\n  level: verbose\n",
		"unknown policy": "taxonomy:\n  file: t.csv\n  unknown_labels: skip\n",
		"delimiter":      "taxonomy:\n  file: t.csv\n  delimiter: ';;'\n",
		"negative pos":   "taxonomy:\n  file: t.csv\nweights:\n  default_pos: -1\n",
		"unknown tag":    "evaluation:\n  tags: [lemmas]\n",
		"no category":    "evaluation:\n  tags: [misc]\n",
		"precision":      "taxonomy:\n  file: t.csv\noutput:\n  precision: 0\n",
		"format":         "taxonomy:\n  file: t.csv\noutput:\n  format: xml\n",
		"mismatches":     "taxonomy:\n  file: t.csv\nevaluation:\n  mismatches: -3\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoggerConfig_Validate(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "warning", "error"} {
		l := LoggerConfig{Level: level}
		assert.NoError(t, l.Validate(), level)
	}
	empty := LoggerConfig{}
	assert.Error(t, empty.Validate())
}
