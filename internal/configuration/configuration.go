package configuration

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	UnknownLabelsFail   = "fail"
	UnknownLabelsIgnore = "ignore"

	FormatText = "text"
	FormatJSON = "json"

	envPrefix = "COBALD"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger: logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Taxonomy: semantic class hierarchy
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	// Weights: lemma and feature weight tables
	Weights WeightsConfig `mapstructure:"weights"`
	// Evaluation: which layers are scored and how
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	// Output: presentation and export of scores
	Output OutputConfig `mapstructure:"output"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level: log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
}

// TaxonomyConfig locates and interprets the hypernym hierarchy.
type TaxonomyConfig struct {
	// File: CSV file with child,parent rows. Required when semclass is scored.
	File string `mapstructure:"file"`
	// Delimiter: CSV column separator, a single character.
	Delimiter string `mapstructure:"delimiter"`
	// Header: skip the first row of the file.
	Header bool `mapstructure:"header"`
	// OutOfTaxonomy: labels exempt from partial credit; the empty label is always added.
	OutOfTaxonomy []string `mapstructure:"out_of_taxonomy"`
	// UnknownLabels: "fail" aborts on labels missing from the taxonomy,
	// "ignore" scores them as out of taxonomy.
	UnknownLabels string `mapstructure:"unknown_labels"`
}

// WeightsConfig defines the weight tables and their defaults.
type WeightsConfig struct {
	// LemmaFile: JSON/YAML object mapping UPOS to lemma weight (optional).
	LemmaFile string `mapstructure:"lemma_file"`
	// FeatsFile: JSON/YAML object mapping grammatical category to weight (optional).
	FeatsFile string `mapstructure:"feats_file"`
	// DefaultPos: weight of a POS missing from LemmaFile.
	DefaultPos float64 `mapstructure:"default_pos"`
	// DefaultFeat: weight of a category missing from FeatsFile.
	DefaultFeat float64 `mapstructure:"default_feat"`
}

// EvaluationConfig selects the scored layers.
type EvaluationConfig struct {
	// Tags: corpus layers to read; categories follow from them.
	Tags []string `mapstructure:"tags"`
	// Filters: CEL predicates over the gold token, keyed by category.
	Filters map[string]string `mapstructure:"filters"`
	// Mismatches: size of the mismatch sample kept for reporting.
	Mismatches int `mapstructure:"mismatches"`
}

// OutputConfig defines how scores leave the process.
type OutputConfig struct {
	// Precision: significant digits of printed scores.
	Precision int `mapstructure:"precision"`
	// Format: text or json.
	Format string `mapstructure:"format"`
	// MetricsFile: Prometheus textfile to write (optional).
	MetricsFile string `mapstructure:"metrics_file"`
	// Archive: rotating JSONL archive of runs (optional).
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig defines run archive parameters.
type ArchiveConfig struct {
	// File: archive file path; empty disables archiving.
	File string `mapstructure:"file"`
	// Size: maximal archive file size in megabytes before rotation (default 100)
	Size int `mapstructure:"size"`
	// Amount: number of rotated files kept (default 20)
	Amount int `mapstructure:"amount"`
}

// Categories returns the categories implied by the configured tags.
func (c *AppConfig) Categories() []score.Category {
	return score.CategoriesForTags(c.Evaluation.Tags)
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected error.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Evaluation.Validate(); err != nil {
		return err
	}

	if err := c.Taxonomy.Validate(); err != nil {
		return err
	}

	if err := c.Weights.Validate(); err != nil {
		return err
	}

	if err := c.Output.Validate(); err != nil {
		return err
	}

	for _, category := range c.Categories() {
		if category == score.CategorySemclass && c.Taxonomy.File == "" {
			return errors.New("taxonomy.file: must be specified to score semclass")
		}
	}

	return nil
}

// Validate checks the correctness of the logger configuration.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	return nil
}

// Validate checks the taxonomy options.
func (t *TaxonomyConfig) Validate() error {
	switch t.UnknownLabels {
	case UnknownLabelsFail, UnknownLabelsIgnore:
	default:
		return fmt.Errorf("taxonomy.unknown_labels: unsupported policy '%s'", t.UnknownLabels)
	}

	if len([]rune(t.Delimiter)) > 1 {
		return fmt.Errorf("taxonomy.delimiter: must be a single character, got '%s'", t.Delimiter)
	}

	return nil
}

// Validate checks that default weights are usable.
func (w *WeightsConfig) Validate() error {
	if w.DefaultPos < 0 {
		return errors.New("weights.default_pos: must not be negative")
	}

	if w.DefaultFeat < 0 {
		return errors.New("weights.default_feat: must not be negative")
	}

	return nil
}

// Validate checks the requested tags and sample size.
func (e *EvaluationConfig) Validate() error {
	if len(e.Tags) == 0 {
		return errors.New("evaluation.tags: must be specified")
	}

	known := make(map[string]bool, len(corpus.OptionalTags))
	for _, t := range corpus.OptionalTags {
		known[t] = true
	}
	for _, t := range e.Tags {
		if !known[t] {
			return fmt.Errorf("evaluation.tags: unknown tag '%s'", t)
		}
	}

	if len(score.CategoriesForTags(e.Tags)) == 0 {
		return errors.New("evaluation.tags: no category can be scored with these tags")
	}

	if e.Mismatches < 0 {
		return errors.New("evaluation.mismatches: must not be negative")
	}

	return nil
}

// Validate output parameters, filling archive defaults.
func (o *OutputConfig) Validate() error {
	if o.Precision <= 0 {
		return errors.New("output.precision: must be positive")
	}

	if o.Format != FormatText && o.Format != FormatJSON {
		return fmt.Errorf("output.format: unsupported format '%s'", o.Format)
	}

	if o.Archive.Amount == 0 {
		o.Archive.Amount = 20
	}

	if o.Archive.Size == 0 {
		o.Archive.Size = 100
	}

	return nil
}

// setDefaults registers every key, which also lets COBALD_* variables reach it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("taxonomy.file", "")
	v.SetDefault("taxonomy.delimiter", ",")
	v.SetDefault("taxonomy.header", false)
	v.SetDefault("taxonomy.out_of_taxonomy", []string{})
	v.SetDefault("taxonomy.unknown_labels", UnknownLabelsFail)
	v.SetDefault("weights.lemma_file", "")
	v.SetDefault("weights.feats_file", "")
	v.SetDefault("weights.default_pos", score.DefaultWeight)
	v.SetDefault("weights.default_feat", score.DefaultWeight)
	v.SetDefault("evaluation.tags", corpus.OptionalTags)
	v.SetDefault("evaluation.mismatches", 0)
	v.SetDefault("output.precision", 4)
	v.SetDefault("output.format", FormatText)
	v.SetDefault("output.metrics_file", "")
	v.SetDefault("output.archive.file", "")
	v.SetDefault("output.archive.size", 0)
	v.SetDefault("output.archive.amount", 0)
}

// flagKeys binds command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":          "logger.level",
	"taxonomy-file":      "taxonomy.file",
	"lemma-weights-file": "weights.lemma_file",
	"feats-weights-file": "weights.feats_file",
	"tags":               "evaluation.tags",
	"mismatches":         "evaluation.mismatches",
	"output-precision":   "output.precision",
	"format":             "output.format",
	"metrics-file":       "output.metrics_file",
	"archive-file":       "output.archive.file",
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// COBALD_* environment variables and command line flags, in increasing priority.
//
// Parameter configPath: path to the configuration file, may be empty.
// Parameter flags: the command flag set, may be nil.
//
// Returns a pointer to AppConfig or an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string, flags *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
