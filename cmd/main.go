package main

import (
	"cobald/internal/configuration"
	"cobald/internal/corpus"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// prepareLogger sets up the global slog logger.
// Accepts a string log level ("debug", "info", "warn", "error") and installs
// a JSON handler on out. Unrecognized levels fall back to Info.
func prepareLogger(level string, out io.Writer) {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// underscoreFlags accepts --taxonomy_file as well as --taxonomy-file.
func underscoreFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// newRootCommand builds the cobald command. Scores go to stdout, logs to stderr.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cobald TEST_FILE GOLD_FILE",
		Short: "Score a CoBaLD-annotated corpus against a gold corpus",
		Long: `cobald compares a predicted CoBaLD corpus with a gold one token by token and
prints a weighted score in [0, 1] per annotation category:
lemma, upos, xpos, feats, ud, eud, deepslot and semclass.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configuration.LoadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			prepareLogger(config.Logger.Level, stderr)

			return evaluate(cmd.Context(), config, args[0], args[1], stdout)
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(underscoreFlags)
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.String("taxonomy-file", "", "CSV file with child,parent semantic class rows")
	flags.String("lemma-weights-file", "", "JSON/YAML object of lemma weights per POS")
	flags.String("feats-weights-file", "", "JSON/YAML object of weights per grammatical category")
	flags.StringSlice("tags", corpus.OptionalTags, "Corpus layers to read and score, comma-separated or repeated (--tags lemma,upos or --tags lemma --tags upos)")
	flags.Int("output-precision", 4, "Significant digits of printed scores")
	flags.String("format", configuration.FormatText, "Output format (text|json)")
	flags.Int("mismatches", 0, "Number of most recent mismatches to keep and log")
	flags.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	flags.String("archive-file", "", "Append the run to this rotating JSONL archive")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// Any error while loading configuration, resources or corpora, or while
// aligning them, terminates the process with exit code 1.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cobald: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
