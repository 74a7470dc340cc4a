package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aldenhart/babble/pkg/markov"
)

// Boundary modes: what counts as the end of an utterance in the corpus.
const (
	// Line endings are boundaries (like in a play transcript).
	boundariesLineEndings = "line-endings"
	// Sentence endings are boundaries (like most anything else).
	boundariesSentenceEndings = "sentence-endings"
)

var (
	Version = "dev"
)

// runOptions are the fully resolved settings for one run, after flags and
// the optional config file have been merged.
type runOptions struct {
	order             int
	maxTokens         int
	count             int
	minFrequency      int
	boundaries        string
	respectBoundaries bool
	seed              uint64
	seedSet           bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath    string
		order      int
		maxTokens  int
		count      int
		boundaries string
		respect    bool
		seed       uint64
		minFreq    int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "babble [corpus...]",
		Short: "Generate text that statistically mimics a training corpus",
		Long: `babble builds a Markov chain model from the given corpus files (or from
stdin when none are given) and prints randomly generated text that mimics
the corpus's local word-sequencing patterns.`,
		Version:      Version,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := DefaultConfig()
			if cfgPath != "" {
				var err error
				if cfg, err = LoadConfig(cfgPath); err != nil {
					return err
				}
			}

			// Flags beat the config file; unset flags fall back to it.
			flags := cmd.Flags()
			if !flags.Changed("order") {
				order = cfg.Order
			}
			if !flags.Changed("max-tokens") {
				maxTokens = cfg.MaxTokens
			}
			if !flags.Changed("count") {
				count = cfg.Count
			}
			if !flags.Changed("boundaries") {
				boundaries = cfg.Boundaries
			}
			if !flags.Changed("respect-boundaries") {
				respect = cfg.RespectBoundaries
			}
			if !flags.Changed("min-frequency") {
				minFreq = cfg.MinFrequency
			}
			if !flags.Changed("log-level") {
				logLevel = cfg.LogLevel
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(logLevel)}))

			return run(logger, args, runOptions{
				order:             order,
				maxTokens:         maxTokens,
				count:             count,
				minFrequency:      minFreq,
				boundaries:        boundaries,
				respectBoundaries: respect,
				seed:              seed,
				seedSet:           flags.Changed("seed"),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to a JSON config file (created with defaults if missing)")
	flags.IntVarP(&order, "order", "n", 1, "number of tokens of context used to predict the next token")
	flags.IntVarP(&maxTokens, "max-tokens", "m", 100, "maximum number of tokens per generated output")
	flags.IntVarP(&count, "count", "c", 1, "number of outputs to generate")
	flags.StringVarP(&boundaries, "boundaries", "b", boundariesLineEndings, "boundary mode: line-endings or sentence-endings")
	flags.BoolVarP(&respect, "respect-boundaries", "r", false, "start and stop generation at sentence boundaries")
	flags.Uint64VarP(&seed, "seed", "s", 0, "random seed for reproducible output")
	flags.IntVar(&minFreq, "min-frequency", 0, "prune transitions observed this many times or fewer")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	return cmd
}

func run(logger *slog.Logger, corpora []string, opts runOptions) error {
	tokenizer, err := newTokenizer(opts.boundaries)
	if err != nil {
		return err
	}

	builder, err := markov.NewBuilder(opts.order, tokenizer)
	if err != nil {
		return err
	}
	builder.SetLogger(logger)

	if len(corpora) == 0 {
		if err := builder.Train(os.Stdin); err != nil {
			return fmt.Errorf("training from stdin: %w", err)
		}
	} else {
		for _, path := range corpora {
			if err := trainFile(builder, path); err != nil {
				return err
			}
		}
	}

	if opts.minFrequency > 0 {
		if err := builder.Prune(opts.minFrequency); err != nil {
			return err
		}
	}

	model := builder.Model()
	stats := model.Stats()
	logger.Info("model trained",
		slog.Int("order", opts.order),
		slog.Int("states", stats.States),
		slog.Int("entries", stats.Entries),
		slog.Int("vocabulary", stats.VocabSize),
		slog.String("est_memory", humanize.IBytes(model.EstimatedSize())),
	)

	gen := markov.NewGenerator(model, tokenizer)
	gen.SetLogger(logger)

	for i := 0; i < opts.count; i++ {
		genOpts := []markov.GenerateOption{
			markov.WithMaxLength(opts.maxTokens),
			markov.WithBoundaryTermination(opts.respectBoundaries),
		}
		if opts.seedSet {
			// Offset the seed per output so one run produces distinct lines
			// while remaining reproducible end to end.
			genOpts = append(genOpts, markov.WithSeed(opts.seed+uint64(i)))
		}

		text, err := gen.GenerateText(genOpts...)
		if err != nil {
			return err
		}
		fmt.Println(text)
	}

	return nil
}

// newTokenizer builds the tokenizer matching the requested boundary mode.
func newTokenizer(boundaries string) (*markov.DefaultTokenizer, error) {
	switch boundaries {
	case boundariesLineEndings:
		return markov.NewDefaultTokenizer(markov.WithLineBoundaries(true)), nil
	case boundariesSentenceEndings:
		return markov.NewDefaultTokenizer(), nil
	default:
		return nil, fmt.Errorf("unknown boundaries mode %q (want %q or %q)", boundaries, boundariesLineEndings, boundariesSentenceEndings)
	}
}

func trainFile(builder *markov.Builder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if err := builder.Train(f); err != nil {
		return fmt.Errorf("training from %s: %w", path, err)
	}
	return nil
}
