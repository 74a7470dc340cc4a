package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// ErrEmptyModel is returned when generation is attempted against a model
// with no learned states, e.g. one built from a corpus shorter than order+1
// tokens. It is the only hard generation failure; a dead end reached mid-walk
// simply ends the output.
var ErrEmptyModel = errors.New("markov: model has no states")

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	maxLength         int
	respectBoundaries bool
	boundaryTokens    []string
	startState        []string
	rng               *rand.Rand
}

// GenerateOption is a function that configures generation parameters. It's
// used as a variadic argument in generation functions like Generate and
// GenerateStream.
type GenerateOption func(*generateOptions)

// WithMaxLength sets the maximum number of tokens to generate. The
// generation may stop earlier at a dead end, or at a boundary token when
// boundary termination is enabled.
func WithMaxLength(n int) GenerateOption {
	return func(o *generateOptions) { o.maxLength = n }
}

// WithBoundaryTermination specifies whether the generation process stops
// immediately after emitting a boundary token, so output ends on a sentence
// edge. It also makes the random starting state be drawn from states that
// plausibly begin a sentence.
func WithBoundaryTermination(respect bool) GenerateOption {
	return func(o *generateOptions) { o.respectBoundaries = respect }
}

// WithBoundaryTokens overrides the set of tokens treated as sentence
// boundaries during generation. Without this option, the tokens the
// tokenizer flagged during training are used. Tokens not present in the
// model's vocabulary are ignored.
func WithBoundaryTokens(tokens ...string) GenerateOption {
	return func(o *generateOptions) { o.boundaryTokens = tokens }
}

// WithStartState sets an explicit starting state: exactly Order tokens of
// context. The start state itself is not emitted; generation begins with its
// successor. Without this option a starting state is chosen uniformly at
// random among the model's states.
func WithStartState(tokens ...string) GenerateOption {
	return func(o *generateOptions) { o.startState = tokens }
}

// WithSeed seeds the generation's randomness source. The same model, options
// and seed always reproduce the same output sequence.
func WithSeed(seed uint64) GenerateOption {
	return func(o *generateOptions) { o.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithRand supplies the randomness source directly. It takes precedence over
// WithSeed.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) {
		if r != nil {
			o.rng = r
		}
	}
}

// newGenerateOptions applies the defaults and the caller's options, and
// falls back to a randomly seeded source when none was supplied.
func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		maxLength: 100,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.rng == nil {
		options.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return options
}

// Generator produces token sequences by randomly walking an immutable Model.
// The zero overhead of sharing a Model means any number of Generators (or
// concurrent Generate calls with their own randomness source) can work from
// the same model at once.
type Generator struct {
	model     *Model
	tokenizer Tokenizer
	logger    *slog.Logger
}

// NewGenerator creates a Generator for the given model. The tokenizer is
// only consulted for separator rules when assembling text with GenerateText;
// passing nil selects a DefaultTokenizer with default settings.
func NewGenerator(model *Model, tokenizer Tokenizer) *Generator {
	if tokenizer == nil {
		tokenizer = NewDefaultTokenizer()
	}
	return &Generator{
		model:     model,
		tokenizer: tokenizer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are
// discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Generate walks the model and returns the generated tokens in order. It
// fails with ErrEmptyModel if the model has no states; every other early
// stop (dead end, boundary) is a normal, possibly short, result.
func (g *Generator) Generate(opts ...GenerateOption) ([]string, error) {
	options := newGenerateOptions(opts)

	if g.model.StateCount() == 0 {
		return nil, ErrEmptyModel
	}

	boundaries := g.boundaryIDs(options)
	window, err := g.startWindow(options)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, options.maxLength)
	for len(out) < options.maxLength {
		choices, totalFreq := g.model.nextByKey(stateKey(nil, window))
		if len(choices) == 0 { // Dead end in chain
			g.logger.Debug("generation terminated at a dead end",
				slog.Int("generated_length", len(out)),
			)
			break
		}

		next := chooseNextToken(choices, totalFreq, options.rng)
		text, _ := g.model.TokenText(next.Id)
		out = append(out, text)

		// Advance the state: drop the oldest token, append the new one.
		window = append(window[1:], next.Id)

		if options.respectBoundaries {
			if _, ok := boundaries[next.Id]; ok {
				g.logger.Debug("generation terminated at a boundary token",
					slog.String("token", text),
					slog.Int("generated_length", len(out)),
				)
				break
			}
		}
	}

	return out, nil
}

// GenerateText is a convenience wrapper around Generate that joins the
// generated tokens into a single string using the tokenizer's separator
// rules.
func (g *Generator) GenerateText(opts ...GenerateOption) (string, error) {
	tokens, err := g.Generate(opts...)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			builder.WriteString(g.tokenizer.Separator(tokens[i-1], tok))
		}
		builder.WriteString(tok)
	}
	return builder.String(), nil
}

// boundaryIDs resolves the boundary set for one generation run: an explicit
// override from WithBoundaryTokens, or the tokens flagged during training.
func (g *Generator) boundaryIDs(options *generateOptions) map[int]struct{} {
	if len(options.boundaryTokens) == 0 {
		return g.model.boundaries
	}
	ids := make(map[int]struct{}, len(options.boundaryTokens))
	for _, text := range options.boundaryTokens {
		if id, ok := g.model.TokenId(text); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// startWindow resolves the initial state window for one generation run. An
// explicit start state with a token the model has never seen is not an
// error: the first lookup will miss and the output will simply be empty.
func (g *Generator) startWindow(options *generateOptions) ([]int, error) {
	if len(options.startState) > 0 {
		if len(options.startState) != g.model.order {
			return nil, fmt.Errorf("markov: start state needs exactly %d tokens, got %d", g.model.order, len(options.startState))
		}
		window := make([]int, len(options.startState))
		for i, text := range options.startState {
			id, ok := g.model.TokenId(text)
			if !ok {
				id = -1 // never matches a real vocabulary ID
			}
			window[i] = id
		}
		return window, nil
	}

	keys := g.model.keys
	if options.respectBoundaries && len(g.model.starters) > 0 {
		keys = g.model.starters
	}
	return parseStateKey(keys[options.rng.IntN(len(keys))]), nil
}

// chooseNextToken samples one successor, with each token's probability
// proportional to its observed frequency.
func chooseNextToken(choices []ChainToken, totalFreq int, rng *rand.Rand) ChainToken {
	randChoice := rng.IntN(totalFreq)
	for _, choice := range choices {
		randChoice -= choice.Freq
		if randChoice < 0 {
			return choice
		}
	}
	return choices[len(choices)-1]
}
