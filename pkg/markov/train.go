package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrInvalidOrder is returned when a model order below 1 is requested.
	ErrInvalidOrder = errors.New("markov: model order must be at least 1")
	// ErrBuilderSealed is returned when a Builder is used after Model has
	// been called on it.
	ErrBuilderSealed = errors.New("markov: builder is sealed")
)

// Builder accumulates token transitions into a Model. It slides a window of
// `order` tokens across the input with stride 1 and, for every full window
// with a successor, counts the transition window -> successor. Boundary
// tokens take part in transitions like any other token; the Builder only
// records, on the side, which states begin a sentence so that
// boundary-respecting generation can pick a plausible starting point.
//
// A Builder is not safe for concurrent use. Calling Model seals it: the
// returned Model takes ownership of the accumulated data and any further
// Add, Train or Prune call fails with ErrBuilderSealed.
type Builder struct {
	order     int
	tokenizer Tokenizer
	logger    *slog.Logger

	m *Model

	window       []int  // IDs of the most recent `order` tokens
	windowStarts []bool // whether each window slot begins a sentence

	bagIndex   map[string]map[int]int // state key -> token ID -> bag position
	starterSet map[string]struct{}

	prevBoundary bool
	seen         int
	sealed       bool
}

// NewBuilder creates a Builder for a model of the given order. The tokenizer
// is used by Train to split input streams; passing nil selects a
// DefaultTokenizer with default settings. An order below 1 fails with
// ErrInvalidOrder.
func NewBuilder(order int, tokenizer Tokenizer) (*Builder, error) {
	if order < 1 {
		return nil, ErrInvalidOrder
	}
	if tokenizer == nil {
		tokenizer = NewDefaultTokenizer()
	}
	return &Builder{
		order:     order,
		tokenizer: tokenizer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		m: &Model{
			order:      order,
			vocab:      make(map[string]int),
			chains:     make(map[string][]ChainToken),
			boundaries: make(map[int]struct{}),
		},
		window:       make([]int, 0, order),
		windowStarts: make([]bool, 0, order),
		bagIndex:     make(map[string]map[int]int),
		starterSet:   make(map[string]struct{}),
	}, nil
}

// SetLogger sets the logger for the Builder. By default, all logs are
// discarded.
func (b *Builder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// Add feeds one token to the Builder. Tokens must be added in corpus order.
func (b *Builder) Add(tok Token) error {
	if b.sealed {
		return ErrBuilderSealed
	}

	id := b.intern(tok.Text)
	if tok.Boundary {
		b.m.boundaries[id] = struct{}{}
	}
	startsSentence := b.seen == 0 || b.prevBoundary

	if len(b.window) == b.order {
		// Full window with a successor: count the transition.
		key := stateKey(nil, b.window)

		bagIdx, ok := b.bagIndex[key]
		if !ok {
			bagIdx = make(map[int]int)
			b.bagIndex[key] = bagIdx
			b.m.keys = append(b.m.keys, key)
		}
		if pos, ok := bagIdx[id]; ok {
			b.m.chains[key][pos].Freq++
		} else {
			bagIdx[id] = len(b.m.chains[key])
			b.m.chains[key] = append(b.m.chains[key], ChainToken{Id: id, Freq: 1})
		}
		b.m.entries++

		if b.windowStarts[0] {
			if _, ok := b.starterSet[key]; !ok {
				b.starterSet[key] = struct{}{}
				b.m.starters = append(b.m.starters, key)
			}
		}

		// Slide the window forward by one token.
		b.window = append(b.window[1:], id)
		b.windowStarts = append(b.windowStarts[1:], startsSentence)
	} else {
		b.window = append(b.window, id)
		b.windowStarts = append(b.windowStarts, startsSentence)
	}

	b.prevBoundary = tok.Boundary
	b.seen++
	return nil
}

// Train tokenizes a stream of text and feeds it to the Builder. The window
// carries across line breaks, so transitions spanning a newline are
// preserved. Train may be called multiple times to accumulate several
// corpora into one model.
func (b *Builder) Train(data io.Reader) error {
	if b.sealed {
		return ErrBuilderSealed
	}

	stream := b.tokenizer.NewStream(data)
	var tokenCount int
	for {
		tok, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("tokenizer error: %w", err)
		}
		if err := b.Add(*tok); err != nil {
			return err
		}
		tokenCount++
	}

	b.logger.Info("training pass completed",
		slog.Int("order", b.order),
		slog.Int("tokens", tokenCount),
		slog.Int("states", len(b.m.chains)),
		slog.Int("entries", b.m.entries),
	)
	return nil
}

// Model seals the Builder and returns the accumulated Model. The Model is
// immutable from this point on.
func (b *Builder) Model() *Model {
	b.sealed = true
	return b.m
}

// intern returns the vocabulary ID for a token's text, assigning a new one
// on first sight.
func (b *Builder) intern(text string) int {
	if id, ok := b.m.vocab[text]; ok {
		return id
	}
	id := len(b.m.words)
	b.m.words = append(b.m.words, text)
	b.m.vocab[text] = id
	return id
}

// BuildModel builds a Model from an already-tokenized sequence in a single
// left-to-right pass. A sequence with fewer than order+1 tokens yields an
// empty model (no states); that is not an error. An order below 1 fails with
// ErrInvalidOrder.
func BuildModel(tokens []Token, order int) (*Model, error) {
	b, err := NewBuilder(order, nil)
	if err != nil {
		return nil, err
	}
	for _, tok := range tokens {
		if err := b.Add(tok); err != nil {
			return nil, err
		}
	}
	return b.Model(), nil
}
