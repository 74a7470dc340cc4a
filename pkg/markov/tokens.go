package markov

import "io"

// Token represents a single tokenized unit of text. It contains the text
// itself and a flag indicating whether the token marks a sentence or
// utterance boundary (e.g. ".", "!", "?", or the last token of a line when
// line boundaries are enabled).
type Token struct {
	Text     string
	Boundary bool
}

// Tokenizer is an interface that defines the contract for splitting input
// text into tokens. This allows the core model and generation logic to be
// independent of the specific tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string that should be used to join two adjacent
	// tokens when assembling a final generated string, using the previous
	// and current tokens.
	Separator(prev, current string) string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (*Token, error)
}
