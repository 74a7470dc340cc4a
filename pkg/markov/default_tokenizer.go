package markov

import (
	"bufio"
	"io"
	"regexp"
)

// DefaultTokenizer is a default implementation of the Tokenizer interface.
// It uses regular expressions to split text into words and punctuation, and
// identifies sentence-ending punctuation as boundary tokens. Its behavior can
// be customized with functional options.
type DefaultTokenizer struct {
	separator         string
	splitRegex        *regexp.Regexp
	boundaryRegex     *regexp.Regexp
	separatorExcRegex *regexp.Regexp
	lineBoundaries    bool
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the string used for joining tokens during generation.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithSplitRegex sets the regex string to use when splitting input text.
// Default: `[\w']+|[.,!?;]`
func WithSplitRegex(splitRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.splitRegex = regexp.MustCompile(splitRegex)
	}
}

// WithBoundaryRegex sets the regex string to use when deciding whether a
// token marks a sentence boundary.
// Default: `^[.!?]$`
func WithBoundaryRegex(boundaryRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.boundaryRegex = regexp.MustCompile(boundaryRegex)
	}
}

// WithSeparatorExcRegex sets the regex string to use when deciding whether to
// omit the separator before a token during text assembly.
func WithSeparatorExcRegex(excRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.separatorExcRegex = regexp.MustCompile(excRegex)
	}
}

// WithLineBoundaries makes the tokenizer flag the last token of every input
// line as a boundary, in addition to tokens matched by the boundary regex.
// This suits corpora where a line is one utterance, such as play transcripts
// or chat logs.
func WithLineBoundaries(enabled bool) Option {
	return func(t *DefaultTokenizer) {
		t.lineBoundaries = enabled
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which
// can be overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator: " ",
		// This regex finds sequences of word characters (letters, numbers, underscore)
		// OR single instances of common punctuation.
		splitRegex: regexp.MustCompile(`[\w']+|[.,!?;]`),
		// This regex checks if a token is one of the sentence-ending punctuation marks.
		boundaryRegex: regexp.MustCompile(`^[.!?]$`),
		// This regex checks for characters that don't get a separator put before them.
		separatorExcRegex: regexp.MustCompile(`^[.,!?;]`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator Returns the configured separator string, or nothing when the next
// token attaches directly to the previous one (e.g. punctuation).
func (t *DefaultTokenizer) Separator(_, next string) string {
	if t.separatorExcRegex.MatchString(next) {
		return ""
	}
	return t.separator
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	return &DefaultStreamTokenizer{
		scanner:        bufio.NewScanner(r),
		buffer:         []string{},
		splitRegex:     t.splitRegex,
		boundaryRegex:  t.boundaryRegex,
		lineBoundaries: t.lineBoundaries,
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer
// interface. It uses a bufio.Scanner and regular expressions to read and
// tokenize a stream line by line.
type DefaultStreamTokenizer struct {
	scanner        *bufio.Scanner
	buffer         []string
	splitRegex     *regexp.Regexp
	boundaryRegex  *regexp.Regexp
	lineBoundaries bool
}

// Next returns the next token from the stream. It returns a Token and a nil
// error on success. When the stream is exhausted, it returns a nil Token and
// io.EOF. Any other error indicates a problem reading from the underlying
// stream.
func (s *DefaultStreamTokenizer) Next() (*Token, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.buffer = s.splitRegex.FindAllString(s.scanner.Text(), -1)
	}

	// We have tokens in the buffer. Process the next one.
	word := s.buffer[0]
	s.buffer = s.buffer[1:] // Consume the token

	boundary := s.boundaryRegex.MatchString(word)
	if s.lineBoundaries && len(s.buffer) == 0 {
		// Last token of the line closes the utterance.
		boundary = true
	}

	return &Token{Text: word, Boundary: boundary}, nil
}
