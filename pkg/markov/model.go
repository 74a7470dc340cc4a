package markov

import (
	"strconv"
	"strings"
)

// ChainToken represents a potential next token for a given state, including
// its vocabulary ID and its frequency of occurrence after that state.
type ChainToken struct {
	Id   int
	Freq int
}

// Model is an immutable token-transition model. It maps every observed state
// (a fixed-length window of preceding tokens) to the tokens seen to follow
// it, with frequencies. A Model is produced by a Builder or by BuildModel and
// is never modified afterwards, so it may be shared by any number of
// concurrent generation runs without synchronization.
//
// States are keyed by their vocabulary IDs joined with spaces, so token text
// containing whitespace can never alias another state.
type Model struct {
	order int

	words []string       // token ID -> text
	vocab map[string]int // text -> token ID

	chains map[string][]ChainToken
	keys   []string // state keys in first-seen order

	// starters are the state keys whose window begins the corpus or
	// immediately follows a boundary token, in first-seen order. They are the
	// candidate start states for boundary-respecting generation.
	starters []string

	// boundaries are the vocabulary IDs of tokens the tokenizer flagged as
	// sentence boundaries during training.
	boundaries map[int]struct{}

	entries int
}

// Order returns the model order: the number of tokens of context used to
// predict the next token.
func (m *Model) Order() int {
	return m.order
}

// StateCount returns the number of distinct states in the model. Every
// counted state has at least one successor.
func (m *Model) StateCount() int {
	return len(m.chains)
}

// EntryCount returns the total number of successor occurrences recorded
// across all states; for a single-pass build this equals the number of
// transitions observed in the corpus.
func (m *Model) EntryCount() int {
	return m.entries
}

// VocabSize returns the number of unique tokens the model has seen.
func (m *Model) VocabSize() int {
	return len(m.words)
}

// TokenText looks up a vocabulary ID and returns its text. The second return
// value reports whether the ID is known.
func (m *Model) TokenText(id int) (string, bool) {
	if id < 0 || id >= len(m.words) {
		return "", false
	}
	return m.words[id], true
}

// TokenId looks up a token's text and returns its vocabulary ID. The second
// return value reports whether the token is known.
func (m *Model) TokenId(text string) (int, bool) {
	id, ok := m.vocab[text]
	return id, ok
}

// NextTokens returns all possible successor tokens for the given state along
// with the sum of their frequencies. The state must contain exactly Order
// tokens; a state of the wrong length, or one that was never observed,
// yields a nil slice and a total frequency of 0.
func (m *Model) NextTokens(state []string) ([]ChainToken, int) {
	if len(state) != m.order {
		return nil, 0
	}
	ids := make([]int, len(state))
	for i, text := range state {
		id, ok := m.vocab[text]
		if !ok {
			return nil, 0
		}
		ids[i] = id
	}
	return m.nextByKey(stateKey(nil, ids))
}

// nextByKey is the internal successor lookup used by the generation loops.
func (m *Model) nextByKey(key string) ([]ChainToken, int) {
	choices := m.chains[key]
	var totalFreq int
	for _, choice := range choices {
		totalFreq += choice.Freq
	}
	return choices, totalFreq
}

// isBoundary reports whether a vocabulary ID was flagged as a sentence
// boundary during training.
func (m *Model) isBoundary(id int) bool {
	_, ok := m.boundaries[id]
	return ok
}

// stateKey appends the space-joined representation of a window of token IDs
// to buf and returns it as a string. Passing a reused buffer avoids an
// allocation per lookup in the hot loops.
func stateKey(buf []byte, ids []int) string {
	buf = buf[:0]
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}

// parseStateKey is the inverse of stateKey.
func parseStateKey(key string) []int {
	parts := strings.Split(key, " ")
	ids := make([]int, len(parts))
	for i, part := range parts {
		id, _ := strconv.Atoi(part)
		ids[i] = id
	}
	return ids
}
