package markov

import (
	"strings"
	"sync"
	"testing"
)

// plainTokens wraps words as tokens with no boundary flag set.
func plainTokens(words ...string) []Token {
	tokens := make([]Token, len(words))
	for i, word := range words {
		tokens[i] = Token{Text: word}
	}
	return tokens
}

// buildTestModel builds a model from plain word tokens, failing the test on
// any build error.
func buildTestModel(t *testing.T, order int, words ...string) *Model {
	t.Helper()
	model, err := BuildModel(plainTokens(words...), order)
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	return model
}

// trainedBuilder creates a Builder with a DefaultTokenizer configured by
// opts and trains it on the given corpus.
func trainedBuilder(t *testing.T, order int, corpus string, opts ...Option) *Builder {
	t.Helper()
	b, err := NewBuilder(order, NewDefaultTokenizer(opts...))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	if err := b.Train(strings.NewReader(corpus)); err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	return b
}

// successorTexts flattens a state's successor list into a text -> frequency map.
func successorTexts(t *testing.T, m *Model, state ...string) map[string]int {
	t.Helper()
	choices, _ := m.NextTokens(state)
	freqs := make(map[string]int, len(choices))
	for _, choice := range choices {
		text, ok := m.TokenText(choice.Id)
		if !ok {
			t.Fatalf("successor list references unknown token id %d", choice.Id)
		}
		freqs[text] = choice.Freq
	}
	return freqs
}

// stateTexts converts a slice of internal state keys back to token text, for
// asserting on starter selection.
func stateTexts(t *testing.T, m *Model, keys []string) [][]string {
	t.Helper()
	states := make([][]string, len(keys))
	for i, key := range keys {
		ids := parseStateKey(key)
		state := make([]string, len(ids))
		for j, id := range ids {
			text, ok := m.TokenText(id)
			if !ok {
				t.Fatalf("state key %q references unknown token id %d", key, id)
			}
			state[j] = text
		}
		states[i] = state
	}
	return states
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus builds a deterministic corpus large enough for
// meaningful training and generation benchmarks.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		sentences := "the quick brown fox jumps over the lazy dog. " +
			"pack my box with five dozen liquor jugs. " +
			"how vexingly quick daft zebras jump. " +
			"sphinx of black quartz, judge my vow. "
		benchmarkCorpus = strings.Repeat(sentences, 2000)
	})
	return benchmarkCorpus
}
