package markov

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestBuildModelOrderOne(t *testing.T) {
	m := buildTestModel(t, 1, "the", "cat", "sat", "on", "the", "mat", ".")

	want := map[string]map[string]int{
		"the": {"cat": 1, "mat": 1},
		"cat": {"sat": 1},
		"sat": {"on": 1},
		"on":  {"the": 1},
		"mat": {".": 1},
	}
	for state, wantFreqs := range want {
		got := successorTexts(t, m, state)
		if !reflect.DeepEqual(got, wantFreqs) {
			t.Errorf("successors of [%s] = %v, want %v", state, got, wantFreqs)
		}
	}

	if got := m.StateCount(); got != len(want) {
		t.Errorf("StateCount() = %d, want %d", got, len(want))
	}
	if got := m.EntryCount(); got != 6 {
		t.Errorf("EntryCount() = %d, want 6", got)
	}
}

func TestBuildModelOrderTwo(t *testing.T) {
	m := buildTestModel(t, 2, "a", "b", "c", "a", "b", "d")

	got := successorTexts(t, m, "a", "b")
	want := map[string]int{"c": 1, "d": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("successors of [a b] = %v, want %v", got, want)
	}

	choices, totalFreq := m.NextTokens([]string{"a", "b"})
	if len(choices) != 2 || totalFreq != 2 {
		t.Errorf("NextTokens([a b]) = %d choices with total %d, want 2 and 2", len(choices), totalFreq)
	}
}

func TestBuildModelCounts(t *testing.T) {
	testCases := []struct {
		name        string
		words       []string
		order       int
		wantEntries int
	}{
		{"seven tokens order one", []string{"the", "cat", "sat", "on", "the", "mat", "."}, 1, 6},
		{"seven tokens order two", []string{"the", "cat", "sat", "on", "the", "mat", "."}, 2, 5},
		{"length equals order", []string{"a", "b"}, 2, 0},
		{"length below order", []string{"a"}, 2, 0},
		{"empty input", nil, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := buildTestModel(t, tc.order, tc.words...)
			if got := m.EntryCount(); got != tc.wantEntries {
				t.Errorf("EntryCount() = %d, want %d", got, tc.wantEntries)
			}
			if tc.wantEntries == 0 && m.StateCount() != 0 {
				t.Errorf("StateCount() = %d, want 0 for a short corpus", m.StateCount())
			}
		})
	}
}

func TestBuildModelInvalidOrder(t *testing.T) {
	if _, err := BuildModel(plainTokens("a", "b"), 0); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("BuildModel(order=0) error = %v, want ErrInvalidOrder", err)
	}
	if _, err := NewBuilder(-1, nil); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("NewBuilder(order=-1) error = %v, want ErrInvalidOrder", err)
	}
}

func TestNoEmptySuccessorBags(t *testing.T) {
	corpora := []string{
		"one fish two fish. red fish blue fish.",
		"a b. a c. a d. b a.",
		"repetition repetition repetition repetition",
	}
	for _, corpus := range corpora {
		for order := 1; order <= 3; order++ {
			t.Run(fmt.Sprintf("order %d %.12s", order, corpus), func(t *testing.T) {
				m := trainedBuilder(t, order, corpus).Model()
				var entrySum int
				for key, bag := range m.chains {
					if len(bag) == 0 {
						t.Errorf("state %q has an empty successor bag", key)
					}
					for _, choice := range bag {
						entrySum += choice.Freq
					}
				}
				if entrySum != m.EntryCount() {
					t.Errorf("sum of frequencies = %d, EntryCount() = %d", entrySum, m.EntryCount())
				}
			})
		}
	}
}

func TestTrainStitchesAcrossLines(t *testing.T) {
	// The window carries over the newline, so b -> c must be recorded.
	m := trainedBuilder(t, 1, "a b\nc d").Model()

	got := successorTexts(t, m, "b")
	if !reflect.DeepEqual(got, map[string]int{"c": 1}) {
		t.Errorf("successors of [b] across a line break = %v, want {c: 1}", got)
	}
}

func TestTrainAccumulatesCorpora(t *testing.T) {
	b, err := NewBuilder(1, nil)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	if err := b.Train(strings.NewReader("a b")); err != nil {
		t.Fatalf("first Train() failed: %v", err)
	}
	if err := b.Train(strings.NewReader("a b")); err != nil {
		t.Fatalf("second Train() failed: %v", err)
	}
	m := b.Model()

	got := successorTexts(t, m, "a")
	if got["b"] != 2 {
		t.Errorf("frequency of a -> b after two passes = %d, want 2", got["b"])
	}
}

func TestTrainRecordsStarters(t *testing.T) {
	// "." is a boundary under the default tokenizer, so the states beginning
	// the corpus and the one right after the first "." are starters.
	m := trainedBuilder(t, 1, "a b. c d.").Model()

	starters := stateTexts(t, m, m.starters)
	want := [][]string{{"a"}, {"c"}}
	if !reflect.DeepEqual(starters, want) {
		t.Errorf("starters = %v, want %v", starters, want)
	}
}

func TestBuilderSealed(t *testing.T) {
	b := trainedBuilder(t, 1, "a b c")
	_ = b.Model()

	if err := b.Add(Token{Text: "d"}); !errors.Is(err, ErrBuilderSealed) {
		t.Errorf("Add() after Model() error = %v, want ErrBuilderSealed", err)
	}
	if err := b.Train(strings.NewReader("d e")); !errors.Is(err, ErrBuilderSealed) {
		t.Errorf("Train() after Model() error = %v, want ErrBuilderSealed", err)
	}
	if err := b.Prune(1); !errors.Is(err, ErrBuilderSealed) {
		t.Errorf("Prune() after Model() error = %v, want ErrBuilderSealed", err)
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := createBenchmarkCorpus()

	for _, order := range []int{1, 2, 3} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			b.SetBytes(int64(len(corpus)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				builder, err := NewBuilder(order, nil)
				if err != nil {
					b.Fatalf("NewBuilder() error = %v", err)
				}
				if err := builder.Train(strings.NewReader(corpus)); err != nil {
					b.Fatalf("Train() failed: %v", err)
				}
			}
		})
	}
}
