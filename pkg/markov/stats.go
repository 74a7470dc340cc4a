package markov

// ModelStats holds aggregated statistics for a single model.
type ModelStats struct {
	States    int // The number of distinct states, each with at least one successor.
	Entries   int // The sum of successor frequencies; the total number of trained transitions.
	VocabSize int // The number of unique tokens in the model's vocabulary.
	Starters  int // The number of states that can begin boundary-respecting generation.
}

// Stats returns a snapshot of the model's size counters.
func (m *Model) Stats() ModelStats {
	return ModelStats{
		States:    len(m.chains),
		Entries:   m.entries,
		VocabSize: len(m.words),
		Starters:  len(m.starters),
	}
}

// Rough per-element overheads used by EstimatedSize. They cover Go string
// headers and map/slice bookkeeping, not exact allocator behavior.
const (
	stringHeaderSize = 16
	mapEntryOverhead = 48
	chainTokenSize   = 16
)

// EstimatedSize returns a rough estimate of the model's in-memory footprint
// in bytes: vocabulary text, state keys, and successor lists, plus container
// overheads. It is intended for diagnostic display, not accounting.
func (m *Model) EstimatedSize() uint64 {
	var total uint64
	for _, word := range m.words {
		// Each word is held once in the words slice and referenced again by
		// the vocab map.
		total += uint64(len(word)) + 2*stringHeaderSize + mapEntryOverhead
	}
	for key, bag := range m.chains {
		total += uint64(len(key)) + stringHeaderSize + mapEntryOverhead
		total += uint64(len(bag)) * chainTokenSize
	}
	total += uint64(len(m.keys)+len(m.starters)) * stringHeaderSize
	total += uint64(len(m.boundaries)) * mapEntryOverhead
	return total
}
