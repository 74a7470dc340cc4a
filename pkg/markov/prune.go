package markov

import "log/slog"

// Prune removes transitions observed minFreq times or fewer from the model
// under construction. This is useful for shrinking a model by dropping rare,
// and often noisy, transitions. States left without any successor are
// removed entirely, along with their starter entries, so the invariant that
// every state has a non-empty successor list is preserved. The vocabulary is
// left untouched.
//
// A minFreq below 1 is a no-op. Prune fails with ErrBuilderSealed once Model
// has been called.
func (b *Builder) Prune(minFreq int) error {
	if b.sealed {
		return ErrBuilderSealed
	}
	if minFreq < 1 {
		return nil
	}

	var linksRemoved, statesRemoved int
	for key, bag := range b.m.chains {
		kept := bag[:0]
		for _, choice := range bag {
			if choice.Freq > minFreq {
				kept = append(kept, choice)
			} else {
				b.m.entries -= choice.Freq
				linksRemoved++
			}
		}

		if len(kept) == 0 {
			delete(b.m.chains, key)
			delete(b.bagIndex, key)
			delete(b.starterSet, key)
			statesRemoved++
			continue
		}

		b.m.chains[key] = kept
		// Re-index the surviving successors.
		bagIdx := make(map[int]int, len(kept))
		for i, choice := range kept {
			bagIdx[choice.Id] = i
		}
		b.bagIndex[key] = bagIdx
	}

	if statesRemoved > 0 {
		b.m.keys = filterKeys(b.m.keys, b.m.chains)
		b.m.starters = filterKeys(b.m.starters, b.m.chains)
	}

	b.logger.Info("model pruned",
		slog.Int("min_frequency", minFreq),
		slog.Int("links_removed", linksRemoved),
		slog.Int("states_removed", statesRemoved),
	)
	return nil
}

// filterKeys keeps, in order, only the keys still present in chains.
func filterKeys(keys []string, chains map[string][]ChainToken) []string {
	kept := keys[:0]
	for _, key := range keys {
		if _, ok := chains[key]; ok {
			kept = append(kept, key)
		}
	}
	return kept
}
