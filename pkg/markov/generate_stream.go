package markov

import (
	"context"
	"log/slog"
)

// GenerateStream walks the model and returns a read-only channel of Tokens.
// This allows for processing the generated text token-by-token, which is
// useful for real-time applications or when generating long sequences. The
// channel is closed once generation is complete or the context is cancelled.
//
// The same options and termination rules as Generate apply; emitted Tokens
// carry the Boundary flag so consumers can spot sentence edges themselves.
func (g *Generator) GenerateStream(ctx context.Context, opts ...GenerateOption) (<-chan Token, error) {
	options := newGenerateOptions(opts)

	if g.model.StateCount() == 0 {
		return nil, ErrEmptyModel
	}

	boundaries := g.boundaryIDs(options)
	window, err := g.startWindow(options)
	if err != nil {
		return nil, err
	}

	tokenChan := make(chan Token)

	go func() {
		defer close(tokenChan)

		generatedCount := 0
		for generatedCount < options.maxLength {
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "generation stream cancelled by context")
				return
			default:
				// continue
			}

			choices, totalFreq := g.model.nextByKey(stateKey(nil, window))
			if len(choices) == 0 { // Dead end in chain
				g.logger.DebugContext(ctx, "generation stream terminated at a dead end",
					slog.Int("generated_length", generatedCount),
				)
				return
			}

			next := chooseNextToken(choices, totalFreq, options.rng)
			text, _ := g.model.TokenText(next.Id)
			_, isBoundary := boundaries[next.Id]

			select {
			case <-ctx.Done():
				return
			case tokenChan <- Token{Text: text, Boundary: isBoundary}:
			}

			// Update the state by shifting the window and adding the new token.
			window = append(window[1:], next.Id)
			generatedCount++

			if options.respectBoundaries && isBoundary {
				g.logger.DebugContext(ctx, "generation stream terminated at a boundary token",
					slog.String("token", text),
					slog.Int("generated_length", generatedCount),
				)
				return
			}
		}
	}()

	return tokenChan, nil
}
