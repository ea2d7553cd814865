package engine

import "github.com/cardroom/holdem/poker"

// Option configures an Engine at construction time
type Option func(*Engine)

// WithDeckFactory overrides how the per-hand deck is created. Tests use
// this with poker.NewOrderedDeck to rig deterministic deals.
func WithDeckFactory(f func() *poker.Deck) Option {
	return func(e *Engine) {
		e.newDeck = f
	}
}
