// Package equity estimates win probabilities with fixed-iteration
// Monte Carlo rollouts.
package equity

import (
	"pokerarena-server/internal/rng"
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/handrank"
)

// DefaultTrials is the number of rollouts per estimate
const DefaultTrials = 200

// Estimator runs Monte Carlo rollouts against randomly dealt opponents
type Estimator struct {
	rng    rng.Generator
	trials int
}

// NewEstimator returns an Estimator using the supplied random source.
// A nil generator falls back to the crypto source.
func NewEstimator(generator rng.Generator) *Estimator {
	if generator == nil {
		generator = rng.Crypto{}
	}

	return &Estimator{
		rng:    generator,
		trials: DefaultTrials,
	}
}

// SetTrials overrides the trial count. Useful for tests that want
// tighter convergence.
func (e *Estimator) SetTrials(trials int) {
	e.trials = trials
}

// Estimate returns the percentage (0-100) of rollouts in which the
// caller's hand is not strictly beaten by any opponent. A tie with every
// opponent counts as a win.
func (e *Estimator) Estimate(holeCards, community []*deck.Card, opponents int, variant deck.Variant) float64 {
	if len(holeCards) < 2 {
		return 0
	}

	if opponents == 0 {
		return 100
	}

	remaining := remainingCards(holeCards, community, variant)

	wins := 0
	scratch := make([]*deck.Card, len(remaining))
	for i := 0; i < e.trials; i++ {
		copy(scratch, remaining)
		e.shuffle(scratch)

		if e.runTrial(scratch, holeCards, community, opponents, variant) {
			wins++
		}
	}

	return 100 * float64(wins) / float64(e.trials)
}

// runTrial deals the board out to five cards, gives each opponent two
// cards, and reports whether the caller beat or tied them all
func (e *Estimator) runTrial(shuffled, holeCards, community []*deck.Card, opponents int, variant deck.Variant) bool {
	next := 0

	board := make(deck.Hand, len(community), 5)
	copy(board, community)
	for len(board) < 5 {
		board.AddCard(shuffled[next])
		next++
	}

	caller := handrank.New(variant, append(board.Clone(), holeCards...))

	for i := 0; i < opponents; i++ {
		opponentCards := append(board.Clone(), shuffled[next], shuffled[next+1])
		next += 2

		if handrank.New(variant, opponentCards).Beats(caller) {
			return false
		}
	}

	return true
}

func (e *Estimator) shuffle(cards []*deck.Card) {
	for j := len(cards) - 1; j > 0; j-- {
		i := e.rng.Intn(j + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// remainingCards returns the variant's full deck minus every known card
func remainingCards(holeCards, community []*deck.Card, variant deck.Variant) []*deck.Card {
	known := make(deck.Hand, 0, len(holeCards)+len(community))
	known = append(known, holeCards...)
	known = append(known, community...)

	full := deck.New(variant).Cards
	remaining := make([]*deck.Card, 0, len(full))
	for _, card := range full {
		if !known.HasCard(card) {
			remaining = append(remaining, card)
		}
	}

	return remaining
}
