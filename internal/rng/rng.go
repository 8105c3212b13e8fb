// Package rng provides the random number source injected into deck
// shuffling and the equity estimator.
package rng

// Generator produces random ints
type Generator interface {
	// Intn returns a random number in [0, n)
	Intn(n int) int
}
