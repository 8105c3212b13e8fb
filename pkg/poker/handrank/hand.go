package handrank

import (
	"fmt"

	"pokerarena-server/pkg/deck"
)

// Hand is a poker hand category, i.e., royal flush
type Hand int

// Constants for hand
const (
	HighCard Hand = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand
func (h Hand) String() string {
	switch h {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	default:
		panic(fmt.Sprintf("unknown hand: %d", h))
	}
}

// standardOrder ranks categories for the 52-card deck
var standardOrder = []Hand{
	HighCard,
	OnePair,
	TwoPair,
	ThreeOfAKind,
	Straight,
	Flush,
	FullHouse,
	FourOfAKind,
	StraightFlush,
	RoyalFlush,
}

// shortDeckOrder promotes flushes above full houses and trips above straights.
// A short-deck suit only has nine cards, so flushes and trips are rarer than
// straights and full houses.
var shortDeckOrder = []Hand{
	HighCard,
	OnePair,
	TwoPair,
	Straight,
	ThreeOfAKind,
	FullHouse,
	Flush,
	FourOfAKind,
	StraightFlush,
	RoyalFlush,
}

var ordinals = buildOrdinals()

func buildOrdinals() map[deck.Variant]map[Hand]int {
	m := make(map[deck.Variant]map[Hand]int)
	for variant, order := range map[deck.Variant][]Hand{
		deck.Standard:  standardOrder,
		deck.ShortDeck: shortDeckOrder,
	} {
		m[variant] = make(map[Hand]int, len(order))
		for i, hand := range order {
			m[variant][hand] = i
		}
	}

	return m
}

// Ordinal returns the position of the hand in the variant's category
// ordering. A greater ordinal always beats a lesser one.
func (h Hand) Ordinal(variant deck.Variant) int {
	byHand, ok := ordinals[variant]
	if !ok {
		panic(fmt.Sprintf("unknown variant: %s", string(variant)))
	}

	return byHand[h]
}
