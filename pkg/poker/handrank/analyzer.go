package handrank

import (
	"sort"

	"pokerarena-server/pkg/deck"
)

// tiebreakBase is the base of the positional tiebreak value. Ranks run
// 2..14, so each of the five positions fits in a single base-15 digit.
const tiebreakBase = 15

// categoryWeight is 15^5, one above the largest possible tiebreak
const categoryWeight = tiebreakBase * tiebreakBase * tiebreakBase * tiebreakBase * tiebreakBase

// HandAnalyzer finds the best five-card hand in a set of cards under a
// variant's category ordering
type HandAnalyzer struct {
	variant  deck.Variant
	hand     Hand
	tiebreak int
}

// New returns a new HandAnalyzer for the cards.
// Fewer than five cards yields the degenerate high-card hand with a zero
// tiebreak, which is what the table displays before the flop.
func New(variant deck.Variant, cards []*deck.Card) *HandAnalyzer {
	h := &HandAnalyzer{
		variant: variant,
		hand:    HighCard,
	}

	if len(cards) < 5 {
		return h
	}

	best := -1
	forEachFiveCardSubset(cards, func(combo []*deck.Card) {
		hand, tiebreak := evaluateFiveCards(variant, combo)
		if strength := hand.Ordinal(variant)*categoryWeight + tiebreak; strength > best {
			best = strength
			h.hand = hand
			h.tiebreak = tiebreak
		}
	})

	return h
}

// GetHand returns the best hand category the cards can make
func (h *HandAnalyzer) GetHand() Hand {
	return h.hand
}

// GetTiebreak returns the positional tiebreak value. Two hands of the
// same category compare correctly by this value alone.
func (h *HandAnalyzer) GetTiebreak() int {
	return h.tiebreak
}

// GetStrength returns a single value ordering any two hands under the
// analyzer's variant
func (h *HandAnalyzer) GetStrength() int {
	return h.hand.Ordinal(h.variant)*categoryWeight + h.tiebreak
}

// Beats returns true if h strictly beats other
func (h *HandAnalyzer) Beats(other *HandAnalyzer) bool {
	return h.GetStrength() > other.GetStrength()
}

// forEachFiveCardSubset visits every 5-card subset of the cards.
// With seven cards that is C(7,5) = 21 visits.
func forEachFiveCardSubset(cards []*deck.Card, visit func([]*deck.Card)) {
	n := len(cards)
	combo := make([]*deck.Card, 5)

	var backtrack func(start, depth int)
	backtrack = func(start, depth int) {
		if depth == 5 {
			visit(combo)
			return
		}

		for i := start; i <= n-(5-depth); i++ {
			combo[depth] = cards[i]
			backtrack(i+1, depth+1)
		}
	}

	backtrack(0, 0)
}

// evaluateFiveCards scores exactly five cards
func evaluateFiveCards(variant deck.Variant, cards []*deck.Card) (Hand, int) {
	ranks := make([]int, 5)
	for i, card := range cards {
		ranks[i] = card.Rank
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	isFlush := true
	for _, card := range cards[1:] {
		if card.Suit != cards[0].Suit {
			isFlush = false
			break
		}
	}

	rankCounts := make(map[int]int)
	for _, rank := range ranks {
		rankCounts[rank]++
	}

	isStraight, isWheel := checkStraight(variant, ranks, rankCounts)
	if isWheel {
		// the ace plays low, so the straight ranks below every other straight
		for i, rank := range ranks {
			if rank == deck.Ace {
				ranks[i] = deck.LowAce
			}
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	}

	counts := countSignature(rankCounts)

	switch {
	case isStraight && isFlush:
		if ranks[0] == deck.Ace && ranks[1] == deck.King {
			return RoyalFlush, positionalValue(ranks)
		}
		return StraightFlush, positionalValue(ranks)
	case counts[0] == 4:
		return FourOfAKind, groupedValue(rankCounts)
	case counts[0] == 3 && counts[1] == 2:
		return FullHouse, groupedValue(rankCounts)
	case isFlush:
		return Flush, positionalValue(ranks)
	case isStraight:
		return Straight, positionalValue(ranks)
	case counts[0] == 3:
		return ThreeOfAKind, groupedValue(rankCounts)
	case counts[0] == 2 && counts[1] == 2:
		return TwoPair, groupedValue(rankCounts)
	case counts[0] == 2:
		return OnePair, groupedValue(rankCounts)
	}

	return HighCard, positionalValue(ranks)
}

// checkStraight reports whether the five ranks form a straight, and
// whether the straight is the variant's ace-low wheel. The wheel is
// {A,2,3,4,5} in a standard deck and {A,6,7,8,9} in a short deck, since
// the six is the lowest rank present there.
func checkStraight(variant deck.Variant, sortedRanks []int, rankCounts map[int]int) (isStraight, isWheel bool) {
	if len(rankCounts) != 5 {
		return false, false
	}

	if sortedRanks[0]-sortedRanks[4] == 4 {
		return true, false
	}

	if sortedRanks[0] != deck.Ace {
		return false, false
	}

	low := variant.LowestRank()
	for rank := low; rank < low+4; rank++ {
		if rankCounts[rank] == 0 {
			return false, false
		}
	}

	return true, true
}

// countSignature returns the rank-group sizes sorted descending,
// e.g. a full house yields [3,2,...]
func countSignature(rankCounts map[int]int) []int {
	counts := make([]int, 0, len(rankCounts))
	for _, count := range rankCounts {
		counts = append(counts, count)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	return counts
}

// positionalValue weighs the sorted ranks by position
func positionalValue(sortedRanks []int) int {
	value := 0
	for _, rank := range sortedRanks {
		value = value*tiebreakBase + rank
	}

	return value
}

// groupedValue weighs ranks by group size first, then by rank, so quads,
// trips and pairs come before kickers
func groupedValue(rankCounts map[int]int) int {
	type group struct {
		rank  int
		count int
	}

	groups := make([]group, 0, len(rankCounts))
	for rank, count := range rankCounts {
		groups = append(groups, group{rank: rank, count: count})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	value := 0
	digits := 0
	for _, g := range groups {
		value = value*tiebreakBase + g.rank
		digits++
	}

	// pad out to five digits so values from different group shapes
	// stay comparable
	for ; digits < 5; digits++ {
		value *= tiebreakBase
	}

	return value
}
