package holdem

import (
	"pokerarena-server/pkg/deck"
)

// PlayerType says who controls a seat
type PlayerType string

// player type constants
const (
	PlayerTypeHuman PlayerType = "human"
	PlayerTypeAI    PlayerType = "ai"
)

// display labels used outside the action vocabulary
const (
	labelSmallBlind = "SB"
	labelBigBlind   = "BB"
	labelWinner     = "WINNER!"
)

// Player is a seat at the table
type Player struct {
	ID       string
	Name     string
	Type     PlayerType
	Provider string
	Style    string

	chips      int
	holeCards  deck.Hand
	folded     bool
	allIn      bool
	currentBet int
	acted      bool
	lastAction string
}

// Chips returns the player's stack
func (p *Player) Chips() int {
	return p.chips
}

// HoleCards returns the player's hole cards
func (p *Player) HoleCards() deck.Hand {
	return p.holeCards
}

// Folded returns true if the player folded this hand
func (p *Player) Folded() bool {
	return p.folded
}

// AllIn returns true if the player is all-in
func (p *Player) AllIn() bool {
	return p.allIn
}

// CurrentBet returns the chips the player has committed this street
func (p *Player) CurrentBet() int {
	return p.currentBet
}

// HasActed returns true if the player acted this street
func (p *Player) HasActed() bool {
	return p.acted
}

// LastAction is the display label for the player's most recent action
func (p *Player) LastAction() string {
	return p.lastAction
}

// CanAct returns true if the player may still take actions this street
func (p *Player) CanAct() bool {
	return !p.folded && !p.allIn
}

// commit moves up to amount chips from the stack into the street bet and
// returns how many chips actually moved. Going broke marks the player
// all-in.
func (p *Player) commit(amount int) int {
	if amount > p.chips {
		amount = p.chips
	}

	p.chips -= amount
	p.currentBet += amount

	if p.chips == 0 && amount > 0 {
		p.allIn = true
	}

	return amount
}

// newStreet resets the per-street fields
func (p *Player) newStreet() {
	p.currentBet = 0
	p.acted = false
	p.lastAction = ""
}

// newHand resets the per-hand fields. Players without chips sit the hand
// out as folded.
func (p *Player) newHand() {
	p.holeCards = make(deck.Hand, 0, 2)
	p.folded = p.chips <= 0
	p.allIn = false
	p.newStreet()
}
