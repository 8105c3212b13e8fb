// Package holdem implements the Texas hold'em hand lifecycle: dealing,
// blinds, the betting rounds on each street, and the showdown.
package holdem

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/action"
	"pokerarena-server/pkg/poker/handrank"
)

// default table stakes
const (
	DefaultSmallBlind   = 50
	DefaultBigBlind     = 100
	DefaultInitialChips = 10000
)

// seat count limits
const (
	minPlayers = 2
	maxPlayers = 8
)

// errors a caller may act on
var (
	ErrNotYourTurn    = errors.New("holdem: not your turn")
	ErrNoBettingRound = errors.New("holdem: no betting round in progress")
	ErrHandOver       = errors.New("holdem: hand is over")
	ErrStreetNotDone  = errors.New("holdem: betting round still in progress")
	ErrPlayerNotFound = errors.New("holdem: player not found")
	ErrHandInProgress = errors.New("holdem: hand still in progress")
)

// Options configures a table
type Options struct {
	Variant      deck.Variant
	SmallBlind   int
	BigBlind     int
	InitialChips int
}

// DefaultOptions returns the standard table configuration
func DefaultOptions() Options {
	return Options{
		Variant:      deck.Standard,
		SmallBlind:   DefaultSmallBlind,
		BigBlind:     DefaultBigBlind,
		InitialChips: DefaultInitialChips,
	}
}

// Seat names a participant joining a game
type Seat struct {
	ID       string
	Name     string
	Type     PlayerType
	Provider string
	Style    string
}

// LogEntry records one action in the hand log
type LogEntry struct {
	PlayerID   string        `json:"playerId"`
	PlayerName string        `json:"playerName"`
	Label      string        `json:"label"`
	Amount     int           `json:"amount"`
	Phase      Phase         `json:"phase"`
	Action     action.Action `json:"action,omitempty"`
}

// Game is a hold'em table. It is not safe for concurrent use; callers
// must serialize access.
type Game struct {
	log     logrus.FieldLogger
	options Options
	players []*Player
	deck    *deck.Deck

	community  deck.Hand
	pot        int
	currentBet int
	minRaise   int
	raiseCount int

	dealerIndex  int
	currentIndex int
	phase        Phase

	handNumber     int
	handLog        []*LogEntry
	streetComplete bool
	handOver       bool
	allInShowdown  bool
	winners        []string
}

// NewGame creates a table with every seat given the starting stack. No
// cards are dealt until DealHand is called.
func NewGame(logger logrus.FieldLogger, seats []Seat, options Options) (*Game, error) {
	if len(seats) < minPlayers || len(seats) > maxPlayers {
		return nil, fmt.Errorf("holdem: table requires %d to %d players, got %d", minPlayers, maxPlayers, len(seats))
	}

	if options.SmallBlind <= 0 || options.BigBlind <= 0 || options.InitialChips <= 0 {
		return nil, errors.New("holdem: blinds and starting chips must be positive")
	}

	players := make([]*Player, len(seats))
	for i, seat := range seats {
		players[i] = &Player{
			ID:       seat.ID,
			Name:     seat.Name,
			Type:     seat.Type,
			Provider: seat.Provider,
			Style:    seat.Style,
			chips:    options.InitialChips,
		}
	}

	return &Game{
		log:          logger,
		options:      options,
		players:      players,
		dealerIndex:  -1,
		currentIndex: -1,
		phase:        PhaseShowdown,
		handOver:     true,
	}, nil
}

// DealHand starts a new hand: rotates the dealer button, shuffles a
// fresh deck, posts the blinds, and deals two hole cards to every seat
// still holding chips. Seed semantics follow deck.Shuffle.
func (g *Game) DealHand(seed int64) error {
	if !g.handOver && g.handNumber > 0 {
		return ErrHandInProgress
	}

	g.deck = deck.New(g.options.Variant)
	g.deck.Shuffle(seed)

	if g.dealerIndex < 0 {
		g.dealerIndex = 0
	} else {
		g.dealerIndex = (g.dealerIndex + 1) % len(g.players)
	}

	for _, p := range g.players {
		p.newHand()
	}

	// two passes around the table, like a live deal
	for pass := 0; pass < 2; pass++ {
		for offset := 1; offset <= len(g.players); offset++ {
			p := g.players[(g.dealerIndex+offset)%len(g.players)]
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			p.holeCards.AddCard(card)
		}
	}

	g.community = make(deck.Hand, 0, 5)
	g.pot = 0
	g.handLog = nil
	g.phase = PhasePreFlop
	g.streetComplete = false
	g.handOver = false
	g.allInShowdown = false
	g.winners = nil
	g.handNumber++

	sb := g.players[(g.dealerIndex+1)%len(g.players)]
	bb := g.players[(g.dealerIndex+2)%len(g.players)]
	g.postBlind(sb, g.options.SmallBlind, labelSmallBlind)
	g.postBlind(bb, g.options.BigBlind, labelBigBlind)

	g.currentBet = g.options.BigBlind
	g.minRaise = 2 * g.options.BigBlind
	g.raiseCount = 1

	g.currentIndex = g.nextActor(g.dealerIndex + 2)
	if g.currentIndex < 0 {
		g.streetComplete = true
	}

	g.log.WithFields(logrus.Fields{
		"hand":    g.handNumber,
		"dealer":  g.players[g.dealerIndex].Name,
		"variant": g.options.Variant,
	}).Info("dealt new hand")

	return nil
}

// postBlind commits a forced bet capped at the player's stack
func (g *Game) postBlind(p *Player, amount int, label string) {
	if p.folded {
		return
	}

	paid := p.commit(amount)
	g.pot += paid
	p.lastAction = label
	g.appendLog(p, label, paid, "")
}

// Act applies a player's action. Acting out of turn is an error; the
// action itself is never rejected, an illegal request is reinterpreted
// as the nearest legal one.
func (g *Game) Act(playerID string, act action.Action, amount int) error {
	if g.handOver || g.streetComplete || g.phase == PhaseShowdown {
		return ErrNoBettingRound
	}

	index, p := g.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	if index != g.currentIndex {
		return ErrNotYourTurn
	}

	if !act.IsValid() {
		return fmt.Errorf("holdem: unknown action %q", string(act))
	}

	applied, paid := g.apply(p, act, amount)
	p.acted = true
	p.lastAction = applied.String()
	g.appendLog(p, applied.String(), paid, applied)

	g.log.WithFields(logrus.Fields{
		"player": p.Name,
		"action": applied,
		"amount": paid,
		"pot":    g.pot,
	}).Debug(applied.LogMessage(paid))

	if g.streetSettled() {
		g.streetComplete = true
		g.currentIndex = -1
		return nil
	}

	g.currentIndex = g.nextActor(index)
	if g.currentIndex < 0 {
		g.streetComplete = true
	}

	return nil
}

// apply mutates the player and pot for the requested action and returns
// the action actually taken plus the chips that moved
func (g *Game) apply(p *Player, act action.Action, amount int) (action.Action, int) {
	switch {
	case act == action.Fold:
		p.folded = true
		return action.Fold, 0

	case act == action.Check:
		if p.currentBet == g.currentBet {
			return action.Check, 0
		}
		// checking a live bet becomes a call
		return g.applyCall(p)

	case act == action.Call:
		return g.applyCall(p)

	case act.IsRaiseClass():
		return g.applyRaise(p, act, amount)
	}

	return g.applyCall(p)
}

func (g *Game) applyCall(p *Player) (action.Action, int) {
	owed := g.currentBet - p.currentBet
	if owed < 0 {
		owed = 0
	}

	paid := p.commit(owed)
	g.pot += paid

	if p.allIn {
		return action.AllIn, paid
	}

	return action.Call, paid
}

// applyRaise handles the raise family. The amount is the total street
// bet the player wants to reach; all-in ignores it and shoves the whole
// stack. A raise that cannot exceed the table bet collapses to a call.
func (g *Game) applyRaise(p *Player, act action.Action, amount int) (action.Action, int) {
	target := amount
	if act == action.AllIn {
		target = p.currentBet + p.chips
	}

	if max := p.currentBet + p.chips; target > max {
		target = max
	}

	if target <= g.currentBet {
		return g.applyCall(p)
	}

	paid := p.commit(target - p.currentBet)
	g.pot += paid

	previousBet := g.currentBet
	g.currentBet = target
	g.minRaise = target + (target - previousBet)
	g.raiseCount++

	if p.allIn {
		return action.AllIn, paid
	}

	return act, paid
}

// streetSettled reports whether the betting round is finished: one
// player left, nobody who can still bet, or every live bettor has acted
// and matched the table bet
func (g *Game) streetSettled() bool {
	active := 0
	bettors := 0
	settled := true
	for _, p := range g.players {
		if p.folded {
			continue
		}

		active++
		if p.allIn {
			continue
		}

		bettors++
		if !p.acted || p.currentBet != g.currentBet {
			settled = false
		}
	}

	return active <= 1 || bettors == 0 || settled
}

// nextActor finds the next seat after from that can still act, or -1
func (g *Game) nextActor(from int) int {
	for offset := 1; offset <= len(g.players); offset++ {
		index := (from + offset) % len(g.players)
		if g.players[index].CanAct() {
			return index
		}
	}

	return -1
}

// AdvancePhase moves the hand to the next street, dealing the community
// cards it opens with. If at most one player remains unfolded, or the
// street advances past the river, the hand resolves instead.
func (g *Game) AdvancePhase() error {
	if g.handOver {
		return ErrHandOver
	}

	if !g.streetComplete {
		return ErrStreetNotDone
	}

	if g.livePlayers() <= 1 {
		g.resolve()
		return nil
	}

	next := g.phase.Next()
	for i := 0; i < next.cardsOnEntry(); i++ {
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}

		g.community.AddCard(card)
	}

	if next == PhaseShowdown {
		g.phase = next
		g.resolve()
		return nil
	}

	for _, p := range g.players {
		p.newStreet()
	}

	g.phase = next
	g.currentBet = 0
	g.minRaise = g.options.BigBlind
	g.raiseCount = 0
	g.streetComplete = false

	g.currentIndex = g.nextActor(g.dealerIndex)
	if g.currentIndex < 0 || g.countCanAct() <= 1 {
		// betting is closed for the rest of the hand; the board runs out
		g.allInShowdown = true
		g.streetComplete = true
		g.currentIndex = -1
	}

	return nil
}

// resolve awards the pot to the best live hand (split evenly on ties,
// remainders truncated) and ends the hand
func (g *Game) resolve() {
	var best *handrank.HandAnalyzer
	var winners []*Player
	for _, p := range g.players {
		if p.folded {
			continue
		}

		analyzer := handrank.New(g.options.Variant, append(g.community.Clone(), p.holeCards...))
		switch {
		case best == nil || analyzer.Beats(best):
			best = analyzer
			winners = []*Player{p}
		case analyzer.GetStrength() == best.GetStrength():
			winners = append(winners, p)
		}
	}

	share := 0
	if len(winners) > 0 {
		share = g.pot / len(winners)
	}

	g.winners = make([]string, 0, len(winners))
	for _, w := range winners {
		w.chips += share
		w.lastAction = labelWinner
		g.winners = append(g.winners, w.ID)
		g.appendLog(w, labelWinner, share, "")
	}

	g.phase = PhaseShowdown
	g.currentIndex = -1
	g.streetComplete = true
	g.handOver = true
	g.allInShowdown = false

	g.log.WithFields(logrus.Fields{
		"hand":    g.handNumber,
		"winners": g.winners,
		"pot":     g.pot,
		"share":   share,
	}).Info("hand resolved")
}

func (g *Game) appendLog(p *Player, label string, amount int, act action.Action) {
	g.handLog = append(g.handLog, &LogEntry{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Label:      label,
		Amount:     amount,
		Phase:      g.phase,
		Action:     act,
	})
}

func (g *Game) playerByID(id string) (int, *Player) {
	for i, p := range g.players {
		if p.ID == id {
			return i, p
		}
	}

	return -1, nil
}

func (g *Game) livePlayers() int {
	count := 0
	for _, p := range g.players {
		if !p.folded {
			count++
		}
	}

	return count
}

func (g *Game) countCanAct() int {
	count := 0
	for _, p := range g.players {
		if p.CanAct() {
			count++
		}
	}

	return count
}

// Options returns the table configuration
func (g *Game) Options() Options {
	return g.options
}

// Phase returns the current street
func (g *Game) Phase() Phase {
	return g.phase
}

// Pot returns the chips in the pot this hand
func (g *Game) Pot() int {
	return g.pot
}

// CurrentBet returns the table bet on this street
func (g *Game) CurrentBet() int {
	return g.currentBet
}

// MinRaise returns the smallest total bet a raise must reach
func (g *Game) MinRaise() int {
	return g.minRaise
}

// RaiseCount returns the number of raises this street, blinds included
func (g *Game) RaiseCount() int {
	return g.raiseCount
}

// Community returns the shared board cards
func (g *Game) Community() deck.Hand {
	return g.community
}

// Players returns the seats in table order
func (g *Game) Players() []*Player {
	return g.players
}

// CurrentTurn returns the player due to act, or nil if betting is closed
func (g *Game) CurrentTurn() *Player {
	if g.currentIndex < 0 {
		return nil
	}

	return g.players[g.currentIndex]
}

// DealerIndex returns the seat holding the button
func (g *Game) DealerIndex() int {
	return g.dealerIndex
}

// HandNumber returns how many hands have been dealt
func (g *Game) HandNumber() int {
	return g.handNumber
}

// StreetComplete reports whether the betting round has finished and the
// hand is waiting on AdvancePhase
func (g *Game) StreetComplete() bool {
	return g.streetComplete
}

// HandOver reports whether the hand has resolved
func (g *Game) HandOver() bool {
	return g.handOver
}

// AllInShowdown reports that no further betting is possible and the
// remaining streets should be dealt out without pausing for actions
func (g *Game) AllInShowdown() bool {
	return g.allInShowdown
}

// Winners returns the IDs of the players awarded the last pot
func (g *Game) Winners() []string {
	return g.winners
}

// HandLog returns the action log for the current hand
func (g *Game) HandLog() []*LogEntry {
	return g.handLog
}

// LiveOpponents returns how many unfolded players oppose the given seat
func (g *Game) LiveOpponents(playerID string) int {
	count := 0
	for _, p := range g.players {
		if p.ID != playerID && !p.folded {
			count++
		}
	}

	return count
}
