package holdem

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/action"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSeats(n int) []Seat {
	names := []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi"}
	seats := make([]Seat, n)
	for i := 0; i < n; i++ {
		seats[i] = Seat{
			ID:   names[i],
			Name: names[i],
			Type: PlayerTypeHuman,
		}
	}

	return seats
}

func newTestGame(t *testing.T, n int) *Game {
	t.Helper()

	game, err := NewGame(testLogger(), testSeats(n), DefaultOptions())
	assert.NoError(t, err)

	return game
}

func chipTotal(g *Game) int {
	total := g.pot
	for _, p := range g.players {
		total += p.chips
	}

	return total
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	game, err := NewGame(testLogger(), testSeats(3), DefaultOptions())
	a.NoError(err)
	a.NotNil(game)
	a.True(game.HandOver())
	a.Equal(0, game.HandNumber())
	for _, p := range game.Players() {
		a.Equal(DefaultInitialChips, p.Chips())
	}

	game, err = NewGame(testLogger(), testSeats(1), DefaultOptions())
	a.EqualError(err, "holdem: table requires 2 to 8 players, got 1")
	a.Nil(game)

	game, err = NewGame(testLogger(), make([]Seat, 9), DefaultOptions())
	a.EqualError(err, "holdem: table requires 2 to 8 players, got 9")
	a.Nil(game)

	game, err = NewGame(testLogger(), testSeats(2), Options{Variant: deck.Standard})
	a.EqualError(err, "holdem: blinds and starting chips must be positive")
	a.Nil(game)
}

func TestGame_DealHand(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 4)
	a.NoError(game.DealHand(1))

	a.Equal(1, game.HandNumber())
	a.Equal(PhasePreFlop, game.Phase())
	a.Equal(0, game.DealerIndex())

	for _, p := range game.Players() {
		a.Len(p.HoleCards(), 2)
	}

	// blinds posted, big blind sets the table bet
	a.Equal(DefaultSmallBlind, game.players[1].CurrentBet())
	a.Equal(DefaultBigBlind, game.players[2].CurrentBet())
	a.Equal(DefaultSmallBlind+DefaultBigBlind, game.Pot())
	a.Equal(DefaultBigBlind, game.CurrentBet())
	a.Equal(2*DefaultBigBlind, game.MinRaise())
	a.Equal(1, game.RaiseCount())

	// under the gun acts first
	a.Equal("dave", game.CurrentTurn().ID)

	a.Equal(labelSmallBlind, game.players[1].LastAction())
	a.Equal(labelBigBlind, game.players[2].LastAction())
}

func TestGame_DealHand_rotatesDealer(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))
	a.Equal(0, game.DealerIndex())

	game.handOver = true
	a.NoError(game.DealHand(1))
	a.Equal(1, game.DealerIndex())

	game.handOver = true
	a.NoError(game.DealHand(1))
	a.Equal(2, game.DealerIndex())

	game.handOver = true
	a.NoError(game.DealHand(1))
	a.Equal(0, game.DealerIndex())
}

func TestGame_DealHand_bustedPlayerSitsOut(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	game.players[1].chips = 0
	a.NoError(game.DealHand(1))

	a.True(game.players[1].Folded())
	a.False(game.players[0].Folded())
	a.False(game.players[2].Folded())

	// the busted small blind posts nothing
	a.Equal(DefaultBigBlind, game.Pot())
}

func TestGame_DealHand_whileHandInProgress(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))
	a.Equal(ErrHandInProgress, game.DealHand(1))
}

func TestGame_Act_turnOrderEnforced(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.Equal(ErrNoBettingRound, game.Act("alice", action.Check, 0))

	a.NoError(game.DealHand(1))

	// dealer 0, sb 1, bb 2, first to act is the dealer (seat 0)
	a.Equal("alice", game.CurrentTurn().ID)
	a.Equal(ErrNotYourTurn, game.Act("bob", action.Call, 0))
	a.Equal(ErrPlayerNotFound, game.Act("nobody", action.Call, 0))
	a.Error(game.Act("alice", action.Action("jam"), 0))

	a.NoError(game.Act("alice", action.Call, 0))
	a.Equal("bob", game.CurrentTurn().ID)
}

func TestGame_Act_streetCompletion(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	total := chipTotal(game)

	// dealer raises to 300
	a.NoError(game.Act("alice", action.Raise, 300))
	a.Equal(300, game.CurrentBet())
	a.Equal(500, game.MinRaise())
	a.Equal(2, game.RaiseCount())
	a.False(game.StreetComplete())

	// small blind calls, big blind folds
	a.NoError(game.Act("bob", action.Call, 0))
	a.Equal(300, game.players[1].CurrentBet())
	a.False(game.StreetComplete())

	a.NoError(game.Act("carol", action.Fold, 0))
	a.True(game.StreetComplete())
	a.Nil(game.CurrentTurn())
	a.Equal(700, game.Pot())
	a.Equal(total, chipTotal(game))

	a.NoError(game.AdvancePhase())
	a.Equal(PhaseFlop, game.Phase())
	a.Len(game.Community(), 3)
	a.Equal(0, game.CurrentBet())
	a.Equal(DefaultBigBlind, game.MinRaise())
	a.Equal(0, game.RaiseCount())

	// first live seat after the dealer opens the flop
	a.Equal("bob", game.CurrentTurn().ID)
}

func TestGame_Act_bigBlindGetsOption(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	a.NoError(game.Act("alice", action.Call, 0))
	a.NoError(game.Act("bob", action.Call, 0))

	// everyone matched, but the big blind has not acted yet
	a.False(game.StreetComplete())
	a.Equal("carol", game.CurrentTurn().ID)

	a.NoError(game.Act("carol", action.Check, 0))
	a.True(game.StreetComplete())
}

func TestGame_Act_checkWithLiveBetBecomesCall(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	a.NoError(game.Act("alice", action.Check, 0))
	a.Equal(DefaultBigBlind, game.players[0].CurrentBet())
	a.Equal(action.Call.String(), game.players[0].LastAction())
}

func TestGame_Act_undersizedRaiseBecomesCall(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	// a raise that cannot exceed the table bet is a call
	a.NoError(game.Act("alice", action.Raise, 80))
	a.Equal(DefaultBigBlind, game.players[0].CurrentBet())
	a.Equal(DefaultBigBlind, game.CurrentBet())
	a.Equal(1, game.RaiseCount())
	a.Equal(action.Call.String(), game.players[0].LastAction())
}

func TestGame_Act_raiseClampedToStack(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	a.NoError(game.Act("alice", action.Raise, 99999999))
	a.Equal(0, game.players[0].Chips())
	a.True(game.players[0].AllIn())
	a.Equal(DefaultInitialChips, game.CurrentBet())
	a.Equal(action.AllIn.String(), game.players[0].LastAction())
}

func TestGame_Act_allInShort(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	// a short stack calling all-in for less does not reopen betting
	game.players[0].chips = 60
	a.NoError(game.Act("alice", action.Call, 0))
	a.True(game.players[0].AllIn())
	a.Equal(60, game.players[0].CurrentBet())
	a.Equal(DefaultBigBlind, game.CurrentBet())
}

func TestGame_allInShowdownRunout(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 2)
	a.NoError(game.DealHand(1))

	total := chipTotal(game)

	a.NoError(game.Act(game.CurrentTurn().ID, action.AllIn, 0))
	a.NoError(game.Act(game.CurrentTurn().ID, action.Call, 0))
	a.True(game.StreetComplete())

	// every remaining street deals without pausing for bets
	a.NoError(game.AdvancePhase())
	a.Equal(PhaseFlop, game.Phase())
	a.True(game.AllInShowdown())
	a.True(game.StreetComplete())
	a.Nil(game.CurrentTurn())

	a.NoError(game.AdvancePhase())
	a.Equal(PhaseTurn, game.Phase())

	a.NoError(game.AdvancePhase())
	a.Equal(PhaseRiver, game.Phase())
	a.Len(game.Community(), 5)

	a.NoError(game.AdvancePhase())
	a.Equal(PhaseShowdown, game.Phase())
	a.True(game.HandOver())
	a.NotEmpty(game.Winners())
	a.Equal(total, chipTotal(game)-game.Pot())
}

func TestGame_foldToOneEndsHand(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	a.NoError(game.Act("alice", action.Fold, 0))
	a.NoError(game.Act("bob", action.Fold, 0))
	a.True(game.StreetComplete())

	a.NoError(game.AdvancePhase())
	a.True(game.HandOver())
	a.Equal([]string{"carol"}, game.Winners())

	// the big blind wins back the blinds without a showdown
	a.Equal(DefaultInitialChips+DefaultSmallBlind, game.players[2].Chips())
	a.Empty(game.Community())
	a.Equal(labelWinner, game.players[2].LastAction())
}

func TestGame_AdvancePhase_errors(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.Equal(ErrHandOver, game.AdvancePhase())

	a.NoError(game.DealHand(1))
	a.Equal(ErrStreetNotDone, game.AdvancePhase())
}

func TestGame_resolve_splitPot(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	// both live players play the board's broadway straight
	game.community = deck.CardsFromString("10c,11d,12h,13s,14c")
	game.players[0].holeCards = deck.CardsFromString("2s,3c")
	game.players[1].holeCards = deck.CardsFromString("2d,3h")
	game.players[2].folded = true
	game.players[0].chips = 0
	game.players[1].chips = 0
	game.players[2].chips = 0

	game.pot = 301
	game.resolve()

	a.ElementsMatch([]string{"alice", "bob"}, game.Winners())
	a.Equal(150, game.players[0].Chips())
	a.Equal(150, game.players[1].Chips())
	a.Equal(0, game.players[2].Chips())
}

func TestGame_resolve_bestHandWins(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	game.community = deck.CardsFromString("2c,7d,9h,13s,3c")
	game.players[0].holeCards = deck.CardsFromString("13c,13d") // trip kings
	game.players[1].holeCards = deck.CardsFromString("14s,14c") // pair of aces
	game.players[2].holeCards = deck.CardsFromString("7s,2d")   // two pair
	game.pot = 900
	game.resolve()

	a.Equal([]string{"alice"}, game.Winners())
	a.True(game.HandOver())
}

func TestGame_Snapshot_masksHoleCards(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 3)
	a.NoError(game.DealHand(1))

	view := game.Snapshot("bob")
	a.Equal(PhasePreFlop, view.Phase)
	a.Equal(DefaultSmallBlind+DefaultBigBlind, view.Pot)
	a.Equal("alice", view.CurrentTurn)

	for _, pv := range view.Players {
		if pv.ID == "bob" {
			a.Len(pv.HoleCards, 2)
			a.NotEmpty(pv.HandName)
			continue
		}

		a.Nil(pv.HoleCards)
		a.Empty(pv.HandName)
	}

	// spectators see nothing until the hand resolves
	view = game.Snapshot("")
	for _, pv := range view.Players {
		a.Nil(pv.HoleCards)
	}

	a.NoError(game.Act("alice", action.Fold, 0))
	a.NoError(game.Act("bob", action.Fold, 0))
	a.NoError(game.AdvancePhase())

	view = game.Snapshot("")
	a.True(view.HandOver)
	for _, pv := range view.Players {
		a.Len(pv.HoleCards, 2)
	}
}

func TestGame_headsUpBlinds(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 2)
	a.NoError(game.DealHand(1))

	// seat after the button posts the small blind and acts first
	a.Equal(0, game.DealerIndex())
	a.Equal(DefaultSmallBlind, game.players[1].CurrentBet())
	a.Equal(DefaultBigBlind, game.players[0].CurrentBet())
	a.Equal("bob", game.CurrentTurn().ID)
}

func TestGame_LiveOpponents(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 4)
	a.NoError(game.DealHand(1))

	a.Equal(3, game.LiveOpponents("alice"))

	game.players[1].folded = true
	a.Equal(2, game.LiveOpponents("alice"))
	a.Equal(3, game.LiveOpponents("bob"))
}
