package holdem

import (
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/handrank"
)

// PlayerView is a seat as seen by one viewer. Hole cards are nil unless
// the seat belongs to the viewer or the hand has resolved.
type PlayerView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       PlayerType `json:"type"`
	Provider   string     `json:"provider,omitempty"`
	Style      string     `json:"style,omitempty"`
	Chips      int        `json:"chips"`
	CurrentBet int        `json:"currentBet"`
	Folded     bool       `json:"folded"`
	AllIn      bool       `json:"allIn"`
	Acted      bool       `json:"acted"`
	LastAction string     `json:"lastAction,omitempty"`
	IsTurn     bool       `json:"isTurn"`
	IsDealer   bool       `json:"isDealer"`
	HoleCards  deck.Hand  `json:"holeCards,omitempty"`
	HandName   string     `json:"handName,omitempty"`
}

// TableView is the game state as seen by one viewer
type TableView struct {
	Variant       deck.Variant  `json:"variant"`
	Phase         Phase         `json:"phase"`
	Community     deck.Hand     `json:"community"`
	Pot           int           `json:"pot"`
	CurrentBet    int           `json:"currentBet"`
	MinRaise      int           `json:"minRaise"`
	RaiseCount    int           `json:"raiseCount"`
	SmallBlind    int           `json:"smallBlind"`
	BigBlind      int           `json:"bigBlind"`
	HandNumber    int           `json:"handNumber"`
	DealerIndex   int           `json:"dealerIndex"`
	CurrentTurn   string        `json:"currentTurn,omitempty"`
	AllInShowdown bool          `json:"allInShowdown"`
	HandOver      bool          `json:"handOver"`
	Winners       []string      `json:"winners,omitempty"`
	Players       []*PlayerView `json:"players"`
	Log           []*LogEntry   `json:"log"`
}

// Snapshot builds the table state visible to viewerID. An empty
// viewerID sees only public information until the hand resolves, at
// which point every live hand is revealed.
func (g *Game) Snapshot(viewerID string) *TableView {
	view := &TableView{
		Variant:       g.options.Variant,
		Phase:         g.phase,
		Community:     g.community.Clone(),
		Pot:           g.pot,
		CurrentBet:    g.currentBet,
		MinRaise:      g.minRaise,
		RaiseCount:    g.raiseCount,
		SmallBlind:    g.options.SmallBlind,
		BigBlind:      g.options.BigBlind,
		HandNumber:    g.handNumber,
		DealerIndex:   g.dealerIndex,
		AllInShowdown: g.allInShowdown,
		HandOver:      g.handOver,
		Winners:       g.winners,
		Players:       make([]*PlayerView, len(g.players)),
		Log:           g.handLog,
	}

	if turn := g.CurrentTurn(); turn != nil {
		view.CurrentTurn = turn.ID
	}

	for i, p := range g.players {
		pv := &PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Type:       p.Type,
			Provider:   p.Provider,
			Style:      p.Style,
			Chips:      p.chips,
			CurrentBet: p.currentBet,
			Folded:     p.folded,
			AllIn:      p.allIn,
			Acted:      p.acted,
			LastAction: p.lastAction,
			IsTurn:     i == g.currentIndex,
			IsDealer:   i == g.dealerIndex,
		}

		if p.ID == viewerID || (g.handOver && g.handNumber > 0) {
			pv.HoleCards = p.holeCards.Clone()
			pv.HandName = g.handName(p)
		}

		view.Players[i] = pv
	}

	return view
}

// handName describes the best hand a player can currently make
func (g *Game) handName(p *Player) string {
	if len(p.holeCards) < 2 {
		return ""
	}

	cards := append(g.community.Clone(), p.holeCards...)
	return handrank.New(g.options.Variant, cards).GetHand().String()
}
