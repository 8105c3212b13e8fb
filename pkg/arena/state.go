package arena

import (
	"pokerarena-server/pkg/poker/holdem"
	"pokerarena-server/pkg/poker/scoreboard"
)

// State is everything a viewer needs to render the session
type State struct {
	ID          string                 `json:"id"`
	Table       *holdem.TableView      `json:"table"`
	Standings   []*scoreboard.Standing `json:"standings"`
	Round       int                    `json:"round"`
	MaxRounds   int                    `json:"maxRounds"`
	SessionOver bool                   `json:"sessionOver"`
	WinChance   *float64               `json:"winChance,omitempty"`
	Review      string                 `json:"review,omitempty"`
}

// State returns the session as seen by viewerID. Only the human seat
// the session coaches sees its win probability.
func (a *Arena) State(viewerID string) (*State, error) {
	var state *State
	if err := a.do(func() {
		state = a.buildState(viewerID)
	}); err != nil {
		return nil, err
	}

	return state, nil
}

// buildState assembles a viewer's state. Run loop only.
func (a *Arena) buildState(viewerID string) *State {
	state := &State{
		ID:          a.id.String(),
		Table:       a.game.Snapshot(viewerID),
		Standings:   a.ledger.Ranking(),
		Round:       a.ledger.Rounds(),
		MaxRounds:   a.ledger.MaxRounds(),
		SessionOver: a.sessionOver,
		Review:      a.lastReview,
	}

	if viewerID != "" && viewerID == a.humanID {
		chance := a.humanEquity
		state.WinChance = &chance
	}

	return state
}

// Ranking returns the session standings
func (a *Arena) Ranking() ([]*scoreboard.Standing, error) {
	var standings []*scoreboard.Standing
	if err := a.do(func() {
		standings = a.ledger.Ranking()
	}); err != nil {
		return nil, err
	}

	return standings, nil
}

// Subscribe registers for session events. The returned cancel function
// must be called when the subscriber goes away.
func (a *Arena) Subscribe() (<-chan *Event, func(), error) {
	ch := make(chan *Event, commandBuffer)
	if err := a.do(func() {
		a.subscribers[ch] = true
	}); err != nil {
		return nil, nil, err
	}

	cancel := func() {
		_ = a.do(func() {
			if a.subscribers[ch] {
				delete(a.subscribers, ch)
				close(ch)
			}
		})
	}

	return ch, cancel, nil
}

// broadcast pushes an event to every subscriber, dropping it for any
// subscriber whose buffer is full. Run loop only.
func (a *Arena) broadcast(event *Event) {
	for ch := range a.subscribers {
		select {
		case ch <- event:
		default:
			a.log.Warn("dropping event for slow subscriber")
		}
	}
}

// broadcastState pushes the public table state. Run loop only.
func (a *Arena) broadcastState() {
	a.broadcast(&Event{Key: EventState, Data: a.buildState("")})
}
