// Package scoreboard tracks chip deltas across a fixed-length session
// and ranks the players by cumulative score.
package scoreboard

import "sort"

// DefaultMaxRounds is how many hands a session lasts
const DefaultMaxRounds = 20

// Seat is a player the ledger tracks
type Seat struct {
	ID    string
	Name  string
	Chips int
}

// Standing is one row of the session ranking
type Standing struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

type entry struct {
	name      string
	score     int
	lastChips int
}

// Ledger accumulates per-hand chip deltas for each player. The zero
// value is not usable; call New.
type Ledger struct {
	entries   map[string]*entry
	order     []string
	rounds    int
	maxRounds int
}

// New returns a ledger that ends the session after maxRounds hands. A
// non-positive maxRounds uses the default.
func New(maxRounds int) *Ledger {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &Ledger{
		entries:   make(map[string]*entry),
		maxRounds: maxRounds,
	}
}

// Init seeds the ledger with the players and their starting stacks
func (l *Ledger) Init(seats []Seat) {
	l.entries = make(map[string]*entry, len(seats))
	l.order = make([]string, 0, len(seats))
	l.rounds = 0

	for _, seat := range seats {
		l.entries[seat.ID] = &entry{
			name:      seat.Name,
			lastChips: seat.Chips,
		}
		l.order = append(l.order, seat.ID)
	}
}

// CapturePreHand records each stack before the hand so the post-hand
// delta can be scored
func (l *Ledger) CapturePreHand(seats []Seat) {
	for _, seat := range seats {
		if e, ok := l.entries[seat.ID]; ok {
			e.lastChips = seat.Chips
		}
	}
}

// RecordPostHand scores the hand as the chip delta against the pre-hand
// capture and advances the round counter
func (l *Ledger) RecordPostHand(seats []Seat) {
	for _, seat := range seats {
		if e, ok := l.entries[seat.ID]; ok {
			e.score += seat.Chips - e.lastChips
			e.lastChips = seat.Chips
		}
	}

	l.rounds++
}

// Rounds returns how many hands have been scored
func (l *Ledger) Rounds() int {
	return l.rounds
}

// MaxRounds returns the session length
func (l *Ledger) MaxRounds() int {
	return l.maxRounds
}

// SessionOver reports whether the session has reached its hand limit
func (l *Ledger) SessionOver() bool {
	return l.rounds >= l.maxRounds
}

// Ranking returns the standings ordered by score descending. Ties share
// the higher rank and seat order breaks the display ordering.
func (l *Ledger) Ranking() []*Standing {
	standings := make([]*Standing, 0, len(l.order))
	for _, id := range l.order {
		e := l.entries[id]
		standings = append(standings, &Standing{
			ID:    id,
			Name:  e.name,
			Score: e.score,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	for i, s := range standings {
		if i > 0 && s.Score == standings[i-1].Score {
			s.Rank = standings[i-1].Rank
			continue
		}

		s.Rank = i + 1
	}

	return standings
}

// Score returns one player's cumulative score
func (l *Ledger) Score(id string) (int, bool) {
	e, ok := l.entries[id]
	if !ok {
		return 0, false
	}

	return e.score, true
}
