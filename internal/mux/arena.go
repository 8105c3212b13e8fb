package mux

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"pokerarena-server/internal/jwt"
	"pokerarena-server/internal/rng"
	"pokerarena-server/internal/util"
	"pokerarena-server/pkg/arena"
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/history"
	"pokerarena-server/pkg/poker/action"
	"pokerarena-server/pkg/poker/ai"
	"pokerarena-server/pkg/poker/holdem"
)

// opponent seat limits for a new session
const (
	defaultOpponents = 3
	maxOpponents     = 7
)

type postArenaPayload struct {
	Name      string `json:"name"`
	Variant   string `json:"variant"`
	Opponents int    `json:"opponents"`
	MaxHands  int    `json:"maxHands"`
}

type postArenaResponse struct {
	ID       string       `json:"id"`
	PlayerID string       `json:"playerId"`
	Token    string       `json:"token"`
	State    *arena.State `json:"state"`
}

func (m *Mux) postArena() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postArenaPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		options := m.config.GameOptions
		if payload.Variant != "" {
			variant, err := deck.VariantFromString(payload.Variant)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}

			options.Variant = variant
		}

		opponents := payload.Opponents
		if opponents == 0 {
			opponents = defaultOpponents
		}

		if opponents < 1 || opponents > maxOpponents {
			writeJSONError(w, http.StatusBadRequest, errors.New("opponents must be between 1 and 7"))
			return
		}

		maxHands := payload.MaxHands
		if maxHands == 0 {
			maxHands = m.config.MaxHands
		}

		name := payload.Name
		if name == "" {
			name = util.GetRandomName()
		}

		playerID := uuid.New().String()
		seats := make([]holdem.Seat, 0, opponents+1)
		seats = append(seats, holdem.Seat{
			ID:   playerID,
			Name: name,
			Type: holdem.PlayerTypeHuman,
		})

		for i := 0; i < opponents; i++ {
			persona := ai.RandomPersona(rng.Crypto{})
			seat := holdem.Seat{
				ID:    uuid.New().String(),
				Name:  util.GetRandomName(),
				Type:  holdem.PlayerTypeAI,
				Style: persona.Name,
			}

			if len(m.config.ProviderNames) > 0 {
				seat.Provider = m.config.ProviderNames[i%len(m.config.ProviderNames)]
			}

			seats = append(seats, seat)
		}

		a, err := m.config.Manager.Create(arena.Config{
			Seats:    seats,
			Options:  options,
			MaxHands: maxHands,
			Advisor:  m.config.Advisor,
			History:  m.config.History,
			Delays:   m.config.Delays,
		})
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		token, err := jwt.Sign(playerID)
		if err != nil {
			m.config.Manager.Remove(a.ID())
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		state, err := a.State(playerID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, postArenaResponse{
			ID:       a.ID().String(),
			PlayerID: playerID,
			Token:    token,
			State:    state,
		})
	}
}

func (m *Mux) getArenaUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := ctxArena(r).State(ctxPlayerID(r))
		if err != nil {
			writeArenaError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

func (m *Mux) postArenaUUIDDeal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := ctxArena(r)
		if err := a.StartHand(); err != nil {
			writeArenaError(w, err)
			return
		}

		state, err := a.State(ctxPlayerID(r))
		if err != nil {
			writeArenaError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

type postActionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (m *Mux) postArenaUUIDAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postActionPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		act, err := action.FromString(payload.Action)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		a := ctxArena(r)
		if err := a.Act(ctxPlayerID(r), act, payload.Amount); err != nil {
			writeArenaError(w, err)
			return
		}

		state, err := a.State(ctxPlayerID(r))
		if err != nil {
			writeArenaError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

func (m *Mux) getArenaUUIDHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.config.History == nil {
			writeJSON(w, http.StatusOK, []*history.Entry{})
			return
		}

		entries, err := m.config.History.Recent(r.Context(), ctxArena(r).ID(), 0)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

// writeArenaError maps game and session errors onto HTTP statuses
func writeArenaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, arena.ErrClosed):
		writeJSONError(w, http.StatusGone, err)
	case errors.Is(err, arena.ErrSessionOver),
		errors.Is(err, arena.ErrHandInProgress),
		errors.Is(err, holdem.ErrNotYourTurn),
		errors.Is(err, holdem.ErrNoBettingRound),
		errors.Is(err, holdem.ErrHandInProgress):
		writeJSONError(w, http.StatusConflict, err)
	case errors.Is(err, holdem.ErrPlayerNotFound):
		writeJSONError(w, http.StatusForbidden, err)
	default:
		writeJSONError(w, http.StatusInternalServerError, err)
	}
}
