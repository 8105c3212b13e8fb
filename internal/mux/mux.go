// Package mux provides the HTTP API for creating sessions, playing
// hands, and streaming table state over websockets.
package mux

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	gmux "github.com/gorilla/mux"

	"pokerarena-server/internal/jwt"
	"pokerarena-server/pkg/arena"
	"pokerarena-server/pkg/history"
	"pokerarena-server/pkg/poker/ai"
	"pokerarena-server/pkg/poker/holdem"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxArenaKey
)

const uuidPattern = `{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}`

// Config wires the mux's collaborators
type Config struct {
	Version       string
	Manager       *arena.Manager
	Advisor       ai.Advisor
	History       *history.Store
	GameOptions   holdem.Options
	Delays        arena.Delays
	MaxHands      int
	ProviderNames []string
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config Config

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(cfg Config) *Mux {
	if cfg.Manager == nil {
		cfg.Manager = arena.NewManager(nil)
	}

	this := &Mux{
		Router: gmux.NewRouter(),
		config: cfg,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/arena").Handler(this.postArena())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		ar := r.PathPrefix("/arena/" + uuidPattern).Subrouter()
		ar.Use(this.arenaMiddleware)

		ar.Methods(http.MethodGet).Path("").Handler(this.getArenaUUID())
		ar.Methods(http.MethodPost).Path("/deal").Handler(this.postArenaUUIDDeal())
		ar.Methods(http.MethodPost).Path("/action").Handler(this.postArenaUUIDAction())
		ar.Methods(http.MethodGet).Path("/history").Handler(this.getArenaUUIDHistory())
		ar.Methods(http.MethodGet).Path("/ws").Handler(this.getArenaUUIDWS())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		playerID, err := jwt.ValidPlayerID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, playerID)
		w.Header().Set("PokerArena-PlayerID", playerID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// arenaMiddleware requires authMiddleware to execute first
func (m *Mux) arenaMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(gmux.Vars(r)["uuid"])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		a, found := m.config.Manager.Get(id)
		if !found {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxArenaKey, a)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func ctxPlayerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey).(string)
	return id
}

func ctxArena(r *http.Request) *arena.Arena {
	a, _ := r.Context().Value(ctxArenaKey).(*arena.Arena)
	return a
}
