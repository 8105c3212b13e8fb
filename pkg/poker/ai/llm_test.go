package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pokerarena-server/internal/rng"
	"pokerarena-server/pkg/poker/action"
	"pokerarena-server/pkg/poker/holdem"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testView(t *testing.T) (*holdem.TableView, string) {
	t.Helper()

	seats := []holdem.Seat{
		{ID: "p1", Name: "p1", Type: holdem.PlayerTypeHuman},
		{ID: "p2", Name: "p2", Type: holdem.PlayerTypeAI, Provider: "alpha", Style: "The Rock"},
		{ID: "p3", Name: "p3", Type: holdem.PlayerTypeAI, Provider: "beta", Style: "The Maniac"},
	}

	game, err := holdem.NewGame(testLogger(), seats, holdem.DefaultOptions())
	assert.NoError(t, err)
	assert.NoError(t, game.DealHand(1))

	seatID := game.CurrentTurn().ID
	return game.Snapshot(seatID), seatID
}

func chatReply(content string) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})

	return string(payload)
}

func TestLLMAdvisor_ProposeAction(t *testing.T) {
	a := assert.New(t)

	var gotAuth, gotModel string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		a.NoError(json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		a.NotEmpty(req.Messages)

		fmt.Fprint(w, chatReply(`I raise. {"action": "raise", "amount": 300, "reason": "pressure"}`))
	}))
	defer ts.Close()

	advisor, err := NewLLMAdvisor(testLogger(), []ProviderConfig{
		{Name: "alpha", Endpoint: ts.URL, Model: "alpha-1", APIKey: "secret"},
	})
	a.NoError(err)
	advisor.SetRandom(rng.NewSeeded(1))

	view, seatID := testView(t)
	proposal, err := advisor.ProposeAction(context.Background(), view, seatID)
	a.NoError(err)
	a.Equal(action.Raise, proposal.Action)
	a.Equal(300, proposal.Amount)
	a.Equal("pressure", proposal.Rationale)

	a.Equal("Bearer secret", gotAuth)
	a.Equal("alpha-1", gotModel)
}

func TestLLMAdvisor_ProposeAction_fallsThroughProviders(t *testing.T) {
	a := assert.New(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply(`{"action": "call", "amount": 0, "reason": "priced in"}`))
	}))
	defer working.Close()

	advisor, err := NewLLMAdvisor(testLogger(), []ProviderConfig{
		{Name: "alpha", Endpoint: broken.URL, Model: "alpha-1"},
		{Name: "beta", Endpoint: working.URL, Model: "beta-1"},
	})
	a.NoError(err)
	advisor.SetRandom(rng.NewSeeded(1))

	view, seatID := testView(t)
	proposal, err := advisor.ProposeAction(context.Background(), view, seatID)
	a.NoError(err)
	a.Equal(action.Call, proposal.Action)
}

func TestLLMAdvisor_ProposeAction_allProvidersFail(t *testing.T) {
	a := assert.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	advisor, err := NewLLMAdvisor(testLogger(), []ProviderConfig{
		{Name: "alpha", Endpoint: ts.URL, Model: "alpha-1", APIKey: "bad"},
	})
	a.NoError(err)

	view, seatID := testView(t)
	proposal, err := advisor.ProposeAction(context.Background(), view, seatID)
	a.Nil(proposal)
	a.ErrorIs(err, ErrInvalidKey)
}

func TestLLMAdvisor_SummarizeHand(t *testing.T) {
	a := assert.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("  The flop call was too loose.  "))
	}))
	defer ts.Close()

	advisor, err := NewLLMAdvisor(testLogger(), []ProviderConfig{
		{Name: "alpha", Endpoint: ts.URL, Model: "alpha-1"},
	})
	a.NoError(err)

	view, _ := testView(t)
	review, err := advisor.SummarizeHand(context.Background(), view)
	a.NoError(err)
	a.Equal("The flop call was too loose.", review)
}

func TestNewLLMAdvisor_requiresProvider(t *testing.T) {
	advisor, err := NewLLMAdvisor(testLogger(), nil)
	assert.Nil(t, advisor)
	assert.EqualError(t, err, "ai: at least one provider is required")
}

func TestStatusError(t *testing.T) {
	a := assert.New(t)

	a.NoError(statusError(200))
	a.ErrorIs(statusError(401), ErrInvalidKey)
	a.ErrorIs(statusError(402), ErrBilling)
	a.ErrorIs(statusError(403), ErrBilling)
	a.ErrorIs(statusError(429), ErrQuota)
	a.Error(statusError(500))
}

func TestParseProposal(t *testing.T) {
	a := assert.New(t)

	p, err := parseProposal("```json\n{\"action\": \"bet\", \"amount\": 450.0, \"reason\": \"value\"}\n```")
	a.NoError(err)
	a.Equal(action.Raise, p.Action)
	a.Equal(450, p.Amount)

	p, err = parseProposal(`{"action": "ALLIN", "amount": -5}`)
	a.NoError(err)
	a.Equal(action.AllIn, p.Action)
	a.Equal(0, p.Amount)

	_, err = parseProposal("no decision here")
	a.Error(err)

	_, err = parseProposal(`{"action": "shove"}`)
	a.Error(err)
}

func TestLLMAdvisor_providerOrder(t *testing.T) {
	a := assert.New(t)

	advisor, err := NewLLMAdvisor(testLogger(), []ProviderConfig{
		{Name: "alpha"},
		{Name: "beta"},
		{Name: "gamma"},
	})
	a.NoError(err)

	ordered := advisor.providerOrder("beta")
	a.Equal("beta", ordered[0].Name)
	a.Equal("alpha", ordered[1].Name)
	a.Equal("gamma", ordered[2].Name)

	ordered = advisor.providerOrder("unknown")
	a.Equal("alpha", ordered[0].Name)
}

func TestLLMAdvisor_temperature(t *testing.T) {
	a := assert.New(t)

	advisor, err := NewLLMAdvisor(testLogger(), []ProviderConfig{{Name: "alpha"}})
	a.NoError(err)
	advisor.SetRandom(rng.NewSeeded(1))

	persona := PersonaByName("The Rock")
	for i := 0; i < 100; i++ {
		temp := advisor.temperature(persona)
		a.GreaterOrEqual(temp, 0.1)
		a.LessOrEqual(temp, persona.Temperature+temperatureJitter+1e-9)
	}
}

func TestPersonaByName(t *testing.T) {
	a := assert.New(t)

	p := PersonaByName("The Maniac")
	a.Equal("The Maniac", p.Name)
	a.Equal(1.1, p.Temperature)

	p = PersonaByName("unheard of")
	a.Equal(defaultPersona.Name, p.Name)

	p = RandomPersona(rng.NewSeeded(1))
	a.NotEmpty(p.Name)
	a.Len(Personas(), 10)
}
