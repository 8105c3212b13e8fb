package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"pokerarena-server/internal/rng"
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/action"
	"pokerarena-server/pkg/poker/holdem"
)

// temperature jitter bounds, applied per request
const temperatureJitter = 0.15

// jsonBlockRx pulls the first JSON object out of a chat reply, which
// may be wrapped in prose or a markdown fence
var jsonBlockRx = regexp.MustCompile(`(?s)\{.*\}`)

// LLMAdvisor asks chat completion providers for decisions. When the
// seat's preferred provider fails it falls through the remaining
// providers in order.
type LLMAdvisor struct {
	log       logrus.FieldLogger
	providers []ProviderConfig
	client    *http.Client
	random    rng.Generator
}

// NewLLMAdvisor returns an advisor over the given providers
func NewLLMAdvisor(logger logrus.FieldLogger, providers []ProviderConfig) (*LLMAdvisor, error) {
	if len(providers) == 0 {
		return nil, errors.New("ai: at least one provider is required")
	}

	return &LLMAdvisor{
		log:       logger,
		providers: providers,
		client:    &http.Client{Timeout: defaultRequestTimeout},
		random:    rng.Crypto{},
	}, nil
}

// SetHTTPClient overrides the HTTP client. Useful for tests.
func (l *LLMAdvisor) SetHTTPClient(client *http.Client) {
	l.client = client
}

// SetRandom overrides the jitter source. Useful for tests.
func (l *LLMAdvisor) SetRandom(generator rng.Generator) {
	l.random = generator
}

type decisionReply struct {
	Action string  `json:"action"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// ProposeAction implements Advisor
func (l *LLMAdvisor) ProposeAction(ctx context.Context, view *holdem.TableView, seatID string) (*Proposal, error) {
	seat := seatView(view, seatID)
	if seat == nil {
		return nil, fmt.Errorf("ai: seat %s not in view", seatID)
	}

	persona := PersonaByName(seat.Style)
	messages := []chatMessage{
		{Role: "system", Content: decisionSystemPrompt(persona, view.Variant)},
		{Role: "user", Content: decisionPrompt(view, seat)},
	}

	var result *multierror.Error
	for _, provider := range l.providerOrder(seat.Provider) {
		content, err := chat(ctx, l.client, provider, l.temperature(persona), messages)
		if err != nil {
			l.log.WithError(err).WithField("provider", provider.Name).Warn("decision request failed")
			result = multierror.Append(result, err)
			continue
		}

		proposal, err := parseProposal(content)
		if err != nil {
			l.log.WithError(err).WithField("provider", provider.Name).Warn("could not parse decision")
			result = multierror.Append(result, err)
			continue
		}

		return proposal, nil
	}

	return nil, result.ErrorOrNil()
}

// SummarizeHand implements Advisor
func (l *LLMAdvisor) SummarizeHand(ctx context.Context, view *holdem.TableView) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: coachSystemPrompt(view.Variant)},
		{Role: "user", Content: reviewPrompt(view)},
	}

	var result *multierror.Error
	for _, provider := range l.providers {
		content, err := chat(ctx, l.client, provider, 0.7, messages)
		if err != nil {
			l.log.WithError(err).WithField("provider", provider.Name).Warn("review request failed")
			result = multierror.Append(result, err)
			continue
		}

		return strings.TrimSpace(content), nil
	}

	return "", result.ErrorOrNil()
}

// providerOrder puts the preferred provider first
func (l *LLMAdvisor) providerOrder(preferred string) []ProviderConfig {
	ordered := make([]ProviderConfig, 0, len(l.providers))
	for _, p := range l.providers {
		if p.Name == preferred {
			ordered = append(ordered, p)
		}
	}

	for _, p := range l.providers {
		if p.Name != preferred {
			ordered = append(ordered, p)
		}
	}

	return ordered
}

// temperature applies the per-request jitter to the persona's base
func (l *LLMAdvisor) temperature(persona Persona) float64 {
	steps := int(temperatureJitter * 200)
	jitter := float64(l.random.Intn(steps+1))/100 - temperatureJitter
	return math.Max(0.1, persona.Temperature+jitter)
}

// parseProposal extracts the decision JSON from a chat reply
func parseProposal(content string) (*Proposal, error) {
	block := jsonBlockRx.FindString(content)
	if block == "" {
		return nil, fmt.Errorf("ai: no JSON object in reply: %q", truncate(content, 120))
	}

	var reply decisionReply
	if err := json.Unmarshal([]byte(block), &reply); err != nil {
		return nil, fmt.Errorf("ai: could not decode decision: %w", err)
	}

	act, err := action.FromString(reply.Action)
	if err != nil {
		return nil, fmt.Errorf("ai: %w", err)
	}

	amount := int(math.Round(reply.Amount))
	if amount < 0 {
		amount = 0
	}

	return &Proposal{
		Action:    act,
		Amount:    amount,
		Rationale: strings.TrimSpace(reply.Reason),
	}, nil
}

func decisionSystemPrompt(persona Persona, variant deck.Variant) string {
	return fmt.Sprintf(
		"You are %s, a professional poker player who %s. "+
			"You are playing no-limit %s hold'em. "+
			"Reply with only a JSON object of the form "+
			`{"action": "fold|check|call|raise|all-in", "amount": <total chips your street bet should reach when raising>, "reason": "<one short sentence in character>"}.`,
		persona.Name, persona.Style, variant,
	)
}

func decisionPrompt(view *holdem.TableView, seat *holdem.PlayerView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Street: %s\n", view.Phase)
	fmt.Fprintf(&b, "Your hole cards: %s\n", deck.CardsToString(seat.HoleCards))
	if len(view.Community) > 0 {
		fmt.Fprintf(&b, "Community cards: %s\n", deck.CardsToString(view.Community))
	}

	toCall := view.CurrentBet - seat.CurrentBet
	fmt.Fprintf(&b, "Pot: %d\n", view.Pot)
	fmt.Fprintf(&b, "Your stack: %d, your bet this street: %d\n", seat.Chips, seat.CurrentBet)
	fmt.Fprintf(&b, "Chips to call: %d, minimum raise to: %d\n", toCall, view.MinRaise)

	live := 0
	for _, p := range view.Players {
		if p.ID != seat.ID && !p.Folded {
			live++
		}
	}
	fmt.Fprintf(&b, "Live opponents: %d\n", live)

	if len(view.Log) > 0 {
		b.WriteString("Action so far:\n")
		for _, entry := range view.Log {
			fmt.Fprintf(&b, "- [%s] %s: %s %d\n", entry.Phase, entry.PlayerName, entry.Label, entry.Amount)
		}
	}

	b.WriteString("What is your action?")
	return b.String()
}

func coachSystemPrompt(variant deck.Variant) string {
	return fmt.Sprintf(
		"You are a no-limit %s hold'em coach reviewing a finished hand. "+
			"You can see every player's hole cards. "+
			"In three or four sentences, point out the key decision of the hand, "+
			"whether the human player's line was correct, and what they should do differently next time.",
		variant,
	)
}

func reviewPrompt(view *holdem.TableView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Final board: %s\n", deck.CardsToString(view.Community))
	fmt.Fprintf(&b, "Pot: %d\n", view.Pot)

	for _, p := range view.Players {
		status := "showed down"
		if p.Folded {
			status = "folded"
		}
		fmt.Fprintf(&b, "%s (%s, %s): %s", p.Name, p.Type, status, deck.CardsToString(p.HoleCards))
		if p.HandName != "" {
			fmt.Fprintf(&b, " (%s)", p.HandName)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Winners: %s\n", strings.Join(view.Winners, ", "))

	b.WriteString("Hand history:\n")
	for _, entry := range view.Log {
		fmt.Fprintf(&b, "- [%s] %s: %s %d\n", entry.Phase, entry.PlayerName, entry.Label, entry.Amount)
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}

// seatView finds the player view for a seat
func seatView(view *holdem.TableView, seatID string) *holdem.PlayerView {
	for _, p := range view.Players {
		if p.ID == seatID {
			return p
		}
	}

	return nil
}
