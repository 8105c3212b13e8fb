// Package ai turns table state into betting decisions and hand reviews
// using OpenAI-compatible chat completion providers.
package ai

import (
	"context"

	"pokerarena-server/pkg/poker/action"
	"pokerarena-server/pkg/poker/holdem"
)

// Proposal is a decision an advisor suggests for a seat
type Proposal struct {
	Action    action.Action `json:"action"`
	Amount    int           `json:"amount"`
	Rationale string        `json:"rationale,omitempty"`
}

// Advisor proposes actions for AI seats and reviews finished hands.
// Implementations must be safe for concurrent use.
type Advisor interface {
	// ProposeAction suggests a move for the seat due to act. The view
	// must be a snapshot taken from that seat's perspective.
	ProposeAction(ctx context.Context, view *holdem.TableView, seatID string) (*Proposal, error)

	// SummarizeHand writes a short coaching review of a finished hand.
	// The view should reveal every hole card.
	SummarizeHand(ctx context.Context, view *holdem.TableView) (string, error)
}
