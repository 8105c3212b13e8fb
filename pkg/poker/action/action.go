package action

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action represents an action a player can take during a betting round
type Action string

// action constants
const (
	Fold     Action = "fold"
	Check    Action = "check"
	Call     Action = "call"
	Raise    Action = "raise"
	ThreeBet Action = "3bet"
	FourBet  Action = "4bet"
	AllIn    Action = "all-in"
)

var allowedActions = map[Action]bool{
	Fold:     true,
	Check:    true,
	Call:     true,
	Raise:    true,
	ThreeBet: true,
	FourBet:  true,
	AllIn:    true,
}

// aliases maps the identifiers AI providers tend to use
var aliases = map[string]Action{
	"allin": AllIn,
	"bet":   Raise,
}

// FromString returns an action for the given string
func FromString(s string) (Action, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := allowedActions[Action(key)]; ok {
		return Action(key), nil
	}

	if a, ok := aliases[key]; ok {
		return a, nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	case ThreeBet:
		return "3-Bet"
	case FourBet:
		return "4-Bet"
	case AllIn:
		return "All-In"
	}

	panic("unknown action")
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// UnmarshalJSON decodes the action from JSON
func (a *Action) UnmarshalJSON(data []byte) error {
	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	act, err := FromString(decoded.ID)
	if err != nil {
		return err
	}

	*a = act
	return nil
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// IsRaiseClass returns true for the actions that try to set a new
// current bet. Raise, 3-bet and 4-bet are the same transition with a
// different suggested sizing; all-in is a raise capped at the stack.
func (a Action) IsRaiseClass() bool {
	switch a {
	case Raise, ThreeBet, FourBet, AllIn:
		return true
	}

	return false
}

// LogMessage returns a message formatted for the hand log
func (a Action) LogMessage(amount int) string {
	switch a {
	case Fold:
		return "folded"
	case Check:
		return "checked"
	case Call:
		return fmt.Sprintf("called ${%d}", amount)
	case Raise:
		return fmt.Sprintf("raised to ${%d}", amount)
	case ThreeBet:
		return fmt.Sprintf("3-bet to ${%d}", amount)
	case FourBet:
		return fmt.Sprintf("4-bet to ${%d}", amount)
	case AllIn:
		return fmt.Sprintf("went all-in for ${%d}", amount)
	}

	return ""
}
