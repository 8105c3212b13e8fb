package holdem

import "encoding/json"

// Phase represents the street the hand is on
type Phase int

// constants for Phase, in hand order
const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}

	return ""
}

// Next returns the phase that follows
func (p Phase) Next() Phase {
	if p >= PhaseShowdown {
		return PhaseShowdown
	}

	return p + 1
}

// cardsOnEntry is how many community cards are dealt entering the phase
func (p Phase) cardsOnEntry() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn, PhaseRiver:
		return 1
	}

	return 0
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}

// UnmarshalJSON decodes JSON
func (p *Phase) UnmarshalJSON(data []byte) error {
	var decoded struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*p = Phase(decoded.ID)
	return nil
}
