package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Variant specifies which deck the table plays with
type Variant string

// Variant constants
const (
	// Standard is the full 52-card deck with ranks 2 through Ace
	Standard Variant = "standard"

	// ShortDeck is the 36-card "6-plus" deck with ranks 6 through Ace
	ShortDeck Variant = "short-deck"
)

var validVariants = map[Variant]bool{
	Standard:  true,
	ShortDeck: true,
}

// LowestRank returns the lowest rank present in the variant's deck
func (v Variant) LowestRank() int {
	if v == ShortDeck {
		return 6
	}

	return 2
}

// Size returns the number of cards in a freshly built deck
func (v Variant) Size() int {
	return 4 * (Ace - v.LowestRank() + 1)
}

func (v Variant) String() string {
	switch v {
	case Standard:
		return "Standard"
	case ShortDeck:
		return "Short Deck (6+)"
	}

	panic(fmt.Sprintf("unknown variant: %s", string(v)))
}

// MarshalJSON encodes to JSON
func (v Variant) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Size int    `json:"size"`
	}{
		ID:   string(v),
		Name: v.String(),
		Size: v.Size(),
	})
}

// UnmarshalJSON decodes from JSON
func (v *Variant) UnmarshalJSON(data []byte) error {
	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	variant, err := VariantFromString(decoded.ID)
	if err != nil {
		return err
	}

	*v = variant
	return nil
}

// VariantFromString returns the variant from a string
func VariantFromString(s string) (Variant, error) {
	variant := Variant(strings.ToLower(s))
	if _, ok := validVariants[variant]; ok {
		return variant, nil
	}

	return "", fmt.Errorf("invalid variant: %s", s)
}
