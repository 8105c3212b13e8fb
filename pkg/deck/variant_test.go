package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariant(t *testing.T) {
	a := assert.New(t)

	a.Equal(2, Standard.LowestRank())
	a.Equal(52, Standard.Size())
	a.Equal("Standard", Standard.String())

	a.Equal(6, ShortDeck.LowestRank())
	a.Equal(36, ShortDeck.Size())
	a.Equal("Short Deck (6+)", ShortDeck.String())
}

func TestVariantFromString(t *testing.T) {
	a := assert.New(t)

	v, err := VariantFromString("standard")
	a.NoError(err)
	a.Equal(Standard, v)

	v, err = VariantFromString("SHORT-DECK")
	a.NoError(err)
	a.Equal(ShortDeck, v)

	_, err = VariantFromString("omaha")
	a.EqualError(err, "invalid variant: omaha")
}

func TestVariant_json(t *testing.T) {
	a := assert.New(t)

	b, err := json.Marshal(ShortDeck)
	a.NoError(err)
	a.JSONEq(`{"id":"short-deck","name":"Short Deck (6+)","size":36}`, string(b))

	var v Variant
	a.NoError(json.Unmarshal(b, &v))
	a.Equal(ShortDeck, v)
}
