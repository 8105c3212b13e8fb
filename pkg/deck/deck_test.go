package deck

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNew(t *testing.T) {
	a := assert.New(t)

	d := New(Standard)
	a.Equal(52, len(d.Cards))
	a.Equal(52, d.CardsLeft())

	d = New(ShortDeck)
	a.Equal(36, len(d.Cards))
	a.Equal(36, d.CardsLeft())
}

func TestDeck_noDuplicatesAndRankSet(t *testing.T) {
	for _, variant := range []Variant{Standard, ShortDeck} {
		d := New(variant)
		d.Shuffle(0)

		seen := make(map[string]bool)
		for d.CardsLeft() > 0 {
			card, err := d.Draw()
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, card.Rank, variant.LowestRank())
			assert.LessOrEqual(t, card.Rank, Ace)

			key := CardToString(card)
			assert.False(t, seen[key], "duplicate card: %s", key)
			seen[key] = true
		}

		assert.Equal(t, variant.Size(), len(seen))

		_, err := d.Draw()
		assert.Equal(t, ErrEndOfDeck, err)
	}
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New(Standard)
	d1.Shuffle(42)

	d2 := New(Standard)
	d2.Shuffle(42)

	a.Equal(int64(42), d1.GetSeed())
	a.Equal(d1.HashCode(), d2.HashCode())

	d3 := New(Standard)
	d3.Shuffle(43)
	a.NotEqual(d1.HashCode(), d3.HashCode())

	a.Panics(func() {
		d1.Shuffle(-1)
	})
}

func TestDeck_ShuffleRebuilds(t *testing.T) {
	a := assert.New(t)

	d := New(ShortDeck)
	d.Shuffle(1)

	for i := 0; i < 10; i++ {
		_, err := d.Draw()
		a.NoError(err)
	}

	a.Equal(26, d.CardsLeft())

	// a re-shuffle always starts from a full deck
	d.Shuffle(2)
	a.Equal(36, d.CardsLeft())
}

func TestDeck_CanDraw(t *testing.T) {
	a := assert.New(t)

	d := New(ShortDeck)
	a.True(d.CanDraw(36))
	a.False(d.CanDraw(37))
}
