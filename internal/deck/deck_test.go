// internal/deck/deck_test.go
package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New()
	require.Equal(t, 52, d.Remaining())

	seen := map[Card]bool{}
	for {
		card, ok := d.Draw()
		if !ok {
			break
		}
		assert.False(t, seen[card], "card %v drawn twice", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestDrawOrderIsLastEnumeratedFirst(t *testing.T) {
	d := New()

	// Hearts are enumerated last, so the King of Hearts sits at the
	// draw end of an unshuffled deck.
	card, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, Card{Value: King, Suit: Heart}, card)
	assert.Equal(t, 51, d.Remaining())
}

func TestDrawOnEmptyDeck(t *testing.T) {
	d := FromCards(nil)
	card, ok := d.Draw()
	assert.False(t, ok)
	assert.Equal(t, Card{}, card)
	assert.Equal(t, 0, d.Remaining())
}

func TestShuffledDeckIsStillComplete(t *testing.T) {
	d := NewShuffled()
	require.Equal(t, 52, d.Remaining())

	seen := map[Card]bool{}
	for {
		card, ok := d.Draw()
		if !ok {
			break
		}
		require.False(t, seen[card], "card %v drawn twice", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestFromCardsDrawsInReverse(t *testing.T) {
	first := Card{Value: Ace, Suit: Spade}
	second := Card{Value: Two, Suit: Club}
	d := FromCards([]Card{second, first})

	card, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, first, card)

	card, ok = d.Draw()
	require.True(t, ok)
	assert.Equal(t, second, card)
}
