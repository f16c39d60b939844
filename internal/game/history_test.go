// internal/game/history_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redorblack/server/internal/deck"
)

func TestCardHistoryAlwaysReportsCapacity(t *testing.T) {
	h := NewCardHistory(3)
	require.Len(t, h.Items(), 3)
	for _, slot := range h.Items() {
		assert.Nil(t, slot)
	}

	card := deck.Card{Value: deck.Ace, Suit: deck.Spade}
	h.Push(card)

	items := h.Items()
	require.Len(t, items, 3)
	require.NotNil(t, items[0])
	assert.Equal(t, card, *items[0])
	assert.Nil(t, items[1])
	assert.Nil(t, items[2])
}

func TestCardHistoryEvictsOldestFromBack(t *testing.T) {
	h := NewCardHistory(3)
	cards := []deck.Card{
		{Value: deck.Ace, Suit: deck.Spade},
		{Value: deck.Two, Suit: deck.Club},
		{Value: deck.Three, Suit: deck.Heart},
		{Value: deck.Four, Suit: deck.Diamond},
	}

	h.Push(cards[0])
	h.Push(cards[1])
	h.Push(cards[2])

	items := h.Items()
	require.Len(t, items, 3)
	assert.Equal(t, cards[2], *items[0])
	assert.Equal(t, cards[1], *items[1])
	assert.Equal(t, cards[0], *items[2])

	h.Push(cards[3])

	items = h.Items()
	require.Len(t, items, 3)
	assert.Equal(t, cards[3], *items[0])
	assert.Equal(t, cards[2], *items[1])
	assert.Equal(t, cards[1], *items[2])
}

func TestTurnHistoryStartsEmpty(t *testing.T) {
	h := NewTurnHistory(40)
	assert.Empty(t, h.Items())

	h.Push(HistoryItem{Username: "jimmy", Guess: Red, Outcome: true, Penalty: 5, TurnNumber: 1})
	assert.Len(t, h.Items(), 1)
}

func TestTurnHistoryEvictsOldestFirst(t *testing.T) {
	h := NewTurnHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(HistoryItem{Username: "jimmy", Guess: Red, TurnNumber: i})
	}

	items := h.Items()
	require.Len(t, items, 3)
	assert.Equal(t, 3, items[0].TurnNumber)
	assert.Equal(t, 5, items[2].TurnNumber)
}
