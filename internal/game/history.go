// internal/game/history.go
package game

import "github.com/redorblack/server/internal/deck"

// HistoryItem summarises one resolved turn.
type HistoryItem struct {
	Username   string     `json:"username"`
	Guess      CardColour `json:"guess"`
	Outcome    bool       `json:"outcome"`
	Card       deck.Card  `json:"card"`
	Penalty    uint16     `json:"penalty"`
	TurnNumber int        `json:"turn_number"`
}

// CardHistory is a fixed-size rolling window of the most recently drawn
// cards, newest first. It always reports exactly its capacity of slots;
// slots that have never been filled hold nil.
type CardHistory struct {
	size    int
	history []*deck.Card
}

// NewCardHistory creates a window of `size` empty slots.
func NewCardHistory(size int) *CardHistory {
	return &CardHistory{
		size:    size,
		history: make([]*deck.Card, size),
	}
}

// Push inserts a card at the front, evicting the oldest slot.
func (h *CardHistory) Push(card deck.Card) {
	c := card
	h.history = append([]*deck.Card{&c}, h.history...)
	if len(h.history) > h.size {
		h.history = h.history[:h.size]
	}
}

// Items returns a copy of the window, most recent first.
func (h *CardHistory) Items() []*deck.Card {
	items := make([]*deck.Card, len(h.history))
	copy(items, h.history)
	return items
}

// TurnHistory is a fixed-capacity append log of completed turns. Unlike
// CardHistory it starts empty and grows up to its capacity, evicting
// the oldest entry once full.
type TurnHistory struct {
	size    int
	history []HistoryItem
}

// NewTurnHistory creates an empty log capped at `size` entries.
func NewTurnHistory(size int) *TurnHistory {
	return &TurnHistory{size: size}
}

// Push appends an entry, evicting the oldest once over capacity.
func (h *TurnHistory) Push(item HistoryItem) {
	h.history = append(h.history, item)
	if len(h.history) > h.size {
		h.history = h.history[1:]
	}
}

// Items returns a copy of the log, oldest first.
func (h *TurnHistory) Items() []HistoryItem {
	items := make([]HistoryItem, len(h.history))
	copy(items, h.history)
	return items
}
