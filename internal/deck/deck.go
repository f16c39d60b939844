// internal/deck/deck.go

// Package deck provides the standard 52-card deck drawn from by the
// red-or-black rules engine.
package deck

import "math/rand"

// Value is a card rank, Ace through King.
type Value string

// Suit is one of the four french suits.
type Suit string

const (
	Ace   Value = "Ace"
	Two   Value = "Two"
	Three Value = "Three"
	Four  Value = "Four"
	Five  Value = "Five"
	Six   Value = "Six"
	Seven Value = "Seven"
	Eight Value = "Eight"
	Nine  Value = "Nine"
	Ten   Value = "Ten"
	Jack  Value = "Jack"
	Queen Value = "Queen"
	King  Value = "King"
)

const (
	Spade   Suit = "Spade"
	Club    Suit = "Club"
	Heart   Suit = "Heart"
	Diamond Suit = "Diamond"
)

// Card is an immutable rank/suit pair. Equality is structural.
type Card struct {
	Value Value `json:"value"`
	Suit  Suit  `json:"suit"`
}

var suits = [...]Suit{Spade, Club, Diamond, Heart}

var values = [...]Value{
	Ace, Two, Three, Four, Five, Six, Seven,
	Eight, Nine, Ten, Jack, Queen, King,
}

// Deck is an ordered sequence of cards. Cards are drawn from the end,
// so the last card in the sequence is the next one out.
type Deck struct {
	cards []Card
}

// New returns the full 52-card set in enumeration order, unshuffled.
func New() *Deck {
	cards := make([]Card, 0, len(suits)*len(values))
	for _, suit := range suits {
		for _, value := range values {
			cards = append(cards, Card{Value: value, Suit: suit})
		}
	}
	return &Deck{cards: cards}
}

// NewShuffled returns a full deck in a uniformly random order.
func NewShuffled() *Deck {
	d := New()
	d.Shuffle()
	return d
}

// FromCards builds a deck with an explicit draw order. The last card of
// the slice is drawn first.
func FromCards(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle permutes the remaining cards in place.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the card at the draw end. The second return
// value is false if the deck is empty; the caller decides whether to
// reshuffle.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// Remaining reports how many cards are left undrawn.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
