// internal/game/rules.go

// Package game implements the red-or-black turn state machine: the
// deck, the player roster and turn cursor, the escalating penalty
// counter and the bounded history logs.
package game

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/redorblack/server/internal/deck"
)

// CardColour is a player's guess at the colour of the next card.
type CardColour string

const (
	Red   CardColour = "Red"
	Black CardColour = "Black"
)

// UnmarshalJSON rejects anything other than the two known colours so a
// malformed guess fails at decode time.
func (c *CardColour) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch CardColour(s) {
	case Red, Black:
		*c = CardColour(s)
		return nil
	}
	return fmt.Errorf("unknown card colour %q", s)
}

// Config holds the tunable knobs of a game instance.
type Config struct {
	CardHistorySize int
	TurnHistorySize int
	PenaltyBase     uint16
	PenaltyStep     uint16
}

// DefaultConfig returns the reference rules: a 3-card window, a 40-turn
// log, and drinking penalties starting at 5 and escalating by 5.
func DefaultConfig() Config {
	return Config{
		CardHistorySize: 3,
		TurnHistorySize: 40,
		PenaltyBase:     5,
		PenaltyStep:     5,
	}
}

// TurnResult is the outcome of one resolved guess.
type TurnResult struct {
	Correct    bool
	Penalty    uint16
	NextPlayer string
	HasNext    bool
	Card       deck.Card
	CardsLeft  int
}

// Game holds the entire state for one game instance in memory. It is
// not safe for concurrent use; the session layer serialises access
// behind a single lock.
type Game struct {
	cfg         Config
	usernames   []string
	index       int
	penalty     uint16
	deck        *deck.Deck
	cardHistory *CardHistory
	turnHistory *TurnHistory
	turnNumber  int

	// Logger may be replaced by the owner; it defaults to the
	// process-wide logrus logger.
	Logger logrus.FieldLogger
}

// NewGame builds an empty game with the reference rules and a freshly
// shuffled deck.
func NewGame() *Game {
	return NewGameWithConfig(DefaultConfig())
}

// NewGameWithConfig builds an empty game with explicit rules.
func NewGameWithConfig(cfg Config) *Game {
	return &Game{
		cfg:         cfg,
		penalty:     cfg.PenaltyBase,
		deck:        deck.NewShuffled(),
		cardHistory: NewCardHistory(cfg.CardHistorySize),
		turnHistory: NewTurnHistory(cfg.TurnHistorySize),
		turnNumber:  1,
		Logger:      logrus.StandardLogger(),
	}
}

// AddPlayer appends a player to the end of the roster. The turn cursor
// is untouched, so joining never steals the current turn.
func (g *Game) AddPlayer(username string) {
	g.usernames = append(g.usernames, username)
}

// RemovePlayer removes the first roster entry matching username and
// reports whether the current turn changed as a result. When the
// departing player holds the turn, the cursor advances first so they
// are never re-selected. An emptied roster resets the whole game.
func (g *Game) RemovePlayer(username string) bool {
	changedTurn := false
	if current, ok := g.CurrentPlayer(); ok && current == username {
		changedTurn = true
		g.AdvanceTurn()
	}

	for i, u := range g.usernames {
		if u == username {
			g.usernames = append(g.usernames[:i], g.usernames[i+1:]...)
			break
		}
	}

	if len(g.usernames) == 0 {
		g.reset()
	}
	return changedTurn
}

// CurrentPlayer returns the player whose turn it is. The cursor is
// clamped here, on read, so it tolerates the roster shrinking between
// calls. An empty roster yields ("", false).
func (g *Game) CurrentPlayer() (string, bool) {
	if g.index >= len(g.usernames) {
		g.index = 0
	}
	if len(g.usernames) == 0 {
		return "", false
	}
	return g.usernames[g.index], true
}

// AdvanceTurn moves the cursor to the next player, wrapping around, and
// returns the new current player.
func (g *Game) AdvanceTurn() (string, bool) {
	g.index++
	if g.index >= len(g.usernames) {
		g.index = 0
	}
	if len(g.usernames) == 0 {
		return "", false
	}
	return g.usernames[g.index], true
}

// Players returns a copy of the roster in turn order.
func (g *Game) Players() []string {
	players := make([]string, len(g.usernames))
	copy(players, g.usernames)
	return players
}

// Penalty returns the current penalty value.
func (g *Game) Penalty() uint16 {
	return g.penalty
}

// CardsLeft reports how many cards remain before the next reshuffle.
func (g *Game) CardsLeft() int {
	return g.deck.Remaining()
}

// CardHistory returns the rolling window of recently drawn cards,
// newest first. Unfilled slots are nil.
func (g *Game) CardHistory() []*deck.Card {
	return g.cardHistory.Items()
}

// TurnHistory returns the log of completed turns, oldest first.
func (g *Game) TurnHistory() []HistoryItem {
	return g.turnHistory.Items()
}

// ValidateGuess reports whether the guess matches the card's colour:
// spades and clubs are black, hearts and diamonds are red.
func (g *Game) ValidateGuess(guess CardColour, card deck.Card) bool {
	return guess == Black && (card.Suit == deck.Spade || card.Suit == deck.Club) ||
		guess == Red && (card.Suit == deck.Heart || card.Suit == deck.Diamond)
}

// PlayTurn resolves one guess for the current player: draw, record,
// score, then advance the turn. With an empty roster it is still safe;
// the result simply carries no next player.
func (g *Game) PlayTurn(guess CardColour) TurnResult {
	card := g.drawCard()
	g.cardHistory.Push(card)

	correct := g.ValidateGuess(guess, card)
	var penalty uint16
	if correct {
		g.penalty += g.cfg.PenaltyStep
		penalty = g.penalty
	} else {
		penalty = g.penalty
		g.penalty = g.cfg.PenaltyBase
	}

	username, _ := g.CurrentPlayer()
	g.turnHistory.Push(HistoryItem{
		Username:   username,
		Guess:      guess,
		Outcome:    correct,
		Card:       card,
		Penalty:    penalty,
		TurnNumber: g.turnNumber,
	})
	g.turnNumber++

	cardsLeft := g.deck.Remaining()
	next, hasNext := g.AdvanceTurn()
	return TurnResult{
		Correct:    correct,
		Penalty:    penalty,
		NextPlayer: next,
		HasNext:    hasNext,
		Card:       card,
		CardsLeft:  cardsLeft,
	}
}

// drawCard never fails: an exhausted deck is transparently replaced by
// a freshly shuffled one before the draw is satisfied.
func (g *Game) drawCard() deck.Card {
	if card, ok := g.deck.Draw(); ok {
		return card
	}
	g.Logger.Info("deck exhausted, reshuffling")
	g.deck = deck.NewShuffled()
	card, _ := g.deck.Draw()
	return card
}

// reset wipes everything but the roster back to initial values. The
// departure of the last player is a full game reset, so whoever joins
// next starts a fresh game.
func (g *Game) reset() {
	g.Logger.Info("no players left, resetting game")
	g.penalty = g.cfg.PenaltyBase
	g.cardHistory = NewCardHistory(g.cfg.CardHistorySize)
	g.turnHistory = NewTurnHistory(g.cfg.TurnHistorySize)
	g.deck = deck.NewShuffled()
	g.turnNumber = 1
}
