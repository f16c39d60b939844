// internal/protocol/messages.go

// Package protocol defines the wire schema spoken over the game
// websocket. Inbound requests are externally tagged objects with
// exactly one variant key; outbound messages carry a msg_type
// discriminator so clients can dispatch without an external schema.
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/redorblack/server/internal/deck"
	"github.com/redorblack/server/internal/game"
)

// ErrUnrecognised is returned for any inbound payload that does not
// decode to exactly one known request variant.
var ErrUnrecognised = errors.New("unrecognised message")

// Login asks to register the sending connection under a username.
type Login struct {
	Username string `json:"username"`
}

// Guess submits a colour guess for the next card.
type Guess struct {
	CardColour game.CardColour `json:"card_colour"`
}

// Inbound is the request envelope; exactly one field is set.
type Inbound struct {
	Login *Login `json:"Login,omitempty"`
	Guess *Guess `json:"Guess,omitempty"`
}

// Decode parses an inbound payload, requiring exactly one known
// variant with valid contents.
func Decode(data []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, ErrUnrecognised
	}
	if (in.Login == nil) == (in.Guess == nil) {
		return nil, ErrUnrecognised
	}
	if in.Guess != nil && in.Guess.CardColour != game.Red && in.Guess.CardColour != game.Black {
		return nil, ErrUnrecognised
	}
	return &in, nil
}

// Outbound msg_type discriminator values.
const (
	TypeLoggedIn       = "LoggedIn"
	TypePlayers        = "Players"
	TypeTurn           = "Turn"
	TypeError          = "Error"
	TypeGuessResult    = "GuessResult"
	TypePenalty        = "Penalty"
	TypePlayerHasLeft  = "PlayerHasLeft"
	TypeRequestHistory = "RequestHistory"
	TypeGameHistory    = "GameHistory"
	TypeCardsLeft      = "CardsLeft"
)

// PlayerEntry identifies one registered player and the connection it
// belongs to.
type PlayerEntry struct {
	Username     string    `json:"username"`
	ConnectionID uuid.UUID `json:"connection_id"`
}

// LoggedIn acknowledges a successful login to the sender.
type LoggedIn struct {
	MsgType string `json:"msg_type"`
}

func NewLoggedIn() LoggedIn {
	return LoggedIn{MsgType: TypeLoggedIn}
}

// Players is the full roster, broadcast whenever it changes.
type Players struct {
	MsgType string        `json:"msg_type"`
	Players []PlayerEntry `json:"players"`
}

func NewPlayers(players []PlayerEntry) Players {
	return Players{MsgType: TypePlayers, Players: players}
}

// Turn announces whose guess is expected next.
type Turn struct {
	MsgType  string `json:"msg_type"`
	Username string `json:"username"`
}

func NewTurn(username string) Turn {
	return Turn{MsgType: TypeTurn, Username: username}
}

// Error reports a protocol or validation failure to one connection.
type Error struct {
	MsgType string `json:"msg_type"`
	Error   string `json:"error"`
}

func NewError(message string) Error {
	return Error{MsgType: TypeError, Error: message}
}

// GuessResult is the broadcast outcome of one resolved turn.
type GuessResult struct {
	MsgType  string          `json:"msg_type"`
	Correct  bool            `json:"correct"`
	Card     deck.Card       `json:"card"`
	Penalty  uint16          `json:"penalty"`
	Username string          `json:"username"`
	Guess    game.CardColour `json:"guess"`
}

func NewGuessResult(correct bool, card deck.Card, penalty uint16, username string, guess game.CardColour) GuessResult {
	return GuessResult{
		MsgType:  TypeGuessResult,
		Correct:  correct,
		Card:     card,
		Penalty:  penalty,
		Username: username,
		Guess:    guess,
	}
}

// Penalty tells a newly joined player the current stake.
type Penalty struct {
	MsgType string `json:"msg_type"`
	Penalty uint16 `json:"penalty"`
}

func NewPenalty(penalty uint16) Penalty {
	return Penalty{MsgType: TypePenalty, Penalty: penalty}
}

// PlayerHasLeft names a departed player whose turn was forfeited.
type PlayerHasLeft struct {
	MsgType  string `json:"msg_type"`
	Username string `json:"username"`
}

func NewPlayerHasLeft(username string) PlayerHasLeft {
	return PlayerHasLeft{MsgType: TypePlayerHasLeft, Username: username}
}

// RequestHistory carries the rolling window of recently drawn cards.
// The array length always equals the window capacity; empty slots are
// null.
type RequestHistory struct {
	MsgType string       `json:"msg_type"`
	History []*deck.Card `json:"history"`
}

func NewRequestHistory(history []*deck.Card) RequestHistory {
	return RequestHistory{MsgType: TypeRequestHistory, History: history}
}

// GameHistory carries the log of completed turns, oldest first.
type GameHistory struct {
	MsgType string             `json:"msg_type"`
	History []game.HistoryItem `json:"history"`
}

func NewGameHistory(history []game.HistoryItem) GameHistory {
	return GameHistory{MsgType: TypeGameHistory, History: history}
}

// CardsLeft reports the undrawn count of the live deck.
type CardsLeft struct {
	MsgType   string `json:"msg_type"`
	CardsLeft int    `json:"cards_left"`
}

func NewCardsLeft(cardsLeft int) CardsLeft {
	return CardsLeft{MsgType: TypeCardsLeft, CardsLeft: cardsLeft}
}
