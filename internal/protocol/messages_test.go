// internal/protocol/messages_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redorblack/server/internal/deck"
	"github.com/redorblack/server/internal/game"
)

func TestDecodeLogin(t *testing.T) {
	in, err := Decode([]byte(`{"Login":{"username":"mick"}}`))
	require.NoError(t, err)
	require.NotNil(t, in.Login)
	assert.Nil(t, in.Guess)
	assert.Equal(t, "mick", in.Login.Username)
}

func TestDecodeGuess(t *testing.T) {
	in, err := Decode([]byte(`{"Guess":{"card_colour":"Red"}}`))
	require.NoError(t, err)
	require.NotNil(t, in.Guess)
	assert.Nil(t, in.Login)
	assert.Equal(t, game.Red, in.Guess.CardColour)
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	payloads := map[string]string{
		"not json":          `{"Login"`,
		"unknown variant":   `{"Logout":{"username":"mick"}}`,
		"no variant":        `{}`,
		"both variants":     `{"Login":{"username":"mick"},"Guess":{"card_colour":"Red"}}`,
		"bad colour":        `{"Guess":{"card_colour":"Green"}}`,
		"missing colour":    `{"Guess":{}}`,
		"non-string colour": `{"Guess":{"card_colour":7}}`,
	}
	for name, payload := range payloads {
		_, err := Decode([]byte(payload))
		assert.ErrorIs(t, err, ErrUnrecognised, "payload %s", name)
	}
}

func TestOutboundMessagesCarryTheirTag(t *testing.T) {
	data, err := json.Marshal(NewLoggedIn())
	require.NoError(t, err)
	assert.JSONEq(t, `{"msg_type":"LoggedIn"}`, string(data))

	data, err = json.Marshal(NewTurn("mick"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"msg_type":"Turn","username":"mick"}`, string(data))

	data, err = json.Marshal(NewError("Unrecognised message"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"msg_type":"Error","error":"Unrecognised message"}`, string(data))
}

func TestGuessResultShape(t *testing.T) {
	card := deck.Card{Value: deck.Ace, Suit: deck.Heart}
	data, err := json.Marshal(NewGuessResult(true, card, 10, "mick", game.Red))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"msg_type": "GuessResult",
		"correct": true,
		"card": {"value": "Ace", "suit": "Heart"},
		"penalty": 10,
		"username": "mick",
		"guess": "Red"
	}`, string(data))
}

func TestRequestHistorySerialisesEmptySlotsAsNull(t *testing.T) {
	card := deck.Card{Value: deck.King, Suit: deck.Spade}
	data, err := json.Marshal(NewRequestHistory([]*deck.Card{&card, nil, nil}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"msg_type": "RequestHistory",
		"history": [{"value": "King", "suit": "Spade"}, null, null]
	}`, string(data))
}

func TestPlayersIncludesConnectionIDs(t *testing.T) {
	id := uuid.New()
	data, err := json.Marshal(NewPlayers([]PlayerEntry{{Username: "mick", ConnectionID: id}}))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypePlayers, decoded["msg_type"])
	players := decoded["players"].([]interface{})
	require.Len(t, players, 1)
	entry := players[0].(map[string]interface{})
	assert.Equal(t, "mick", entry["username"])
	assert.Equal(t, id.String(), entry["connection_id"])
}
