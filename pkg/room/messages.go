package room

import (
	"encoding/json"

	"bluffroom-server/pkg/bluff"
	"bluffroom-server/pkg/deck"
)

// systemUser is the sender name attached to server-generated chat messages
const systemUser = "system"

// PayloadIn is a decoded message from a connected client
type PayloadIn struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Cards   []string `json:"cards"`
	Claim   string   `json:"claim"`

	// raw keeps the undecoded bytes so signaling messages can be
	// rebroadcast without interpretation
	raw json.RawMessage
}

// ParsePayload decodes a single inbound client message
func ParsePayload(data []byte) (*PayloadIn, error) {
	var payload PayloadIn
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	payload.raw = data
	return &payload, nil
}

type chatMessage struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Message string `json:"message"`
}

func newChatMessage(user, message string) *chatMessage {
	return &chatMessage{
		Type:    "chat",
		User:    user,
		Message: message,
	}
}

type roomUpdatePlayer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// Cards is the player's hand count, or null if no game is running
	Cards *int `json:"cards"`
}

type roomUpdateMessage struct {
	Type        string              `json:"type"`
	Players     []*roomUpdatePlayer `json:"players"`
	CurrentTurn int64               `json:"current_turn"`
	GameStarted bool                `json:"game_started"`
}

type gameStateMessage struct {
	Type string `json:"type"`
	*bluff.PublicState
}

func newGameStateMessage(state *bluff.PublicState) *gameStateMessage {
	return &gameStateMessage{
		Type:        "game_state",
		PublicState: state,
	}
}

type gameEventMessage struct {
	Type string `json:"type"`
	*bluff.Event
}

func newGameEventMessage(event *bluff.Event) *gameEventMessage {
	return &gameEventMessage{
		Type:  "game_event",
		Event: event,
	}
}

type yourHandMessage struct {
	Type string       `json:"type"`
	Hand []*deck.Card `json:"hand"`
}

func newYourHandMessage(hand []*deck.Card) *yourHandMessage {
	return &yourHandMessage{
		Type: "your_hand",
		Hand: hand,
	}
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorMessage(err error) *errorMessage {
	return &errorMessage{
		Type:    "error",
		Message: err.Error(),
	}
}
