package bluff

import (
	"bluffroom-server/pkg/deck"
)

// event name constants
const (
	EventCardsPlayed = "cards_played"
	EventPass        = "pass"
	EventPileDumped  = "pile_dumped"
	EventDoubtResult = "doubt_result"
	EventGameOver    = "game_over"
)

// doubt results
const (
	ResultTruth = "truth"
	ResultLie   = "lie"
)

// Event is the outcome of a successful game action and is broadcast to the room
type Event struct {
	Event      string       `json:"event"`
	By         int64        `json:"by,omitempty"`
	Count      int          `json:"count,omitempty"`
	Claim      string       `json:"claim,omitempty"`
	Cards      []*deck.Card `json:"cards,omitempty"`
	Result     string       `json:"result,omitempty"`
	Loser      int64        `json:"loser,omitempty"`
	NextPlayer int64        `json:"next_player,omitempty"`
	Winner     int64        `json:"winner,omitempty"`
}

// PublicState is the shared view of the game: everything except card contents
type PublicState struct {
	CurrentTurn   int64         `json:"current_turn"`
	Claim         string        `json:"claim"`
	PileCount     int           `json:"pile_count"`
	LastPlayCount int           `json:"last_play_count"`
	Players       map[int64]int `json:"players"`
}
