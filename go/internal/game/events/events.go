package events

import (
	"encoding/json"
	"fmt"
)

// Type tags every outbound message. The values are part of the client
// contract and must not change.
type Type string

const (
	TypeAssignCard      Type = "ASSIGN_CARD"
	TypeUpdatePlayers   Type = "UPDATE_PLAYERS"
	TypeNewBalls        Type = "NEW_BALLS"
	TypeTimerStarted    Type = "TIMER_STARTED"
	TypeTimerQueued     Type = "TIMER_QUEUED"
	TypeTimerExtended   Type = "TIMER_EXTENDED"
	TypeGameStarted     Type = "GAME_STARTED"
	TypeGameOver        Type = "GAME_OVER"
	TypePlayerSuspended Type = "PLAYER_SUSPENDED"
	TypeSessionEnded    Type = "SESSION_ENDED"
	TypeSyncState       Type = "SYNC_STATE"
	TypeError           Type = "ERROR"
	TypeNotify          Type = "NOTIFY"
)

// Message is the envelope delivered to clients. Structured payloads are
// JSON-encoded into the single Data field so existing clients keep working.
type Message struct {
	Type    Type     `json:"type"`
	Player  string   `json:"player,omitempty"`
	Players []string `json:"players,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// Note builds a message whose payload is a human-readable text.
func Note(t Type, player, note string) Message {
	return Message{Type: t, Player: player, Data: note}
}

// UpdatePlayers carries the current player list of a room.
func UpdatePlayers(players []string) Message {
	return Message{Type: TypeUpdatePlayers, Players: players}
}

// GameStarted announces game start with the starter's name attached.
func GameStarted(starter string) Message {
	return Message{Type: TypeGameStarted, Player: starter}
}

// GameOver announces the winner to the room.
func GameOver(winner string) Message {
	return Message{Type: TypeGameOver, Player: winner}
}

// NewBalls carries the single ball drawn in this round. The data field is a
// JSON list because the client renders it as a batch of one.
func NewBalls(ball int) (Message, error) {
	data, err := json.Marshal([]int{ball})
	if err != nil {
		return Message{}, fmt.Errorf("marshal new balls payload: %w", err)
	}
	return Message{Type: TypeNewBalls, Data: string(data)}, nil
}

// WithData builds a message whose Data field is the JSON encoding of payload.
func WithData(t Type, player string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Player: player, Data: string(data)}, nil
}
