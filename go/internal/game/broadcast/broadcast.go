// Package broadcast delivers outbound game messages to the external pub/sub
// gateway. Delivery is fire-and-forget: failures are logged and dropped, the
// game core never retries.
package broadcast

import (
	"time"

	"github.com/granbuda/bingo/go/internal/game/events"
)

// Broadcaster is what the game core needs from the message gateway.
type Broadcaster interface {
	// ToRoom delivers msg to every participant of the session.
	ToRoom(sessionID string, msg events.Message)
	// ToPlayer delivers msg to a single participant of the session.
	ToPlayer(sessionID, player string, msg events.Message)
}

// Envelope wraps a game message on the wire between the core and the
// gateway. An empty Target means the whole room.
type Envelope struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Target    string         `json:"target,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Message   events.Message `json:"message"`
}
