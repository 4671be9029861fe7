package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/game/events"
)

// DefaultSubjectPrefix is the root of the subject space the gateway
// subscribes to.
const DefaultSubjectPrefix = "bingo"

// EventSubject returns the NATS subject carrying all envelopes of a session.
func EventSubject(prefix, sessionID string) string {
	return fmt.Sprintf("%s.events.%s", prefix, sessionID)
}

// NATS publishes envelopes to a NATS subject per session.
type NATS struct {
	nc     *nats.Conn
	prefix string
}

// NewNATS returns a publisher on nc. An empty prefix falls back to
// DefaultSubjectPrefix.
func NewNATS(nc *nats.Conn, prefix string) *NATS {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATS{nc: nc, prefix: prefix}
}

func (n *NATS) ToRoom(sessionID string, msg events.Message) {
	n.publish(sessionID, "", msg)
}

func (n *NATS) ToPlayer(sessionID, player string, msg events.Message) {
	n.publish(sessionID, player, msg)
}

func (n *NATS) publish(sessionID, target string, msg events.Message) {
	env := Envelope{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Target:    target,
		Timestamp: time.Now(),
		Message:   msg,
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID).
			Str("type", string(msg.Type)).
			Msg("failed to marshal broadcast envelope")
		return
	}
	subject := EventSubject(n.prefix, sessionID)
	if err := n.nc.Publish(subject, data); err != nil {
		log.Error().Err(err).
			Str("subject", subject).
			Str("type", string(msg.Type)).
			Msg("failed to publish broadcast envelope")
		return
	}
	log.Debug().
		Str("subject", subject).
		Str("type", string(msg.Type)).
		Str("target", target).
		Msg("envelope published")
}
