package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
)

// EventConsumer subscribes to the game's broadcast subjects and fans the
// messages out to the WebSocket clients of each session.
type EventConsumer struct {
	connectionManager *ConnectionManager
	nc                *nats.Conn
	sub               *nats.Subscription
	prefix            string
}

// NewEventConsumer returns a consumer bridging nc to the connection manager.
// An empty prefix falls back to the broadcaster's default.
func NewEventConsumer(cm *ConnectionManager, nc *nats.Conn, prefix string) *EventConsumer {
	if prefix == "" {
		prefix = broadcast.DefaultSubjectPrefix
	}
	return &EventConsumer{
		connectionManager: cm,
		nc:                nc,
		prefix:            prefix,
	}
}

// Start subscribes to all session subjects and blocks until ctx is
// cancelled.
func (ec *EventConsumer) Start(ctx context.Context) error {
	subject := fmt.Sprintf("%s.events.*", ec.prefix)

	sub, err := ec.nc.Subscribe(subject, ec.handleMessage)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	ec.sub = sub

	log.Info().Str("subject", subject).Msg("gateway event consumer started")

	<-ctx.Done()
	return ec.Stop()
}

// Stop drains the subscription.
func (ec *EventConsumer) Stop() error {
	if ec.sub == nil {
		return nil
	}
	log.Info().Msg("gateway event consumer shutting down")
	if err := ec.sub.Drain(); err != nil {
		return fmt.Errorf("drain subscription: %w", err)
	}
	return nil
}

// handleMessage routes one envelope to the session's pool, narrowed to the
// target player when set. Delivery is best effort; bad envelopes are logged
// and dropped.
func (ec *EventConsumer) handleMessage(msg *nats.Msg) {
	var env broadcast.Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to unmarshal broadcast envelope")
		return
	}

	payload, err := json.Marshal(env.Message)
	if err != nil {
		log.Error().Err(err).Str("envelope_id", env.ID).Msg("failed to marshal game message")
		return
	}

	log.Debug().
		Str("envelope_id", env.ID).
		Str("session_id", env.SessionID).
		Str("type", string(env.Message.Type)).
		Str("target", env.Target).
		Msg("processing broadcast envelope")

	if env.Target == "" {
		ec.connectionManager.BroadcastToSession(env.SessionID, payload)
		return
	}
	ec.connectionManager.BroadcastToPlayer(env.SessionID, env.Target, payload)
}
