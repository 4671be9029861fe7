package gateway

import (
	"context"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
)

// Service is the transport edge: it owns the WebSocket connections, consumes
// the core's broadcast subjects and feeds inbound commands into the game.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	eventConsumer     *EventConsumer
}

// Config holds configuration for the gateway service.
type Config struct {
	ConnectionConfig ConnectionConfig
	SubjectPrefix    string
	AuthSecret       string
}

// DefaultConfig returns default configuration for the gateway.
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		SubjectPrefix:    broadcast.DefaultSubjectPrefix,
	}
}

// NewService creates a gateway over an established NATS connection. Client
// disconnects are forwarded to the game as leaves.
func NewService(config Config, nc *nats.Conn, api GameAPI) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig)
	connectionManager.api = api
	connectionManager.onDisconnect = func(sessionID, player string) {
		log.Info().Str("session_id", sessionID).Str("player", player).Msg("player disconnected")
		api.Leave(sessionID, player)
	}

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, config.AuthSecret),
		eventConsumer:     NewEventConsumer(connectionManager, nc, config.SubjectPrefix),
	}
}

// Start runs the gateway until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting game gateway")

	go s.connectionManager.Start(ctx)

	go func() {
		if err := s.eventConsumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event consumer failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("game gateway shutting down")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("game gateway routes registered")
}
