package gateway

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/auth"
)

// WebSocketHandler handles WebSocket upgrade requests for game connections.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	authSecret        string
}

// NewWebSocketHandler creates a new WebSocket handler. An empty authSecret
// disables token verification and clients identify by query parameter.
func NewWebSocketHandler(cm *ConnectionManager, authSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		authSecret:        authSecret,
	}
}

// HandleGameConnection handles WebSocket connections for a game session.
func (h *WebSocketHandler) HandleGameConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	player, err := h.resolvePlayer(r)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("rejected WebSocket connection")
		http.Error(w, "invalid identity token", http.StatusUnauthorized)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, player, sessionID); err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID).
			Str("player", player).
			Msg("failed to upgrade WebSocket connection")
		return
	}
}

// resolvePlayer extracts the player identity: a token from the identity
// service when auth is configured, otherwise the plain query parameter.
func (h *WebSocketHandler) resolvePlayer(r *http.Request) (string, error) {
	token := r.URL.Query().Get("token")
	if token != "" && h.authSecret != "" {
		player, err := auth.PlayerFromToken(token, h.authSecret)
		if err != nil {
			return "", fmt.Errorf("verify player token: %w", err)
		}
		return player, nil
	}

	player := r.URL.Query().Get("player")
	if player == "" {
		// For development, allow anonymous connections
		player = "anonymous"
	}
	return player, nil
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	total, sessions := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"total_connections":%d,"active_sessions":%d}`, total, sessions)
}

// RegisterRoutes registers WebSocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/game", h.HandleGameConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
