package gateway

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// GameAPI is what the gateway needs from the game core to route inbound
// client commands.
type GameAPI interface {
	Join(sessionID, player string)
	Leave(sessionID, player string)
	RequestGameStart(sessionID, player string)
	RequestTimer(sessionID, player string)
	ManualDraw(sessionID string)
	AnnounceBingo(sessionID, player string)
	SyncState(sessionID, player string)
}

// Inbound command actions accepted from clients.
const (
	ActionJoin             = "join"
	ActionLeave            = "leave"
	ActionRequestGameStart = "requestGameStart"
	ActionRequestTimer     = "requestTimer"
	ActionManualDraw       = "manualDraw"
	ActionAnnounceBingo    = "announceBingo"
	ActionSyncState        = "syncState"
)

// clientCommand is the inbound message shape.
type clientCommand struct {
	Action string `json:"action"`
	Player string `json:"player,omitempty"`
}

// handleClientCommand parses and dispatches one inbound client message. The
// session is fixed at connection time; the player defaults to the
// connection's identity and a payload name cannot override an authenticated
// one.
func (cm *ConnectionManager) handleClientCommand(conn *Connection, raw []byte) {
	if cm.api == nil {
		log.Debug().
			Str("connection_id", conn.ID).
			RawJSON("message", raw).
			Msg("received client message with no command sink")
		return
	}

	var cmd clientCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", conn.ID).
			Msg("dropping malformed client command")
		return
	}

	player := conn.Player
	if player == "" {
		player = cmd.Player
	}

	log.Debug().
		Str("connection_id", conn.ID).
		Str("session_id", conn.SessionID).
		Str("action", cmd.Action).
		Str("player", player).
		Msg("dispatching client command")

	switch cmd.Action {
	case ActionJoin:
		cm.api.Join(conn.SessionID, player)
	case ActionLeave:
		cm.api.Leave(conn.SessionID, player)
	case ActionRequestGameStart:
		cm.api.RequestGameStart(conn.SessionID, player)
	case ActionRequestTimer:
		cm.api.RequestTimer(conn.SessionID, player)
	case ActionManualDraw:
		cm.api.ManualDraw(conn.SessionID)
	case ActionAnnounceBingo:
		cm.api.AnnounceBingo(conn.SessionID, player)
	case ActionSyncState:
		cm.api.SyncState(conn.SessionID, player)
	default:
		log.Warn().
			Str("connection_id", conn.ID).
			Str("action", cmd.Action).
			Msg("unknown client command action")
	}
}
