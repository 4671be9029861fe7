// Package orchestrator is the façade the transport layer talks to. It
// composes the registry, card generator, ball scheduler, countdown
// coordinator and win validator, and emits every outbound message through
// the broadcast gateway.
package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/cards"
	"github.com/granbuda/bingo/go/internal/game/draw"
	"github.com/granbuda/bingo/go/internal/game/events"
	"github.com/granbuda/bingo/go/internal/game/session"
	"github.com/granbuda/bingo/go/internal/game/timer"
)

// Orchestrator exposes the game operations behind the transport layer.
type Orchestrator struct {
	registry    *session.Registry
	generator   *cards.Generator
	drawer      *draw.Scheduler
	timers      *timer.Coordinator
	broadcaster broadcast.Broadcaster
	minPlayers  int
}

// New wires an orchestrator. Non-positive minPlayers falls back to the
// countdown coordinator's default.
func New(registry *session.Registry, generator *cards.Generator, drawer *draw.Scheduler, timers *timer.Coordinator, broadcaster broadcast.Broadcaster, minPlayers int) *Orchestrator {
	if minPlayers <= 0 {
		minPlayers = timer.DefaultMinPlayers
	}
	return &Orchestrator{
		registry:    registry,
		generator:   generator,
		drawer:      drawer,
		timers:      timers,
		broadcaster: broadcaster,
		minPlayers:  minPlayers,
	}
}

// syncStatePayload is the SYNC_STATE data contract: drawn balls plus the
// requesting player's card.
type syncStatePayload struct {
	DrawnBalls []int       `json:"drawnBalls"`
	BingoCard  *cards.Card `json:"bingoCard"`
}

// Join adds the player to the session, creating the session on first join,
// and assigns a fresh card. A duplicate join is a logged no-op; the racing
// duplicate never receives a second card.
func (o *Orchestrator) Join(sessionID, player string) {
	if !validName(player) {
		log.Warn().Str("session_id", sessionID).Msg("join dropped: blank player name")
		return
	}

	sess := o.registry.GetOrCreate(sessionID)
	card, joined := sess.Join(player, o.generator.Generate)
	if !joined {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("player already in session")
		return
	}

	log.Info().Str("session_id", sessionID).Str("player", player).Msg("player joined")

	msg, err := events.WithData(events.TypeAssignCard, player, card)
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("failed to encode assigned card")
	} else {
		o.broadcaster.ToPlayer(sessionID, player, msg)
	}
	o.broadcaster.ToRoom(sessionID, events.UpdatePlayers(sess.Players()))
}

// Leave removes the player from the session, discarding its card. Leaving an
// unknown session or being absent is a logged no-op.
func (o *Orchestrator) Leave(sessionID, player string) {
	if !validName(player) {
		log.Warn().Str("session_id", sessionID).Msg("leave dropped: blank player name")
		return
	}

	sess, ok := o.registry.Get(sessionID)
	if !ok {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("leave ignored: session not found")
		return
	}
	if !sess.Leave(player) {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("leave ignored: player not in session")
		return
	}
	log.Info().Str("session_id", sessionID).Str("player", player).Msg("player left")
	o.broadcaster.ToRoom(sessionID, events.UpdatePlayers(sess.Players()))
}

// RequestGameStart starts the game immediately when enough players joined,
// otherwise the room is told how many are needed.
func (o *Orchestrator) RequestGameStart(sessionID, player string) {
	if !validName(player) {
		log.Warn().Str("session_id", sessionID).Msg("game start dropped: blank player name")
		return
	}

	count := 0
	if sess, ok := o.registry.Get(sessionID); ok {
		count = sess.PlayerCount()
	}
	if count < o.minPlayers {
		log.Warn().Str("session_id", sessionID).Int("players", count).Msg("game start rejected: not enough players")
		o.broadcaster.ToRoom(sessionID, events.Note(events.TypeNotify, "",
			fmt.Sprintf("At least %d players are needed to start the game.", o.minPlayers)))
		return
	}

	log.Info().Str("session_id", sessionID).Str("player", player).Msg("game started")
	o.broadcaster.ToRoom(sessionID, events.GameStarted(player))
}

// RequestTimer asks the countdown coordinator to start or extend the
// session's countdown.
func (o *Orchestrator) RequestTimer(sessionID, player string) {
	if !validName(player) {
		log.Warn().Str("session_id", sessionID).Msg("timer request dropped: blank player name")
		return
	}
	o.timers.RequestStart(sessionID, player)
}

// ManualDraw draws one ball on demand through the same locked path the
// automatic scheduler uses. Against an absent session the room gets an ERROR
// notice; a finished session or empty pool is already logged by the drawer.
func (o *Orchestrator) ManualDraw(sessionID string) {
	if _, err := o.drawer.DrawOne(sessionID); errors.Is(err, session.ErrNotFound) {
		o.broadcaster.ToRoom(sessionID, events.Note(events.TypeError, "", "Could not draw a new ball."))
	}
}

// AnnounceBingo validates the player's declaration. A valid bingo ends the
// game; an invalid one suspends the declaring player. Invalid declarations
// are a first-class outcome, not an error.
func (o *Orchestrator) AnnounceBingo(sessionID, player string) {
	if !validName(player) {
		log.Warn().Str("session_id", sessionID).Msg("bingo announcement dropped: blank player name")
		return
	}

	sess, ok := o.registry.Get(sessionID)
	if !ok {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("bingo announced against unknown session")
		o.broadcaster.ToPlayer(sessionID, player, events.Note(events.TypeError, player, "Game session not found."))
		return
	}

	var cardRef *cards.Card
	if card, hasCard := sess.CardFor(player); hasCard {
		cardRef = &card
	} else {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("player has no assigned card")
	}

	if cards.IsWinning(cardRef, sess.DrawnSet()) {
		log.Info().Str("session_id", sessionID).Str("player", player).Msg("valid bingo announced")
		o.broadcaster.ToRoom(sessionID, events.GameOver(player))
		o.EndSession(sessionID)
		return
	}

	log.Warn().Str("session_id", sessionID).Str("player", player).Msg("invalid bingo announced")
	o.suspendPlayer(sessionID, sess, player)
}

// SyncState replays the drawn balls and the player's card, for late joins
// and reconnects.
func (o *Orchestrator) SyncState(sessionID, player string) {
	if !validName(player) {
		log.Warn().Str("session_id", sessionID).Msg("state sync dropped: blank player name")
		return
	}

	sess, ok := o.registry.Get(sessionID)
	if !ok {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("state sync against unknown session")
		o.broadcaster.ToPlayer(sessionID, player, events.Note(events.TypeError, player, "Game session not found."))
		return
	}

	balls, card, hasCard := sess.Snapshot(player)
	payload := syncStatePayload{DrawnBalls: balls}
	if hasCard {
		payload.BingoCard = &card
	}

	msg, err := events.WithData(events.TypeSyncState, player, payload)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Str("player", player).Msg("failed to encode state sync")
		return
	}
	o.broadcaster.ToPlayer(sessionID, player, msg)
	log.Info().Str("session_id", sessionID).Str("player", player).Msg("state synced")
}

// EndSession marks the game over, clears its state, cancels a running
// countdown and removes the session from the registry. Ending an absent
// session is a logged no-op.
func (o *Orchestrator) EndSession(sessionID string) {
	sess, ok := o.registry.Get(sessionID)
	if !ok {
		log.Warn().Str("session_id", sessionID).Msg("attempted to end a non-existent session")
		return
	}

	sess.End()
	o.timers.Cancel(sessionID)
	o.registry.Remove(sessionID)
	log.Info().Str("session_id", sessionID).Msg("session ended and cleared")

	o.broadcaster.ToRoom(sessionID, events.Note(events.TypeSessionEnded, "",
		"The session has ended. Return to the lobby to start a new game."))
}

// suspendPlayer removes a player who declared an invalid bingo and notifies
// both the player and the room.
func (o *Orchestrator) suspendPlayer(sessionID string, sess *session.Session, player string) {
	if !sess.Leave(player) {
		log.Warn().Str("session_id", sessionID).Str("player", player).Msg("suspension ignored: player not in session")
		return
	}
	log.Info().Str("session_id", sessionID).Str("player", player).Msg("player suspended")

	o.broadcaster.ToPlayer(sessionID, player, events.Note(events.TypePlayerSuspended, player,
		"You have been suspended for declaring an invalid bingo. You will be returned to the lobby."))
	o.broadcaster.ToRoom(sessionID, events.UpdatePlayers(sess.Players()))
	o.broadcaster.ToRoom(sessionID, events.Note(events.TypeNotify, "",
		fmt.Sprintf("%s has been suspended for declaring an invalid bingo.", player)))
}

func validName(player string) bool {
	return strings.TrimSpace(player) != ""
}
