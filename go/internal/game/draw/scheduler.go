// Package draw owns ball draws: the on-demand draw used by manual requests
// and the periodic loop that drives every active session.
package draw

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/events"
	"github.com/granbuda/bingo/go/internal/game/session"
)

// DefaultInterval is the period between automatic draws per session.
const DefaultInterval = 5 * time.Second

// Scheduler draws balls for active sessions, both on demand and on a fixed
// period. Automatic and manual draws share the same session-locked path.
type Scheduler struct {
	registry    *session.Registry
	broadcaster broadcast.Broadcaster
	clock       clockwork.Clock
	interval    time.Duration
}

// NewScheduler returns a scheduler over the registry. A zero interval falls
// back to DefaultInterval.
func NewScheduler(registry *session.Registry, broadcaster broadcast.Broadcaster, clock clockwork.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		registry:    registry,
		broadcaster: broadcaster,
		clock:       clock,
		interval:    interval,
	}
}

// DrawOne draws a fresh ball for the session and broadcasts it to the room.
// An absent session returns session.ErrNotFound; a finished session or an
// exhausted pool is a logged no-op that returns the sentinel error.
func (s *Scheduler) DrawOne(sessionID string) (int, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		log.Warn().Str("session_id", sessionID).Msg("cannot draw ball: session not found")
		return 0, session.ErrNotFound
	}

	ball, err := sess.DrawBall()
	if err != nil {
		switch {
		case errors.Is(err, session.ErrGameOver):
			log.Debug().Str("session_id", sessionID).Msg("skipping draw: game is over")
		case errors.Is(err, session.ErrBallsExhausted):
			log.Info().Str("session_id", sessionID).Msg("all balls have been drawn")
		default:
			log.Error().Err(err).Str("session_id", sessionID).Msg("ball draw failed")
		}
		return 0, err
	}

	msg, err := events.NewBalls(ball)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to encode drawn ball")
		return ball, nil
	}
	s.broadcaster.ToRoom(sessionID, msg)
	log.Info().Str("session_id", sessionID).Int("ball", ball).Msg("ball drawn")
	return ball, nil
}

// Run drives automatic draws until ctx is cancelled: every interval it draws
// one ball for each live, non-over session. Finished sessions are skipped by
// a stateless check each tick; no unsubscribe bookkeeping is needed.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("ball draw scheduler started")

	timer := s.clock.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("ball draw scheduler shutting down")
			return
		case <-timer.Chan():
			s.tick()
			timer.Reset(s.interval)
		}
	}
}

func (s *Scheduler) tick() {
	for _, id := range s.registry.IDs() {
		sess, ok := s.registry.Get(id)
		if !ok || sess.Over() {
			continue
		}
		s.DrawOne(id)
	}
}
