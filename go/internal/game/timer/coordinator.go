// Package timer runs the pre-game countdown per session: a 30 second timer
// with at most one extension per lifetime, ending in a game start.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/events"
	"github.com/granbuda/bingo/go/internal/game/session"
)

// State of a session's countdown.
type State int

const (
	Idle State = iota
	Running
	ExtensionQueued
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ExtensionQueued:
		return "extension_queued"
	default:
		return "idle"
	}
}

const (
	// DefaultCountdownSeconds is the initial and extension grant.
	DefaultCountdownSeconds = 30
	// DefaultMinPlayers is the minimum room size to start a countdown.
	DefaultMinPlayers = 3
)

// Coordinator owns one countdown per session. Only one countdown can be
// active per session; a start request while one runs queues the single
// permitted extension instead of spawning a second countdown.
type Coordinator struct {
	registry         *session.Registry
	broadcaster      broadcast.Broadcaster
	clock            clockwork.Clock
	countdownSeconds int
	minPlayers       int

	mu         sync.Mutex
	countdowns map[string]*countdown
}

type countdown struct {
	state         State
	remaining     int
	extensionUsed bool
	requestedBy   string
	cancel        context.CancelFunc
}

// NewCoordinator returns a coordinator over the registry. Non-positive
// countdownSeconds or minPlayers fall back to the defaults.
func NewCoordinator(registry *session.Registry, broadcaster broadcast.Broadcaster, clock clockwork.Clock, countdownSeconds, minPlayers int) *Coordinator {
	if countdownSeconds <= 0 {
		countdownSeconds = DefaultCountdownSeconds
	}
	if minPlayers <= 0 {
		minPlayers = DefaultMinPlayers
	}
	return &Coordinator{
		registry:         registry,
		broadcaster:      broadcaster,
		clock:            clock,
		countdownSeconds: countdownSeconds,
		minPlayers:       minPlayers,
		countdowns:       make(map[string]*countdown),
	}
}

// RequestStart handles a player's start request. With too few players the
// room gets a notice and nothing changes. Otherwise the first request starts
// the countdown, a second request while it runs queues the one permitted
// extension, and any further request is a silent no-op.
func (c *Coordinator) RequestStart(sessionID, by string) {
	count := 0
	if sess, ok := c.registry.Get(sessionID); ok {
		count = sess.PlayerCount()
	}
	if count < c.minPlayers {
		log.Warn().
			Str("session_id", sessionID).
			Str("player", by).
			Int("players", count).
			Msg("countdown not started: not enough players")
		c.broadcaster.ToRoom(sessionID, events.Note(events.TypeNotify, "",
			fmt.Sprintf("At least %d players are needed to start the game.", c.minPlayers)))
		return
	}

	c.mu.Lock()
	cd := c.countdowns[sessionID]
	switch {
	case cd == nil:
		ctx, cancel := context.WithCancel(context.Background())
		cd = &countdown{
			state:       Running,
			remaining:   c.countdownSeconds,
			requestedBy: by,
			cancel:      cancel,
		}
		c.countdowns[sessionID] = cd
		go c.run(ctx, sessionID, cd)
		c.mu.Unlock()

		log.Info().Str("session_id", sessionID).Str("player", by).Msg("countdown started")
		c.broadcaster.ToRoom(sessionID, events.Note(events.TypeTimerStarted, "",
			fmt.Sprintf("The game starts in %d seconds.", c.countdownSeconds)))

	case cd.state == Running && !cd.extensionUsed:
		cd.extensionUsed = true
		cd.state = ExtensionQueued
		c.mu.Unlock()

		log.Info().Str("session_id", sessionID).Str("player", by).Msg("countdown extension queued")
		c.broadcaster.ToRoom(sessionID, events.Note(events.TypeTimerQueued, "",
			fmt.Sprintf("The countdown will be extended by %d seconds when it runs out.", c.countdownSeconds)))

	default:
		c.mu.Unlock()
		log.Debug().Str("session_id", sessionID).Str("player", by).Msg("countdown start request ignored")
	}
}

// State returns the countdown state and remaining seconds for a session.
func (c *Coordinator) State(sessionID string) (State, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cd := c.countdowns[sessionID]
	if cd == nil {
		return Idle, 0
	}
	return cd.state, cd.remaining
}

// Cancel stops the session's countdown, if any. Used when a session ends.
func (c *Coordinator) Cancel(sessionID string) {
	c.mu.Lock()
	cd := c.countdowns[sessionID]
	if cd != nil {
		cd.cancel()
		delete(c.countdowns, sessionID)
	}
	c.mu.Unlock()
	if cd != nil {
		log.Info().Str("session_id", sessionID).Msg("countdown cancelled")
	}
}

// run decrements the countdown once per second until it expires or is
// cancelled. The timer is re-armed only after the tick is processed, so the
// loop never falls behind its own ticks.
func (c *Coordinator) run(ctx context.Context, sessionID string, cd *countdown) {
	timer := c.clock.NewTimer(time.Second)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.Chan():
			if done := c.tick(sessionID, cd); done {
				return
			}
			timer.Reset(time.Second)
		}
	}
}

// tick processes one second of countdown and reports whether the countdown
// finished. Expiry with a queued extension grants the reset exactly once;
// expiry without one emits the game start with the original requester.
func (c *Coordinator) tick(sessionID string, cd *countdown) bool {
	c.mu.Lock()
	cd.remaining--
	if cd.remaining > 0 {
		remaining := cd.remaining
		c.mu.Unlock()
		log.Debug().Str("session_id", sessionID).Int("remaining", remaining).Msg("countdown tick")
		return false
	}

	if cd.state == ExtensionQueued {
		cd.state = Running
		cd.remaining = c.countdownSeconds
		c.mu.Unlock()

		log.Info().Str("session_id", sessionID).Msg("countdown extended")
		c.broadcaster.ToRoom(sessionID, events.Note(events.TypeTimerExtended, "",
			fmt.Sprintf("The countdown was extended by %d seconds.", c.countdownSeconds)))
		return false
	}

	starter := cd.requestedBy
	delete(c.countdowns, sessionID)
	c.mu.Unlock()

	log.Info().Str("session_id", sessionID).Str("starter", starter).Msg("countdown finished, game starting")
	c.broadcaster.ToRoom(sessionID, events.GameStarted(starter))
	return true
}
