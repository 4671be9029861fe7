package timer

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/cards"
	"github.com/granbuda/bingo/go/internal/game/events"
	"github.com/granbuda/bingo/go/internal/game/session"
)

const testCountdown = 3

func newTestCoordinator(clock clockwork.Clock) (*Coordinator, *session.Registry, *broadcast.Recorder) {
	registry := session.NewRegistry()
	recorder := broadcast.NewRecorder()
	return NewCoordinator(registry, recorder, clock, testCountdown, DefaultMinPlayers), registry, recorder
}

func joinPlayers(t *testing.T, registry *session.Registry, sessionID string, players ...string) {
	t.Helper()
	gen := cards.NewGenerator()
	sess := registry.GetOrCreate(sessionID)
	for _, p := range players {
		_, ok := sess.Join(p, gen.Generate)
		require.True(t, ok)
	}
}

func TestRequestStartTooFewPlayers(t *testing.T) {
	coord, registry, recorder := newTestCoordinator(clockwork.NewFakeClock())
	joinPlayers(t, registry, "lobby", "alice", "bob")

	coord.RequestStart("lobby", "alice")

	state, _ := coord.State("lobby")
	assert.Equal(t, Idle, state)

	msgs := recorder.OfType(events.TypeNotify)
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].Target)
	assert.Contains(t, msgs[0].Message.Data, "At least 3 players")
	assert.Empty(t, recorder.OfType(events.TypeTimerStarted))
}

func TestRequestStartRunsCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	coord, registry, recorder := newTestCoordinator(clock)
	joinPlayers(t, registry, "lobby", "alice", "bob", "carol")

	coord.RequestStart("lobby", "alice")

	state, remaining := coord.State("lobby")
	assert.Equal(t, Running, state)
	assert.Equal(t, testCountdown, remaining)

	started := recorder.OfType(events.TypeTimerStarted)
	require.Len(t, started, 1)
	assert.Equal(t, fmt.Sprintf("The game starts in %d seconds.", testCountdown), started[0].Message.Data)

	for i := 0; i < testCountdown-1; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
	}
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	require.Eventually(t, func() bool {
		return len(recorder.OfType(events.TypeGameStarted)) == 1
	}, time.Second, time.Millisecond)

	gs := recorder.OfType(events.TypeGameStarted)[0]
	assert.Equal(t, "alice", gs.Message.Player)
	state, _ = coord.State("lobby")
	assert.Equal(t, Idle, state)
}

func TestExtensionGrantedExactlyOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	coord, registry, recorder := newTestCoordinator(clock)
	joinPlayers(t, registry, "lobby", "alice", "bob", "carol")

	coord.RequestStart("lobby", "alice")
	coord.RequestStart("lobby", "bob")

	state, _ := coord.State("lobby")
	assert.Equal(t, ExtensionQueued, state)
	require.Len(t, recorder.OfType(events.TypeTimerQueued), 1)

	// Further requests while the extension is queued change nothing.
	coord.RequestStart("lobby", "carol")
	assert.Len(t, recorder.OfType(events.TypeTimerQueued), 1)
	assert.Len(t, recorder.OfType(events.TypeTimerStarted), 1)

	// Run the first countdown out; expiry grants the queued extension.
	for i := 0; i < testCountdown; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
	}
	require.Eventually(t, func() bool {
		return len(recorder.OfType(events.TypeTimerExtended)) == 1
	}, time.Second, time.Millisecond)
	assert.Empty(t, recorder.OfType(events.TypeGameStarted))

	state, remaining := coord.State("lobby")
	assert.Equal(t, Running, state)
	assert.Equal(t, testCountdown, remaining)

	// A request after the extension was spent is ignored.
	coord.RequestStart("lobby", "carol")
	assert.Len(t, recorder.OfType(events.TypeTimerQueued), 1)

	// The extended countdown ends in a game start by the original requester.
	for i := 0; i < testCountdown; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
	}
	require.Eventually(t, func() bool {
		return len(recorder.OfType(events.TypeGameStarted)) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "alice", recorder.OfType(events.TypeGameStarted)[0].Message.Player)
	assert.Len(t, recorder.OfType(events.TypeTimerExtended), 1)
}

func TestCancelStopsCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	coord, registry, recorder := newTestCoordinator(clock)
	joinPlayers(t, registry, "lobby", "alice", "bob", "carol")

	coord.RequestStart("lobby", "alice")
	clock.BlockUntil(1)

	coord.Cancel("lobby")
	state, _ := coord.State("lobby")
	assert.Equal(t, Idle, state)

	clock.Advance(time.Second)
	assert.Never(t, func() bool {
		return len(recorder.OfType(events.TypeGameStarted)) > 0
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestCancelUnknownSessionIsNoOp(t *testing.T) {
	coord, _, _ := newTestCoordinator(clockwork.NewFakeClock())
	coord.Cancel("nope")
}
