package draw

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/events"
	"github.com/granbuda/bingo/go/internal/game/session"
)

func newTestScheduler(clock clockwork.Clock) (*Scheduler, *session.Registry, *broadcast.Recorder) {
	registry := session.NewRegistry()
	recorder := broadcast.NewRecorder()
	return NewScheduler(registry, recorder, clock, 5*time.Second), registry, recorder
}

func TestDrawOneBroadcastsBall(t *testing.T) {
	sched, registry, recorder := newTestScheduler(clockwork.NewFakeClock())
	registry.GetOrCreate("lobby")

	ball, err := sched.DrawOne("lobby")
	require.NoError(t, err)
	require.GreaterOrEqual(t, ball, 1)
	require.LessOrEqual(t, ball, 75)

	msgs := recorder.OfType(events.TypeNewBalls)
	require.Len(t, msgs, 1)
	assert.Equal(t, "lobby", msgs[0].SessionID)
	assert.Empty(t, msgs[0].Target, "new balls go to the room")
	assert.Equal(t, fmt.Sprintf("[%d]", ball), msgs[0].Message.Data)
}

func TestDrawOneUnknownSession(t *testing.T) {
	sched, _, recorder := newTestScheduler(clockwork.NewFakeClock())

	_, err := sched.DrawOne("nope")
	require.ErrorIs(t, err, session.ErrNotFound)
	assert.Empty(t, recorder.Messages(), "no broadcast for an absent session")
}

func TestDrawOneFinishedSession(t *testing.T) {
	sched, registry, recorder := newTestScheduler(clockwork.NewFakeClock())
	registry.GetOrCreate("lobby").End()

	_, err := sched.DrawOne("lobby")
	require.ErrorIs(t, err, session.ErrGameOver)
	assert.Empty(t, recorder.Messages())
}

func TestDrawOneExhaustsPool(t *testing.T) {
	sched, registry, recorder := newTestScheduler(clockwork.NewFakeClock())
	registry.GetOrCreate("lobby")

	for i := 0; i < 75; i++ {
		_, err := sched.DrawOne("lobby")
		require.NoError(t, err)
	}
	_, err := sched.DrawOne("lobby")
	require.ErrorIs(t, err, session.ErrBallsExhausted)
	assert.Len(t, recorder.OfType(events.TypeNewBalls), 75)
}

func TestRunDrawsForActiveSessionsOnly(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sched, registry, _ := newTestScheduler(clock)

	active := registry.GetOrCreate("active")
	finished := registry.GetOrCreate("finished")
	finished.End()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		return len(active.DrawnBalls()) == 1
	}, time.Second, time.Millisecond)

	clock.BlockUntil(1)
	clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		return len(active.DrawnBalls()) == 2
	}, time.Second, time.Millisecond)

	assert.Empty(t, finished.DrawnBalls(), "finished sessions are skipped")
}
