package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossgate/emberline/game/combat"
)

// instantPacer releases ticks as fast as the loop can take them.
type instantPacer struct{}

func (instantPacer) Wait(ctx context.Context) error { return ctx.Err() }

// blockPacer never releases a tick until the context dies.
type blockPacer struct{}

func (blockPacer) Wait(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPlay_RunsToEnd(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	ch, err := c.Play(context.Background(), instantPacer{})
	require.NoError(t, err)

	var results []combat.TickResult
	for res := range ch {
		results = append(results, res)
	}
	require.Len(t, results, 3)
	assert.True(t, results[2].Ended)
	assert.Equal(t, combat.BattleVictory, c.Status())
	require.Eventually(t, func() bool { return !c.Playing() }, time.Second, 5*time.Millisecond)
}

func TestPlay_SecondPlayRejected(t *testing.T) {
	c := newTestController(t, idleState(), 0)

	ch, err := c.Play(context.Background(), blockPacer{})
	require.NoError(t, err)

	_, err = c.Play(context.Background(), blockPacer{})
	assert.ErrorIs(t, err, ErrAlreadyPlaying)

	c.Pause()
	for range ch {
	}
	require.Eventually(t, func() bool { return !c.Playing() }, time.Second, 5*time.Millisecond)

	// Once the first playback stopped a new one may start.
	ch, err = c.Play(context.Background(), blockPacer{})
	require.NoError(t, err)
	c.Pause()
	for range ch {
	}
}

func TestPlay_PauseStops(t *testing.T) {
	c := newTestController(t, idleState(), 0)

	ch, err := c.Play(context.Background(), instantPacer{})
	require.NoError(t, err)

	c.Pause()
	for range ch {
	}
	require.Eventually(t, func() bool { return !c.Playing() }, time.Second, 5*time.Millisecond)

	// The battle holds still once paused.
	tick := c.TickNumber()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, tick, c.TickNumber())
}

func TestPlay_ContextCancelStops(t *testing.T) {
	c := newTestController(t, idleState(), 0)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := c.Play(ctx, blockPacer{})
	require.NoError(t, err)

	cancel()
	for range ch {
	}
	require.Eventually(t, func() bool { return !c.Playing() }, time.Second, 5*time.Millisecond)
}

func TestPlay_FinishedBattleRefused(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	runToEnd(t, c)

	_, err := c.Play(context.Background(), instantPacer{})
	assert.ErrorIs(t, err, ErrBattleOver)
}

func TestPlay_PauseWhenIdleIsHarmless(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	c.Pause()
	assert.False(t, c.Playing())
}

func TestNewRatePacer_DefaultRate(t *testing.T) {
	p := NewRatePacer(0)
	require.NotNil(t, p)
	// Burst of one: the first wait returns immediately.
	require.NoError(t, p.Wait(context.Background()))
}

func TestNewRatePacer_PacesTicks(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	// 100 ticks/s: three ticks should land well within a second.
	start := time.Now()
	ch, err := c.Play(context.Background(), NewRatePacer(100))
	require.NoError(t, err)
	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, 3, n)
	assert.Less(t, time.Since(start), time.Second)
}
