package session

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mossgate/emberline/game/combat"
)

// DefaultTicksPerSecond paces playback when no pacer is supplied.
const DefaultTicksPerSecond = 2

const playbackBuffer = 16

// Pacer spaces automatic playback. Wait blocks until the next tick may run.
type Pacer interface {
	Wait(ctx context.Context) error
}

type ratePacer struct {
	lim *rate.Limiter
}

// NewRatePacer builds a pacer releasing ticksPerSecond ticks, one at a time.
func NewRatePacer(ticksPerSecond float64) Pacer {
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}
	return &ratePacer{lim: rate.NewLimiter(rate.Limit(ticksPerSecond), 1)}
}

func (p *ratePacer) Wait(ctx context.Context) error { return p.lim.Wait(ctx) }

// Play advances the battle on a timer until it ends, the context is
// cancelled, or Pause is called. Tick results arrive on the returned channel,
// which closes when playback stops. A nil pacer gets the default rate.
func (c *Controller) Play(ctx context.Context, p Pacer) (<-chan combat.TickResult, error) {
	if p == nil {
		p = NewRatePacer(DefaultTicksPerSecond)
	}
	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return nil, ErrAlreadyPlaying
	}
	if c.current().Status.Terminal() {
		c.mu.Unlock()
		return nil, ErrBattleOver
	}
	ctx, cancel := context.WithCancel(ctx)
	c.playing = true
	c.playStop = cancel
	c.mu.Unlock()

	out := make(chan combat.TickResult, playbackBuffer)
	go c.playLoop(ctx, p, out)
	return out, nil
}

func (c *Controller) playLoop(ctx context.Context, p Pacer, out chan<- combat.TickResult) {
	defer close(out)
	defer func() {
		c.mu.Lock()
		stop := c.playStop
		c.playing = false
		c.playStop = nil
		c.mu.Unlock()
		if stop != nil {
			stop()
		}
	}()
	for {
		if err := p.Wait(ctx); err != nil {
			return
		}
		res := c.Step()
		select {
		case out <- res:
		case <-ctx.Done():
			return
		}
		if res.Ended {
			c.logger.Info("playback finished",
				zap.Int("tick", res.State.TickNumber),
				zap.String("status", string(res.State.Status)))
			return
		}
	}
}

// Pause stops a running playback. Safe to call when nothing is playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	stop := c.playStop
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Playing reports whether a playback loop is running.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}
