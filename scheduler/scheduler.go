// Package scheduler runs named background tasks on intervals or after
// delays. Tasks are keyed by name so registering again replaces the old one,
// and a panicking task is logged instead of taking the process down.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of scheduled work.
type Task func()

// Scheduler owns a set of named recurring and one-shot tasks.
type Scheduler struct {
	mu     sync.Mutex
	cancel map[string]context.CancelFunc
	base   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a Scheduler. A nil logger disables logging.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, stop := context.WithCancel(context.Background())
	return &Scheduler{
		cancel: make(map[string]context.CancelFunc),
		base:   base,
		stop:   stop,
		logger: logger,
	}
}

// Every runs fn on the given interval until cancelled. Registering a name
// that already exists replaces the previous task.
func (s *Scheduler) Every(name string, interval time.Duration, fn Task) {
	ctx := s.register(name)
	if ctx == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(name, fn)
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("task scheduled",
		zap.String("task", name),
		zap.Duration("interval", interval))
}

// Once runs fn a single time after the given delay, unless cancelled first.
func (s *Scheduler) Once(name string, delay time.Duration, fn Task) {
	ctx := s.register(name)
	if ctx == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			s.run(name, fn)
			s.unregister(name)
		case <-ctx.Done():
		}
	}()
}

// Cancel stops the named task. Unknown names are a no-op.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cancel[name]; ok {
		c()
		delete(s.cancel, name)
	}
}

// Stop cancels every task and waits for their goroutines to exit. The
// scheduler is unusable afterwards.
func (s *Scheduler) Stop() {
	s.stop()
	s.mu.Lock()
	s.cancel = nil
	s.mu.Unlock()
	s.wg.Wait()
}

// Names returns the currently registered task names.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.cancel))
	for name := range s.cancel {
		names = append(names, name)
	}
	return names
}

// register claims a name, cancelling any previous holder. Returns nil when
// the scheduler is already stopped.
func (s *Scheduler) register(name string) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil || s.base.Err() != nil {
		return nil
	}
	if old, ok := s.cancel[name]; ok {
		old()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel[name] = cancel
	return ctx
}

func (s *Scheduler) unregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cancel[name]; ok {
		c()
		delete(s.cancel, name)
	}
}

// run executes one task invocation, containing panics.
func (s *Scheduler) run(name string, fn Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked",
				zap.String("task", name),
				zap.Any("panic", r))
		}
	}()
	fn()
}
