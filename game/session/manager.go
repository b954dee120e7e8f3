package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mossgate/emberline/game/combat"
	"github.com/mossgate/emberline/scheduler"
)

// Manager defaults.
const (
	DefaultIdleTTL       = 30 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

const sweepTaskName = "session-sweep"

// ManagerConfig configures a Manager. Zero fields fall back to defaults.
type ManagerConfig struct {
	// Engine is shared by every session the manager creates.
	Engine *combat.Engine
	// HistoryCap is handed to each session's controller.
	HistoryCap int
	// IdleTTL is how long an untouched session survives a sweep.
	IdleTTL time.Duration
	// SweepInterval is how often the scheduler runs the idle sweep. Only used
	// when Scheduler is set; without one, call Sweep yourself.
	SweepInterval time.Duration
	Scheduler     *scheduler.Scheduler
	Logger        *zap.Logger
}

// Manager tracks the live battle sessions, keyed by session ID. Sessions that
// go untouched past the idle TTL are swept away.
type Manager struct {
	mu       sync.RWMutex
	engine   *combat.Engine
	sessions map[string]*sessionEntry
	histCap  int
	idleTTL  time.Duration
	sched    *scheduler.Scheduler
	logger   *zap.Logger
	now      func() time.Time
}

type sessionEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewManager builds a manager and, when a scheduler is supplied, registers
// the periodic idle sweep on it.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Engine == nil {
		cfg.Engine = combat.NewEngine(combat.EngineConfig{})
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	m := &Manager{
		engine:   cfg.Engine,
		sessions: make(map[string]*sessionEntry),
		histCap:  cfg.HistoryCap,
		idleTTL:  cfg.IdleTTL,
		sched:    cfg.Scheduler,
		logger:   cfg.Logger,
		now:      time.Now,
	}
	if m.sched != nil {
		m.sched.Every(sweepTaskName, cfg.SweepInterval, func() { m.Sweep() })
	}
	return m
}

// Create opens a new session over the given initial state and returns its ID
// and controller.
func (m *Manager) Create(initial *combat.CombatState) (string, *Controller) {
	if initial == nil {
		initial = combat.NewCombatState(nil, nil)
	}
	ctrl := NewController(Config{
		Engine:     m.engine,
		Initial:    initial,
		HistoryCap: m.histCap,
		Logger:     m.logger,
	})
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &sessionEntry{ctrl: ctrl, lastSeen: m.now()}
	m.mu.Unlock()
	m.logger.Info("battle session created",
		zap.String("session", id),
		zap.Int("players", len(initial.Players)),
		zap.Int("enemies", len(initial.Enemies)))
	return id, ctrl
}

// Get returns the controller for a session and marks it as touched.
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.ctrl, true
}

// Close removes a session, stopping any playback it had running. It reports
// whether the session existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	e.ctrl.Pause()
	m.logger.Info("battle session closed", zap.String("session", id))
	return true
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the open session IDs in no particular order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Sweep removes sessions idle past the TTL and returns how many it evicted.
// Finished battles are kept until they go idle too; players replay them.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTTL)
	var evicted []*sessionEntry
	m.mu.Lock()
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e)
			delete(m.sessions, id)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()
	for _, e := range evicted {
		e.ctrl.Pause()
	}
	if len(evicted) > 0 {
		m.logger.Info("idle sessions swept",
			zap.Int("evicted", len(evicted)),
			zap.Int("remaining", remaining))
	}
	return len(evicted)
}

// Stop unregisters the sweep task. Open sessions stay usable.
func (m *Manager) Stop() {
	if m.sched != nil {
		m.sched.Cancel(sweepTaskName)
	}
}
