package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossgate/emberline/game/combat"
	"github.com/mossgate/emberline/scheduler"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(ManagerConfig{
		Engine: combat.NewEngine(combat.EngineConfig{Library: testLibrary()}),
	})
}

func TestManager_CreateGetClose(t *testing.T) {
	m := newTestManager(t)

	id, ctrl := m.Create(duelState())
	require.NotEmpty(t, id)
	require.NotNil(t, ctrl)
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Same(t, ctrl, got)

	assert.True(t, m.Close(id))
	assert.Equal(t, 0, m.Len())
	_, ok = m.Get(id)
	assert.False(t, ok)
	assert.False(t, m.Close(id), "closing twice is a no-op")
}

func TestManager_CreateNilInitial(t *testing.T) {
	m := newTestManager(t)
	_, ctrl := m.Create(nil)
	assert.Equal(t, combat.BattleOngoing, ctrl.Status())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newTestManager(t)
	_, a := m.Create(duelState())
	_, b := m.Create(duelState())

	a.Step()
	assert.Equal(t, 1, a.TickNumber())
	assert.Equal(t, 0, b.TickNumber())
}

func TestManager_IDs(t *testing.T) {
	m := newTestManager(t)
	id1, _ := m.Create(duelState())
	id2, _ := m.Create(duelState())

	assert.ElementsMatch(t, []string{id1, id2}, m.IDs())
}

func TestManager_SweepEvictsIdleOnly(t *testing.T) {
	m := NewManager(ManagerConfig{
		Engine:  combat.NewEngine(combat.EngineConfig{Library: testLibrary()}),
		IdleTTL: 10 * time.Minute,
	})
	stale, _ := m.Create(duelState())
	fresh, _ := m.Create(duelState())

	// An hour passes; only one session gets touched.
	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, ok := m.Get(fresh)
	require.True(t, ok)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	_, ok = m.Get(fresh)
	assert.True(t, ok, "the touched session survived")
	_, ok = m.Get(stale)
	assert.False(t, ok)
}

func TestManager_SweepKeepsActiveSessions(t *testing.T) {
	m := newTestManager(t)
	m.Create(duelState())
	m.Create(duelState())

	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 2, m.Len())
}

func TestManager_SchedulerDrivesSweep(t *testing.T) {
	sched := scheduler.New(nil)
	defer sched.Stop()

	m := NewManager(ManagerConfig{
		Engine:        combat.NewEngine(combat.EngineConfig{Library: testLibrary()}),
		IdleTTL:       time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
		Scheduler:     sched,
	})
	assert.Contains(t, sched.Names(), "session-sweep")

	m.Create(duelState())
	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond,
		"the scheduled sweep evicts the idle session")

	m.Stop()
	assert.NotContains(t, sched.Names(), "session-sweep")
}

func TestManager_StopWithoutScheduler(t *testing.T) {
	m := newTestManager(t)
	m.Stop()
}
