package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossgate/emberline/game/combat"
)

func testLibrary() *combat.SkillLibrary {
	return combat.NewSkillLibrary(
		combat.Skill{ID: "strike", Name: "Strike", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 10}}},
		combat.Skill{ID: "smite", Name: "Smite", BaseDuration: 2, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 10}}},
		combat.Skill{ID: "claw", Name: "Claw", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 4}}},
		combat.Skill{ID: "barrier", Name: "Barrier", BaseDuration: 1, Targeting: combat.TargetSelf,
			Effects: []combat.Effect{{Kind: combat.EffectShield, Value: 15}}},
		combat.Skill{ID: "mend", Name: "Mend", BaseDuration: 1, Targeting: combat.TargetAllyLowestHPDamaged,
			Effects: []combat.Effect{{Kind: combat.EffectHeal, Value: 12}}},
		combat.Skill{ID: "last-rites", Name: "Last Rites", BaseDuration: 2, Targeting: combat.TargetAllyDead,
			Effects: []combat.Effect{{Kind: combat.EffectRevive, Value: 10}}},
	)
}

func testChar(id, name string, hp int, skills ...string) combat.Character {
	return combat.Character{ID: id, Name: name, MaxHP: hp, CurrentHP: hp, Skills: skills}
}

// duelState is a three-tick fight: the hero's strike (10) finishes the goblin
// (30 HP) on tick 3, eating a claw (4) each tick on the way.
func duelState() *combat.CombatState {
	return combat.NewCombatState(
		[]combat.Character{testChar("hero", "Hero", 50, "strike")},
		[]combat.Character{testChar("goblin", "Goblin", 30, "claw")},
	)
}

// idleState never ends: nobody knows any skills.
func idleState() *combat.CombatState {
	return combat.NewCombatState(
		[]combat.Character{testChar("hero", "Hero", 50)},
		[]combat.Character{testChar("goblin", "Goblin", 30)},
	)
}

func newTestController(t *testing.T, initial *combat.CombatState, historyCap int) *Controller {
	t.Helper()
	return NewController(Config{
		Engine:     combat.NewEngine(combat.EngineConfig{Library: testLibrary()}),
		Initial:    initial,
		HistoryCap: historyCap,
	})
}

// runToEnd steps until the battle is over and returns the final result.
func runToEnd(t *testing.T, c *Controller) combat.TickResult {
	t.Helper()
	for i := 0; i < 100; i++ {
		res := c.Step()
		if res.Ended {
			return res
		}
	}
	t.Fatal("battle did not end within 100 ticks")
	return combat.TickResult{}
}

func TestController_StepAdvances(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	res := c.Step()
	require.Equal(t, 1, res.State.TickNumber)
	assert.Equal(t, 1, c.TickNumber())
	assert.Equal(t, 2, c.HistoryLen())
	assert.Equal(t, combat.BattleOngoing, c.Status())
}

func TestController_StepBackRewinds(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	c.Step()
	c.Step()

	require.True(t, c.StepBack())
	assert.Equal(t, 1, c.TickNumber())
	require.True(t, c.StepBack())
	assert.Equal(t, 0, c.TickNumber())
	assert.False(t, c.StepBack(), "nothing earlier than the initial snapshot")
}

func TestController_StepBackRestoresState(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	c.Step()
	hpAfterOne := c.State().Character("goblin").CurrentHP
	c.Step()

	require.True(t, c.StepBack())
	assert.Equal(t, hpAfterOne, c.State().Character("goblin").CurrentHP)

	// Stepping forward again replays the same tick.
	res := c.Step()
	assert.Equal(t, 2, res.State.TickNumber)
}

func TestController_HistoryCapBoundsWindow(t *testing.T) {
	c := newTestController(t, idleState(), 3)
	for i := 0; i < 5; i++ {
		c.Step()
	}

	assert.Equal(t, 3, c.HistoryLen())
	hist := c.History()
	require.Len(t, hist, 3)
	assert.Equal(t, 3, hist[0].TickNumber, "oldest snapshots were evicted")
	assert.Equal(t, 5, hist[2].TickNumber)

	require.True(t, c.StepBack())
	require.True(t, c.StepBack())
	assert.False(t, c.StepBack(), "cannot rewind past the retained window")
	assert.Equal(t, 3, c.TickNumber())
}

func TestController_StateAt(t *testing.T) {
	c := newTestController(t, idleState(), 0)
	c.Step()
	c.Step()

	s, ok := c.StateAt(1)
	require.True(t, ok)
	assert.Equal(t, 1, s.TickNumber)

	_, ok = c.StateAt(9)
	assert.False(t, ok)
}

func TestController_TerminalStepsDoNotGrowHistory(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	final := runToEnd(t, c)
	require.Equal(t, combat.BattleVictory, final.State.Status)
	lenBefore := c.HistoryLen()
	tickBefore := c.TickNumber()

	res := c.Step()
	assert.True(t, res.Ended)
	assert.Equal(t, tickBefore, res.State.TickNumber)
	assert.Equal(t, lenBefore, c.HistoryLen())
}

func TestController_ResetRestoresInitial(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	require.True(t, c.SetInstructions("hero", combat.CharacterInstructions{Mode: combat.ControlAI}))
	c.Step()
	c.Step()

	c.Reset()
	assert.Equal(t, 0, c.TickNumber())
	assert.Equal(t, 1, c.HistoryLen())
	assert.Equal(t, 50, c.State().Character("hero").CurrentHP)
	assert.Equal(t, 30, c.State().Character("goblin").CurrentHP)

	// Instruction edits are session config, not battle state.
	_, ok := c.Instructions("hero")
	assert.True(t, ok)
}

func TestController_StateIsolated(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	s := c.State()
	s.Character("hero").CurrentHP = 1
	s.Players[0].Name = "Impostor"

	fresh := c.State()
	assert.Equal(t, 50, fresh.Character("hero").CurrentHP)
	assert.Equal(t, "Hero", fresh.Players[0].Name)
}

func TestController_ReplayReproducesHistory(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	c.Step()
	c.Step()

	rep := c.Replay()
	require.Len(t, rep, 3)
	for i, s := range rep {
		assert.Equal(t, i, s.TickNumber)
	}
	assert.Equal(t, c.State(), rep[2], "replayed tick 2 should match the lived one")
	assert.Equal(t, 2, c.TickNumber(), "replay must not advance the battle")
}

func TestController_ReplayOutlivesTheHistoryCap(t *testing.T) {
	c := newTestController(t, idleState(), 3)
	for i := 0; i < 5; i++ {
		c.Step()
	}
	require.Equal(t, 3, c.HistoryLen())

	rep := c.Replay()
	require.Len(t, rep, 6, "replay reaches past the retention window")
	assert.Equal(t, 0, rep[0].TickNumber)
	assert.Equal(t, 5, rep[5].TickNumber)
}

func TestController_ReplayReflectsInstructionEdits(t *testing.T) {
	initial := combat.NewCombatState(
		[]combat.Character{testChar("hero", "Hero", 50, "strike", "barrier")},
		[]combat.Character{testChar("goblin", "Goblin", 30, "claw")},
	)
	c := newTestController(t, initial, 0)
	c.Step()
	require.Equal(t, 20, c.State().Character("goblin").CurrentHP)

	require.True(t, c.SetInstructions("hero", combat.CharacterInstructions{
		Mode: combat.ControlAI,
		Instructions: []combat.SkillInstruction{
			{SkillID: "barrier", Priority: 5, Enabled: true},
		},
	}))

	// The replayed tick 1 follows the edited program, not the lived one.
	rep := c.Replay()
	require.Len(t, rep, 2)
	assert.Equal(t, 30, rep[1].Character("goblin").CurrentHP)
	assert.True(t, rep[1].Character("hero").HasStatus(combat.StatusShielded))

	// The lived timeline is untouched.
	assert.Equal(t, 20, c.State().Character("goblin").CurrentHP)
}

func TestController_SetInstructionsOverridesRules(t *testing.T) {
	initial := combat.NewCombatState(
		[]combat.Character{testChar("hero", "Hero", 50, "strike", "barrier")},
		[]combat.Character{testChar("goblin", "Goblin", 30, "claw")},
	)
	c := newTestController(t, initial, 0)
	require.True(t, c.SetInstructions("hero", combat.CharacterInstructions{
		Mode: combat.ControlAI,
		Instructions: []combat.SkillInstruction{
			{SkillID: "barrier", Priority: 5, Enabled: true},
		},
	}))

	c.Step()
	s := c.State()
	hero := s.Character("hero")
	assert.Equal(t, 30, s.Character("goblin").CurrentHP, "hero raised a barrier instead of striking")
	require.True(t, hero.HasStatus(combat.StatusShielded))
	// The goblin's claw hit the fresh shield, not the hero.
	assert.Equal(t, 50, hero.CurrentHP)

	c.ClearInstructions("hero")
	c.Step()
	s = c.State()
	assert.Equal(t, 20, s.Character("goblin").CurrentHP, "embedded rules picked strike again")
	assert.Equal(t, 50, s.Character("hero").CurrentHP, "shield pool still absorbing")
}

func TestController_SetInstructionsUnknownCharacterIgnored(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	assert.False(t, c.SetInstructions("ghost", combat.CharacterInstructions{Mode: combat.ControlAI}))
	_, ok := c.Instructions("ghost")
	assert.False(t, ok)
}

func TestController_InstructionsReturnsCopies(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	require.True(t, c.SetInstructions("hero", combat.CharacterInstructions{
		Mode: combat.ControlAI,
		Instructions: []combat.SkillInstruction{
			{SkillID: "strike", Priority: 1, Enabled: true},
		},
	}))

	ci, ok := c.Instructions("hero")
	require.True(t, ok)
	ci.Instructions[0].SkillID = "tampered"

	again, _ := c.Instructions("hero")
	assert.Equal(t, "strike", again.Instructions[0].SkillID)
}

func TestController_QueueActionAutoTargets(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	require.NoError(t, c.QueueAction("hero", "strike", nil))

	s := c.State()
	hero := s.Character("hero")
	require.NotNil(t, hero.CurrentAction)
	assert.Equal(t, []string{"goblin"}, hero.CurrentAction.TargetIDs)
	assert.Equal(t, 1, hero.CurrentAction.TicksRemaining)
	require.Len(t, s.ActionQueue, 1)

	// Queuing by hand is not a tick: no new snapshot to rewind to.
	assert.Equal(t, 1, c.HistoryLen())
	assert.False(t, c.StepBack())
}

func TestController_QueueActionDrivesTheTick(t *testing.T) {
	initial := combat.NewCombatState(
		[]combat.Character{testChar("hero", "Hero", 50, "strike", "barrier")},
		[]combat.Character{testChar("goblin", "Goblin", 30, "claw")},
	)
	c := newTestController(t, initial, 0)

	// Embedded rules would pick strike; the player queues barrier instead.
	require.NoError(t, c.QueueAction("hero", "barrier", nil))
	c.Step()

	s := c.State()
	assert.Equal(t, 30, s.Character("goblin").CurrentHP)
	assert.True(t, s.Character("hero").HasStatus(combat.StatusShielded))
}

func TestController_QueueActionValidations(t *testing.T) {
	freshController := func(t *testing.T) *Controller {
		dazed := testChar("dazed", "Dazed", 40, "strike").
			ApplyStatus(combat.StatusEffect{Type: combat.StatusStunned, Duration: 2})
		fallen := testChar("fallen", "Fallen", 40, "strike")
		fallen.CurrentHP = 0
		initial := combat.NewCombatState(
			[]combat.Character{
				testChar("hero", "Hero", 50, "strike", "barrier", "ghost"),
				dazed,
				fallen,
			},
			[]combat.Character{testChar("goblin", "Goblin", 30)},
		)
		return newTestController(t, initial, 0)
	}

	t.Run("unknown character", func(t *testing.T) {
		err := freshController(t).QueueAction("nobody", "strike", nil)
		assert.ErrorIs(t, err, ErrCharacterNotFound)
	})
	t.Run("knocked out", func(t *testing.T) {
		err := freshController(t).QueueAction("fallen", "strike", nil)
		assert.ErrorIs(t, err, ErrCharacterDown)
	})
	t.Run("stunned", func(t *testing.T) {
		err := freshController(t).QueueAction("dazed", "strike", nil)
		assert.ErrorIs(t, err, ErrCharacterStunned)
	})
	t.Run("already casting", func(t *testing.T) {
		c := freshController(t)
		require.NoError(t, c.QueueAction("hero", "strike", nil))
		assert.ErrorIs(t, c.QueueAction("hero", "barrier", nil), ErrCharacterBusy)
	})
	t.Run("skill not known", func(t *testing.T) {
		err := freshController(t).QueueAction("hero", "mend", nil)
		assert.ErrorIs(t, err, ErrSkillNotKnown)
	})
	t.Run("skill not registered", func(t *testing.T) {
		err := freshController(t).QueueAction("hero", "ghost", nil)
		assert.ErrorIs(t, err, ErrSkillNotFound)
	})
	t.Run("unknown target", func(t *testing.T) {
		err := freshController(t).QueueAction("hero", "strike", []string{"nobody"})
		assert.ErrorIs(t, err, ErrTargetNotFound)
	})
	t.Run("no legal targets", func(t *testing.T) {
		initial := combat.NewCombatState(
			[]combat.Character{testChar("hero", "Hero", 50, "last-rites")},
			[]combat.Character{testChar("goblin", "Goblin", 30)},
		)
		c := newTestController(t, initial, 0)
		assert.ErrorIs(t, c.QueueAction("hero", "last-rites", nil), ErrNoTargets)
	})
	t.Run("battle over", func(t *testing.T) {
		c := newTestController(t, duelState(), 0)
		runToEnd(t, c)
		assert.ErrorIs(t, c.QueueAction("hero", "strike", nil), ErrBattleOver)
	})
}

func TestController_ForecastDoesNotAdvance(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	f := c.Forecast(10)
	require.True(t, f.Ended)
	assert.Equal(t, 3, f.EndsAt)
	assert.Equal(t, combat.BattleVictory, f.Final.Status)
	assert.Equal(t, 0, f.From)
	assert.NotEmpty(t, f.Events)

	assert.Equal(t, 0, c.TickNumber())
	assert.Equal(t, 1, c.HistoryLen())
	assert.Equal(t, combat.BattleOngoing, c.Status())
}

func TestController_ForecastStopsAtHorizon(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	f := c.Forecast(1)
	assert.False(t, f.Ended)
	assert.Equal(t, 1, f.Final.TickNumber)
	assert.Equal(t, 0, f.EndsAt)
	assert.Equal(t, 20, f.Final.Character("goblin").CurrentHP)
}

func TestController_ForecastMemoized(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	first := c.Forecast(5)
	cached := c.forecast
	require.NotNil(t, cached)

	second := c.Forecast(5)
	assert.Same(t, cached, c.forecast, "same horizon reuses the cached run")
	assert.NotSame(t, first, second, "callers get copies, never the cache")
	assert.Equal(t, first.Final.TickNumber, second.Final.TickNumber)

	// A different horizon recomputes.
	c.Forecast(1)
	assert.NotSame(t, cached, c.forecast)

	// Any mutation drops the cache.
	c.Forecast(5)
	c.Step()
	assert.Nil(t, c.forecast)
}

func TestController_ForecastCopyIsolated(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	f := c.Forecast(5)
	f.Final.Character("hero").CurrentHP = 1

	again := c.Forecast(5)
	assert.NotEqual(t, 1, again.Final.Character("hero").CurrentHP)
}

func TestController_ForecastSeesInstructionEdits(t *testing.T) {
	initial := combat.NewCombatState(
		[]combat.Character{testChar("hero", "Hero", 50, "strike", "barrier")},
		[]combat.Character{testChar("goblin", "Goblin", 30, "claw")},
	)
	c := newTestController(t, initial, 0)

	f := c.Forecast(1)
	require.Equal(t, 20, f.Final.Character("goblin").CurrentHP)

	require.True(t, c.SetInstructions("hero", combat.CharacterInstructions{
		Mode: combat.ControlAI,
		Instructions: []combat.SkillInstruction{
			{SkillID: "barrier", Priority: 5, Enabled: true},
		},
	}))
	f = c.Forecast(1)
	assert.Equal(t, 30, f.Final.Character("goblin").CurrentHP, "forecast runs on the edited instructions")
}

func TestController_ForecastOnFinishedBattle(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	final := runToEnd(t, c)

	f := c.Forecast(5)
	assert.True(t, f.Ended)
	assert.Equal(t, final.State.TickNumber, f.Final.TickNumber)
	assert.Equal(t, final.State.TickNumber, f.EndsAt)
	assert.Empty(t, f.Events)
}

func TestController_StepWithTrace(t *testing.T) {
	c := newTestController(t, duelState(), 0)

	res, dbg := c.StepWithTrace()
	require.NotNil(t, dbg)
	assert.Equal(t, 1, dbg.Tick)
	assert.Len(t, dbg.Decisions, 2)
	assert.Equal(t, 1, res.State.TickNumber)
	assert.Equal(t, 1, c.TickNumber(), "traced steps commit like plain steps")

	// The traced tick matches what a plain step would have produced.
	plain := newTestController(t, duelState(), 0)
	assert.Equal(t, plain.Step().State, res.State)
}

func TestController_EventsAccumulate(t *testing.T) {
	c := newTestController(t, duelState(), 0)
	c.Step()
	c.Step()

	evs := c.Events()
	require.NotEmpty(t, evs)
	assert.Equal(t, 1, evs[0].Tick)
	assert.Equal(t, 2, evs[len(evs)-1].Tick)
}
