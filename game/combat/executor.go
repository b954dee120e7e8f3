// Package combat implements a deterministic tick-based battle simulator:
// characters carry skills, skills carry effects and AI rules, and an engine
// advances an immutable battle state one tick at a time. The same initial
// state and instructions always replay to the same outcome; there is no
// randomness anywhere in the package.
package combat

import "go.uber.org/zap"

// DefaultMaxTicks bounds RunBattle when no cap is configured.
const DefaultMaxTicks = 1000

// EngineConfig holds the construction parameters for an Engine.
type EngineConfig struct {
	Library  *SkillLibrary
	MaxTicks int         // RunBattle cap; <=0 selects DefaultMaxTicks
	Logger   *zap.Logger // nil = no logging
}

// Engine advances battles. It holds no battle state of its own, so one
// engine can serve any number of concurrent battles.
type Engine struct {
	library  *SkillLibrary
	maxTicks int
	logger   *zap.Logger
}

// NewEngine creates an Engine from the given config, filling in defaults for
// anything unset.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Library == nil {
		cfg.Library = NewSkillLibrary()
	}
	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = DefaultMaxTicks
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		library:  cfg.Library,
		maxTicks: cfg.MaxTicks,
		logger:   cfg.Logger,
	}
}

// Library returns the engine's skill library.
func (e *Engine) Library() *SkillLibrary { return e.library }

// MaxTicks returns the engine's RunBattle tick cap.
func (e *Engine) MaxTicks() int { return e.maxTicks }

// TickResult is the outcome of one tick: the successor state, the events
// that tick produced, and whether the battle is over.
type TickResult struct {
	State  *CombatState
	Events []CombatEvent
	Ended  bool
}

// ExecuteTick advances the battle by exactly one tick and returns the new
// state. The input state is never modified. Calling on a finished battle
// returns an unchanged copy with Ended set.
//
// A tick runs five phases in fixed order, players before enemies and lower
// roster slots first everywhere a side iterates:
//
//  1. rule evaluation: idle, living, unstunned characters pick actions;
//  2. action progress: every queued cast loses one tick;
//  3. resolution: casts that reached zero go off, all player casts before
//     any enemy cast;
//  4. status upkeep: poison damage, then duration decay;
//  5. cleanup: knockouts, stripping dead casters' queues, end detection.
//
// Victory is checked before defeat, so wiping both sides on the same tick
// counts as a win.
func (e *Engine) ExecuteTick(state *CombatState, instr InstructionSet) TickResult {
	res, _ := e.executeTick(state, instr, false)
	return res
}

// ExecuteTickWithDebug is ExecuteTick plus a full trace of every AI decision
// made during phase one. The returned state is identical to what ExecuteTick
// would have produced.
func (e *Engine) ExecuteTickWithDebug(state *CombatState, instr InstructionSet) (TickResult, *DebugInfo) {
	return e.executeTick(state, instr, true)
}

func (e *Engine) executeTick(state *CombatState, instr InstructionSet, debug bool) (TickResult, *DebugInfo) {
	var dbg *DebugInfo
	if debug {
		dbg = &DebugInfo{Tick: state.TickNumber + 1}
	}
	if state.Status.Terminal() {
		return TickResult{State: state.Clone(), Ended: true}, dbg
	}

	next := state.Clone()
	tick := next.TickNumber + 1
	sink := &eventSink{tick: tick}

	hpBefore := make(map[string]int, len(next.Players)+len(next.Enemies))
	forEach(next, func(ch *Character) { hpBefore[ch.ID] = ch.CurrentHP })

	e.runRules(next, instr, sink, dbg)
	progressActions(next)
	e.resolveActions(next, sink)
	runStatusUpkeep(next, sink)
	e.finishTick(next, hpBefore, sink)

	next.TickNumber = tick
	next.EventLog = append(next.EventLog, sink.events...)

	e.logger.Debug("tick executed",
		zap.Int("tick", tick),
		zap.Int("events", len(sink.events)),
		zap.String("status", string(next.Status)))

	return TickResult{State: next, Events: sink.events, Ended: next.Status.Terminal()}, dbg
}

// RunBattle drives a battle from the given state to a terminal status or the
// engine's tick cap, whichever comes first, and returns the last state.
func (e *Engine) RunBattle(state *CombatState, instr InstructionSet) *CombatState {
	cur := state
	for i := 0; i < e.maxTicks; i++ {
		res := e.ExecuteTick(cur, instr)
		cur = res.State
		if res.Ended {
			return cur
		}
	}
	e.logger.Warn("battle stopped at tick cap",
		zap.Int("maxTicks", e.maxTicks),
		zap.Int("tick", cur.TickNumber))
	return cur
}

// forEach visits every character, players first, each roster in slot order.
// This is the canonical iteration order for the whole engine.
func forEach(s *CombatState, fn func(*Character)) {
	for i := range s.Players {
		fn(&s.Players[i])
	}
	for i := range s.Enemies {
		fn(&s.Enemies[i])
	}
}

// --- Phase 1: rule evaluation ---

func (e *Engine) runRules(s *CombatState, instr InstructionSet, sink *eventSink, dbg *DebugInfo) {
	forEach(s, func(ch *Character) {
		var tr *DecisionTrace
		if dbg != nil {
			tr = &DecisionTrace{CharacterID: ch.ID, CharacterName: ch.Name}
			defer func() { dbg.Decisions = append(dbg.Decisions, *tr) }()
		}

		switch {
		case ch.IsDead():
			tr.skip(SkipDead)
			return
		case ch.CurrentAction != nil:
			tr.skip(SkipBusy)
			return
		case ch.HasStatus(StatusStunned):
			tr.skip(SkipStunned)
			return
		}

		var ci *CharacterInstructions
		if v, ok := instr[ch.ID]; ok {
			ci = &v
		}
		sel := selectAction(*ch, s, ci, e.library, tr)
		if sel == nil {
			return
		}

		act := Action{
			SkillID:        sel.Skill.ID,
			CasterID:       ch.ID,
			TargetIDs:      characterIDs(sel.Targets),
			TicksRemaining: sel.Skill.BaseDuration,
		}
		s.queueAction(act)
		sink.actionQueued(ch, sel.Skill, act.TicksRemaining)
	})
}

// --- Phase 2: action progress ---

// progressActions decrements every in-flight cast that still has ticks left.
// A cast queued this very tick ticks down too, so a two-tick skill resolves
// on the second ExecuteTick after being chosen.
func progressActions(s *CombatState) {
	for i := range s.ActionQueue {
		if s.ActionQueue[i].TicksRemaining > 0 {
			s.ActionQueue[i].TicksRemaining--
			if ch := s.Character(s.ActionQueue[i].CasterID); ch != nil && ch.CurrentAction != nil {
				ch.CurrentAction.TicksRemaining = s.ActionQueue[i].TicksRemaining
			}
		}
	}
}

// --- Phase 3: resolution ---

// resolveActions fires every cast that has reached zero ticks. The ready set
// is fixed up front in canonical order; deaths inside the phase do not pull
// a finished cast back out, which is what lets two lethal strikes land in
// the same tick.
func (e *Engine) resolveActions(s *CombatState, sink *eventSink) {
	var ready []string
	forEach(s, func(ch *Character) {
		if ch.CurrentAction != nil && ch.CurrentAction.TicksRemaining == 0 {
			ready = append(ready, ch.ID)
		}
	})
	for _, id := range ready {
		ch := s.Character(id)
		if ch == nil || ch.CurrentAction == nil || ch.CurrentAction.TicksRemaining != 0 {
			continue
		}
		e.resolveAction(s, *ch.CurrentAction, sink)
	}
}

// --- Phase 4: status upkeep ---

func runStatusUpkeep(s *CombatState, sink *eventSink) {
	forEach(s, func(ch *Character) { tickStatuses(ch, sink) })
}

// --- Phase 5: cleanup ---

func (e *Engine) finishTick(s *CombatState, hpBefore map[string]int, sink *eventSink) {
	forEach(s, func(ch *Character) {
		if ch.IsAlive() {
			return
		}
		if hpBefore[ch.ID] > 0 && !sink.knockedOut(ch.ID) {
			sink.knockout(ch)
		}
		if ch.CurrentAction != nil {
			s.dropAction(ch.ID)
		}
	})

	// Victory first: wiping each other out on the same tick is still a win.
	if allDown(s.Enemies) {
		s.Status = BattleVictory
		sink.victory()
	} else if allDown(s.Players) {
		s.Status = BattleDefeat
		sink.defeat()
	}
}
