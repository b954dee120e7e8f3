// Package session drives battles interactively: it owns the snapshot history
// a player steps through, the instruction edits made between ticks, and the
// derived read models (forecast, view) the UI renders from.
package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mossgate/emberline/game/combat"
)

// DefaultHistoryCap is the number of snapshots a controller retains when the
// config does not say otherwise.
const DefaultHistoryCap = 100

// Errors returned by controller operations.
var (
	ErrBattleOver        = errors.New("session: battle is already over")
	ErrCharacterNotFound = errors.New("session: character not found")
	ErrCharacterDown     = errors.New("session: character is knocked out")
	ErrCharacterBusy     = errors.New("session: character is already casting")
	ErrCharacterStunned  = errors.New("session: character is stunned")
	ErrSkillNotKnown     = errors.New("session: character does not know that skill")
	ErrSkillNotFound     = errors.New("session: skill not registered")
	ErrTargetNotFound    = errors.New("session: target not found")
	ErrNoTargets         = errors.New("session: no legal targets")
	ErrAlreadyPlaying    = errors.New("session: playback already running")
)

// Config configures a Controller. Zero fields fall back to defaults.
type Config struct {
	// Engine runs the ticks. Nil gets a default engine with an empty library.
	Engine *combat.Engine
	// Initial is the tick-zero battle state. Nil gets an empty battle.
	Initial *combat.CombatState
	// HistoryCap bounds the retained snapshot window, current state included.
	// Values below one fall back to DefaultHistoryCap.
	HistoryCap int
	Logger     *zap.Logger
}

// Controller owns one battle. It advances the fight tick by tick, keeps a
// bounded window of past snapshots for stepping back, and applies instruction
// edits between ticks. All methods are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	engine  *combat.Engine
	initial *combat.CombatState
	history []*combat.CombatState
	instr   combat.InstructionSet
	histCap int
	logger  *zap.Logger

	playing  bool
	playStop func()

	// Derived read models, memoized until the next mutation.
	forecast      *Forecast
	forecastTicks int
	view          *BattleView
}

// NewController builds a controller seeded with the initial state.
func NewController(cfg Config) *Controller {
	if cfg.Engine == nil {
		cfg.Engine = combat.NewEngine(combat.EngineConfig{})
	}
	if cfg.Initial == nil {
		cfg.Initial = combat.NewCombatState(nil, nil)
	}
	if cfg.HistoryCap < 1 {
		cfg.HistoryCap = DefaultHistoryCap
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	c := &Controller{
		engine:  cfg.Engine,
		initial: cfg.Initial.Clone(),
		instr:   combat.InstructionSet{},
		histCap: cfg.HistoryCap,
		logger:  cfg.Logger,
	}
	c.history = append(c.history, c.initial.Clone())
	return c
}

// Engine returns the engine this controller runs on.
func (c *Controller) Engine() *combat.Engine { return c.engine }

// State returns a deep copy of the current battle state.
func (c *Controller) State() *combat.CombatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current().Clone()
}

// TickNumber returns the current tick.
func (c *Controller) TickNumber() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current().TickNumber
}

// Status returns the current battle status.
func (c *Controller) Status() combat.BattleStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current().Status
}

// Step advances the battle by one tick and records the new snapshot. Once the
// battle has ended further calls return the terminal state unchanged.
func (c *Controller) Step() combat.TickResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepLocked()
}

// StepWithTrace advances one tick and also returns the decision trace for it.
// The battle state ends up identical to what Step would have produced.
func (c *Controller) StepWithTrace() (combat.TickResult, *combat.DebugInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.current()
	res, dbg := c.engine.ExecuteTickWithDebug(cur, c.instr)
	c.commit(cur, res)
	return res, dbg
}

func (c *Controller) stepLocked() combat.TickResult {
	cur := c.current()
	res := c.engine.ExecuteTick(cur, c.instr)
	c.commit(cur, res)
	return res
}

// commit records a tick result. A terminal no-op tick (same tick number as
// before) leaves the history alone.
func (c *Controller) commit(before *combat.CombatState, res combat.TickResult) {
	if res.State.TickNumber == before.TickNumber {
		return
	}
	c.history = append(c.history, res.State)
	if over := len(c.history) - c.histCap; over > 0 {
		trimmed := make([]*combat.CombatState, c.histCap)
		copy(trimmed, c.history[over:])
		c.history = trimmed
	}
	c.invalidate()
}

// StepBack rewinds to the previous retained snapshot. It reports false when
// the window has nothing earlier to rewind to.
func (c *Controller) StepBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) <= 1 {
		return false
	}
	c.history[len(c.history)-1] = nil
	c.history = c.history[:len(c.history)-1]
	c.invalidate()
	return true
}

// Reset restores the battle to its initial state. Instruction edits survive a
// reset; they are the player's program, not part of the fight.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = c.history[:0]
	c.history = append(c.history, c.initial.Clone())
	c.invalidate()
}

// HistoryLen returns the number of retained snapshots, current included.
func (c *Controller) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// History returns deep copies of the retained snapshots, oldest first.
func (c *Controller) History() []*combat.CombatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*combat.CombatState, len(c.history))
	for i, s := range c.history {
		out[i] = s.Clone()
	}
	return out
}

// StateAt returns the retained snapshot for the given tick number, if the
// window still holds it.
func (c *Controller) StateAt(tick int) (*combat.CombatState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.history {
		if s.TickNumber == tick {
			return s.Clone(), true
		}
	}
	return nil, false
}

// Replay re-simulates the battle from its initial state under the current
// instruction set and returns the full sequence, tick zero through the
// current tick. With untouched instructions it reproduces the lived history
// exactly, reaching past the retention window; after instruction edits it
// shows the from-the-start trajectory of the edited program, which may end
// before the current tick. Manually queued actions are not part of the
// program and are not replayed. The controller itself does not move.
func (c *Controller) Replay() []*combat.CombatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.current().TickNumber
	sim := c.initial.Clone()
	out := make([]*combat.CombatState, 0, target+1)
	out = append(out, sim)
	for sim.TickNumber < target {
		res := c.engine.ExecuteTick(sim, c.instr)
		if res.State.TickNumber == sim.TickNumber {
			break
		}
		sim = res.State
		out = append(out, sim)
	}
	return out
}

// Events returns the full event log of the current state.
func (c *Controller) Events() []combat.CombatEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]combat.CombatEvent(nil), c.current().EventLog...)
}

// SetInstructions replaces the instruction list for one character. Unknown
// character IDs are ignored and reported as false.
func (c *Controller) SetInstructions(charID string, ci combat.CharacterInstructions) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current().Character(charID) == nil {
		c.logger.Debug("instructions for unknown character ignored", zap.String("character", charID))
		return false
	}
	c.instr[charID] = ci.Clone()
	c.invalidate()
	return true
}

// ClearInstructions removes the instruction list for one character, dropping
// them back to their embedded skill rules.
func (c *Controller) ClearInstructions(charID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instr, charID)
	c.invalidate()
}

// Instructions returns a copy of the instruction list for one character.
func (c *Controller) Instructions(charID string) (combat.CharacterInstructions, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ci, ok := c.instr[charID]
	if !ok {
		return combat.CharacterInstructions{}, false
	}
	return ci.Clone(), true
}

// InstructionSet returns a copy of every instruction list on the session.
func (c *Controller) InstructionSet() combat.InstructionSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instr.Clone()
}

// QueueAction queues a skill cast chosen by the player instead of the rule
// engine. The caster must be alive, idle and unstunned, and must know the
// skill. With no explicit targets the skill's own targeting picks them; the
// cast fails if nothing legal remains.
func (c *Controller) QueueAction(charID, skillID string, targetIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.current()
	if cur.Status.Terminal() {
		return ErrBattleOver
	}
	next := cur.Clone()
	ch := next.Character(charID)
	switch {
	case ch == nil:
		return ErrCharacterNotFound
	case ch.IsDead():
		return ErrCharacterDown
	case ch.CurrentAction != nil:
		return ErrCharacterBusy
	case ch.HasStatus(combat.StatusStunned):
		return ErrCharacterStunned
	}
	if !knowsSkill(ch, skillID) {
		return ErrSkillNotKnown
	}
	skill, ok := c.engine.Library().Get(skillID)
	if !ok {
		return ErrSkillNotFound
	}
	if len(targetIDs) == 0 {
		targetIDs = autoTargets(next, ch, skill)
		if len(targetIDs) == 0 {
			return ErrNoTargets
		}
	} else {
		for _, id := range targetIDs {
			if next.Character(id) == nil {
				return ErrTargetNotFound
			}
		}
		targetIDs = append([]string(nil), targetIDs...)
	}
	if err := next.AttachAction(combat.Action{
		SkillID:        skillID,
		CasterID:       charID,
		TargetIDs:      targetIDs,
		TicksRemaining: skill.BaseDuration,
	}); err != nil {
		return err
	}
	// Queuing is not a tick: replace the current snapshot in place so a later
	// StepBack still lands on the previous tick.
	c.history[len(c.history)-1] = next
	c.invalidate()
	c.logger.Debug("action queued by hand",
		zap.String("character", charID),
		zap.String("skill", skillID),
		zap.Strings("targets", targetIDs))
	return nil
}

func knowsSkill(ch *combat.Character, skillID string) bool {
	for _, id := range ch.Skills {
		if id == skillID {
			return true
		}
	}
	return false
}

// autoTargets runs the skill's own targeting against the given state.
func autoTargets(s *combat.CombatState, ch *combat.Character, skill combat.Skill) []string {
	allies, enemies := s.Players, s.Enemies
	if !ch.IsPlayer {
		allies, enemies = s.Enemies, s.Players
	}
	picked := combat.SelectTargets(skill.Targeting, *ch, allies, enemies)
	picked = combat.ApplyTargetFilters(picked, s.Players, s.Enemies, ch.IsPlayer, skill.Targeting == combat.TargetAllyDead)
	ids := make([]string, 0, len(picked))
	for _, t := range picked {
		ids = append(ids, t.ID)
	}
	return ids
}

// Forecast simulates up to the given number of ticks ahead without touching
// the real battle and returns where it lands. Results are memoized until the
// session mutates.
func (c *Controller) Forecast(ticks int) *Forecast {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticks < 1 {
		ticks = 1
	}
	if c.forecast != nil && c.forecastTicks == ticks {
		return c.forecast.copyOut()
	}
	f := c.simulate(ticks)
	c.forecast = f
	c.forecastTicks = ticks
	return f.copyOut()
}

func (c *Controller) simulate(ticks int) *Forecast {
	sim := c.current()
	f := &Forecast{Ticks: ticks, From: sim.TickNumber}
	for i := 0; i < ticks && !sim.Status.Terminal(); i++ {
		res := c.engine.ExecuteTick(sim, c.instr)
		sim = res.State
		f.Events = append(f.Events, res.Events...)
		if res.Ended {
			f.EndsAt = sim.TickNumber
		}
	}
	f.Final = sim
	f.Ended = sim.Status.Terminal()
	if f.Ended && f.EndsAt == 0 {
		// Battle was already over before the first simulated tick.
		f.EndsAt = sim.TickNumber
	}
	return f
}

func (c *Controller) current() *combat.CombatState {
	return c.history[len(c.history)-1]
}

// invalidate drops the memoized read models. Callers hold c.mu.
func (c *Controller) invalidate() {
	c.forecast = nil
	c.forecastTicks = 0
	c.view = nil
}

// Forecast is a look ahead from the current state: where the battle lands
// after simulating the requested ticks with the instructions as they stand.
type Forecast struct {
	// Ticks is the requested horizon, From the tick simulated from.
	Ticks int `json:"ticks"`
	From  int `json:"from"`
	// Final is the simulated end state, Events everything that happened on
	// the way there.
	Final  *combat.CombatState  `json:"final"`
	Events []combat.CombatEvent `json:"events,omitempty"`
	// Ended reports whether the battle finished within the horizon; EndsAt is
	// the tick it finished on.
	Ended  bool `json:"ended"`
	EndsAt int  `json:"endsAt,omitempty"`
}

// copyOut returns a copy safe to hand outside the lock.
func (f *Forecast) copyOut() *Forecast {
	out := *f
	out.Final = f.Final.Clone()
	out.Events = append([]combat.CombatEvent(nil), f.Events...)
	return &out
}
