package combat

import "errors"

// BattleStatus is the battle's lifecycle phase.
type BattleStatus string

// Battle statuses.
const (
	BattleOngoing BattleStatus = "ongoing"
	BattleVictory BattleStatus = "victory"
	BattleDefeat  BattleStatus = "defeat"
)

// Terminal reports whether the battle has ended.
func (s BattleStatus) Terminal() bool {
	return s == BattleVictory || s == BattleDefeat
}

// Action is an in-flight skill cast. It lives on the casting character and,
// redundantly, in the state's action queue; the two copies are kept in step
// by the tick executor.
type Action struct {
	SkillID        string   `json:"skillId"`
	CasterID       string   `json:"casterId"`
	TargetIDs      []string `json:"targetIds"`
	TicksRemaining int      `json:"ticksRemaining"`
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	b := a
	b.TargetIDs = append([]string(nil), a.TargetIDs...)
	return b
}

// CombatState is a full battle snapshot. The tick executor never mutates its
// input; each tick clones the state and returns the clone, so any state value
// handed out stays valid forever.
type CombatState struct {
	Players     []Character   `json:"players"`
	Enemies     []Character   `json:"enemies"`
	TickNumber  int           `json:"tickNumber"`
	ActionQueue []Action      `json:"actionQueue,omitempty"`
	EventLog    []CombatEvent `json:"eventLog,omitempty"`
	Status      BattleStatus  `json:"status"`
}

// NewCombatState builds a tick-zero snapshot from the given rosters. Sides
// are stamped so later clones cannot lose track of who fights for whom.
func NewCombatState(players, enemies []Character) *CombatState {
	s := &CombatState{
		Players: make([]Character, len(players)),
		Enemies: make([]Character, len(enemies)),
		Status:  BattleOngoing,
	}
	for i, c := range players {
		s.Players[i] = c.Clone()
		s.Players[i].IsPlayer = true
	}
	for i, c := range enemies {
		s.Enemies[i] = c.Clone()
		s.Enemies[i].IsPlayer = false
	}
	return s
}

// Clone returns a deep copy sharing no memory with the original.
func (s *CombatState) Clone() *CombatState {
	d := &CombatState{
		Players:    make([]Character, len(s.Players)),
		Enemies:    make([]Character, len(s.Enemies)),
		TickNumber: s.TickNumber,
		Status:     s.Status,
	}
	for i, c := range s.Players {
		d.Players[i] = c.Clone()
	}
	for i, c := range s.Enemies {
		d.Enemies[i] = c.Clone()
	}
	if s.ActionQueue != nil {
		d.ActionQueue = make([]Action, len(s.ActionQueue))
		for i, a := range s.ActionQueue {
			d.ActionQueue[i] = a.Clone()
		}
	}
	d.EventLog = append([]CombatEvent(nil), s.EventLog...)
	return d
}

// Character returns a pointer to the character with the given ID, players
// searched before enemies, or nil. The pointer aims into the state's own
// slices; it is only for callers that own the state.
func (s *CombatState) Character(id string) *Character {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	for i := range s.Enemies {
		if s.Enemies[i].ID == id {
			return &s.Enemies[i]
		}
	}
	return nil
}

// allies returns the roster the character fights on.
func (s *CombatState) allies(isPlayer bool) []Character {
	if isPlayer {
		return s.Players
	}
	return s.Enemies
}

// opponents returns the roster the character fights against.
func (s *CombatState) opponents(isPlayer bool) []Character {
	if isPlayer {
		return s.Enemies
	}
	return s.Players
}

// Errors returned by AttachAction.
var (
	ErrUnknownCaster = errors.New("combat: unknown caster")
	ErrCasterBusy    = errors.New("combat: caster is already casting")
)

// AttachAction places an externally chosen action on its caster. It is the
// entry point for manual control: the tick executor picks actions on its own
// only for characters that do not already hold one.
func (s *CombatState) AttachAction(a Action) error {
	ch := s.Character(a.CasterID)
	if ch == nil {
		return ErrUnknownCaster
	}
	if ch.CurrentAction != nil {
		return ErrCasterBusy
	}
	s.queueAction(a)
	return nil
}

// queueAction attaches a fresh action to its caster and appends it to the
// action queue.
func (s *CombatState) queueAction(a Action) {
	if ch := s.Character(a.CasterID); ch != nil {
		held := a.Clone()
		ch.CurrentAction = &held
	}
	s.ActionQueue = append(s.ActionQueue, a.Clone())
}

// dropAction removes the caster's action from both the queue and the
// character. Unknown casters are a no-op.
func (s *CombatState) dropAction(casterID string) {
	if ch := s.Character(casterID); ch != nil {
		ch.CurrentAction = nil
	}
	for i := range s.ActionQueue {
		if s.ActionQueue[i].CasterID == casterID {
			s.ActionQueue = append(s.ActionQueue[:i], s.ActionQueue[i+1:]...)
			return
		}
	}
}

// setActionTicks updates the remaining tick count on both copies of the
// caster's action.
func (s *CombatState) setActionTicks(casterID string, ticks int) {
	if ch := s.Character(casterID); ch != nil && ch.CurrentAction != nil {
		ch.CurrentAction.TicksRemaining = ticks
	}
	for i := range s.ActionQueue {
		if s.ActionQueue[i].CasterID == casterID {
			s.ActionQueue[i].TicksRemaining = ticks
			return
		}
	}
}

// LivingPlayers counts players still standing.
func (s *CombatState) LivingPlayers() int { return countLiving(s.Players) }

// LivingEnemies counts enemies still standing.
func (s *CombatState) LivingEnemies() int { return countLiving(s.Enemies) }

func countLiving(roster []Character) int {
	n := 0
	for i := range roster {
		if roster[i].IsAlive() {
			n++
		}
	}
	return n
}

func allDown(roster []Character) bool {
	for i := range roster {
		if roster[i].IsAlive() {
			return false
		}
	}
	return true
}
