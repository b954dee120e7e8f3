// Package run tracks a campaign playthrough: a fixed party fighting a chain
// of encounters, collecting skill rewards between battles and distributing
// them across the roster.
package run

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mossgate/emberline/game/combat"
)

// Status is the playthrough's lifecycle phase.
type Status string

// Run statuses.
const (
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Errors returned by run operations.
var (
	ErrRunOver           = errors.New("run: playthrough is already over")
	ErrBattleUnfinished  = errors.New("run: battle has not ended yet")
	ErrCharacterNotFound = errors.New("run: character not found")
	ErrSkillNotInPool    = errors.New("run: skill not in the reserve pool")
	ErrSkillNotHeld      = errors.New("run: character does not hold that skill")
)

// Encounter is one battle in the campaign: the enemy lineup and the skills
// the party pockets for winning it.
type Encounter struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	Enemies      []combat.Character `json:"enemies" yaml:"enemies"`
	RewardSkills []string           `json:"rewardSkills,omitempty" yaml:"reward_skills,omitempty"`
}

// Clone returns a deep copy of the encounter.
func (e Encounter) Clone() Encounter {
	d := e
	d.Enemies = make([]combat.Character, len(e.Enemies))
	for i, c := range e.Enemies {
		d.Enemies[i] = c.Clone()
	}
	d.RewardSkills = append([]string(nil), e.RewardSkills...)
	return d
}

// Config configures a Run.
type Config struct {
	// Roster is the party, in slot order. Slot order matters: it is the
	// decision and resolution order inside every battle.
	Roster []combat.Character
	// Encounters is the battle chain, fought front to back.
	Encounters []Encounter
	// Pool seeds the reserve with skills not yet given to anyone.
	Pool   []string
	Logger *zap.Logger
}

// Run is one playthrough. HP carries over between battles; knockouts do not,
// the fallen stand back up at 1 HP when the fight is won.
type Run struct {
	roster     []combat.Character
	encounters []Encounter
	current    int
	pool       []string
	status     Status
	logger     *zap.Logger
}

// NewRun builds a playthrough from the config. A run with no encounters is
// complete from the start.
func NewRun(cfg Config) *Run {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := &Run{
		roster:     make([]combat.Character, len(cfg.Roster)),
		encounters: make([]Encounter, len(cfg.Encounters)),
		pool:       append([]string(nil), cfg.Pool...),
		status:     StatusActive,
		logger:     cfg.Logger,
	}
	for i, c := range cfg.Roster {
		r.roster[i] = c.Clone()
		r.roster[i].IsPlayer = true
	}
	for i, e := range cfg.Encounters {
		r.encounters[i] = e.Clone()
	}
	if len(r.encounters) == 0 {
		r.status = StatusComplete
	}
	return r
}

// Status returns the playthrough's lifecycle phase.
func (r *Run) Status() Status { return r.status }

// Finished reports whether every encounter has been won.
func (r *Run) Finished() bool { return r.status == StatusComplete }

// Failed reports whether a battle was lost.
func (r *Run) Failed() bool { return r.status == StatusFailed }

// EncounterIndex returns the zero-based index of the encounter in progress.
func (r *Run) EncounterIndex() int { return r.current }

// Encounters returns deep copies of the full battle chain.
func (r *Run) Encounters() []Encounter {
	out := make([]Encounter, len(r.encounters))
	for i, e := range r.encounters {
		out[i] = e.Clone()
	}
	return out
}

// CurrentEncounter returns the encounter in progress, if the run is active.
func (r *Run) CurrentEncounter() (Encounter, bool) {
	if r.status != StatusActive {
		return Encounter{}, false
	}
	return r.encounters[r.current].Clone(), true
}

// BattleState builds a fresh tick-zero state for the current encounter, or
// nil when the run is over.
func (r *Run) BattleState() *combat.CombatState {
	if r.status != StatusActive {
		return nil
	}
	return combat.NewCombatState(r.roster, r.encounters[r.current].Enemies)
}

// CompleteBattle feeds a finished battle back into the run. Victory banks the
// encounter's reward skills, carries the party's HP forward (the fallen stand
// back up at 1 HP, statuses and casts cleared) and advances the chain; defeat
// fails the run.
func (r *Run) CompleteBattle(final *combat.CombatState) error {
	if r.status != StatusActive {
		return ErrRunOver
	}
	if final == nil || !final.Status.Terminal() {
		return ErrBattleUnfinished
	}
	if final.Status == combat.BattleDefeat {
		r.status = StatusFailed
		r.logger.Info("run failed",
			zap.String("encounter", r.encounters[r.current].ID),
			zap.Int("index", r.current))
		return nil
	}

	enc := r.encounters[r.current]
	r.syncRoster(final)
	if len(enc.RewardSkills) > 0 {
		r.pool = append(r.pool, enc.RewardSkills...)
		r.logger.Info("rewards banked",
			zap.String("encounter", enc.ID),
			zap.Strings("skills", enc.RewardSkills))
	}
	r.current++
	if r.current >= len(r.encounters) {
		r.status = StatusComplete
		r.logger.Info("run complete", zap.Int("encounters", len(r.encounters)))
	}
	return nil
}

// syncRoster copies battle outcomes back onto the persistent roster.
func (r *Run) syncRoster(final *combat.CombatState) {
	for i := range r.roster {
		fought := final.Character(r.roster[i].ID)
		if fought == nil {
			continue
		}
		hp := fought.CurrentHP
		if hp < 1 {
			hp = 1
		}
		r.roster[i].CurrentHP = hp
		r.roster[i].Statuses = nil
		r.roster[i].CurrentAction = nil
	}
}

// Roster returns deep copies of the party in slot order.
func (r *Run) Roster() []combat.Character {
	out := make([]combat.Character, len(r.roster))
	for i, c := range r.roster {
		out[i] = c.Clone()
	}
	return out
}

// Pool returns a copy of the undistributed reward skills.
func (r *Run) Pool() []string {
	return append([]string(nil), r.pool...)
}

// DistributeSkill hands a pooled skill to a party member. A character may
// hold the same skill only once.
func (r *Run) DistributeSkill(charID, skillID string) error {
	idx := r.poolIndex(skillID)
	if idx < 0 {
		return ErrSkillNotInPool
	}
	ch := r.rosterChar(charID)
	if ch == nil {
		return ErrCharacterNotFound
	}
	if hasSkill(ch, skillID) {
		return nil
	}
	r.pool = append(r.pool[:idx], r.pool[idx+1:]...)
	ch.Skills = append(ch.Skills, skillID)
	r.logger.Debug("skill distributed",
		zap.String("character", charID),
		zap.String("skill", skillID))
	return nil
}

// RemoveSkill takes a skill off a party member and returns it to the pool.
func (r *Run) RemoveSkill(charID, skillID string) error {
	ch := r.rosterChar(charID)
	if ch == nil {
		return ErrCharacterNotFound
	}
	for i, id := range ch.Skills {
		if id == skillID {
			ch.Skills = append(ch.Skills[:i], ch.Skills[i+1:]...)
			r.pool = append(r.pool, skillID)
			return nil
		}
	}
	return ErrSkillNotHeld
}

// MoveSkill reassigns a skill from one party member to another without the
// pool round trip.
func (r *Run) MoveSkill(fromID, toID, skillID string) error {
	from := r.rosterChar(fromID)
	if from == nil {
		return ErrCharacterNotFound
	}
	to := r.rosterChar(toID)
	if to == nil {
		return ErrCharacterNotFound
	}
	if !hasSkill(from, skillID) {
		return ErrSkillNotHeld
	}
	if hasSkill(to, skillID) {
		return nil
	}
	for i, id := range from.Skills {
		if id == skillID {
			from.Skills = append(from.Skills[:i], from.Skills[i+1:]...)
			break
		}
	}
	to.Skills = append(to.Skills, skillID)
	return nil
}

func (r *Run) rosterChar(id string) *combat.Character {
	for i := range r.roster {
		if r.roster[i].ID == id {
			return &r.roster[i]
		}
	}
	return nil
}

func (r *Run) poolIndex(skillID string) int {
	for i, id := range r.pool {
		if id == skillID {
			return i
		}
	}
	return -1
}

func hasSkill(ch *combat.Character, skillID string) bool {
	for _, id := range ch.Skills {
		if id == skillID {
			return true
		}
	}
	return false
}
