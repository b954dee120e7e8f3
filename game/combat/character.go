package combat

// StatusType identifies a status effect.
type StatusType string

// Known status types.
const (
	StatusPoisoned  StatusType = "poisoned"  // loses HP each tick
	StatusStunned   StatusType = "stunned"   // cannot start new actions
	StatusShielded  StatusType = "shielded"  // absorbs damage until the pool is spent
	StatusTaunting  StatusType = "taunting"  // redirects enemy-directed skills to self
	StatusDefending StatusType = "defending" // halves incoming damage
	StatusEnraged   StatusType = "enraged"   // outgoing damage x1.5
)

// Valid reports whether t is one of the known status types.
func (t StatusType) Valid() bool {
	switch t {
	case StatusPoisoned, StatusStunned, StatusShielded, StatusTaunting, StatusDefending, StatusEnraged:
		return true
	}
	return false
}

// PermanentDuration marks a status that never expires on its own.
const PermanentDuration = -1

// StatusEffect is an active status on a character. Duration counts down one
// per tick; PermanentDuration means no auto-removal. Value carries the
// per-tick poison damage or the remaining shield pool, zero otherwise.
type StatusEffect struct {
	Type     StatusType `json:"type" yaml:"type"`
	Duration int        `json:"duration" yaml:"duration"`
	Value    int        `json:"value,omitempty" yaml:"value,omitempty"`
}

// Active reports whether the status still has effect. A duration that has
// reached zero is spent even if it has not been removed yet.
func (s StatusEffect) Active() bool {
	return s.Duration == PermanentDuration || s.Duration > 0
}

// GridPosition is an optional board placement for a character.
type GridPosition struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Character is one combatant. HP, statuses and the in-flight action are the
// only mutable parts; skills are references into a SkillLibrary.
type Character struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	MaxHP         int            `json:"maxHp" yaml:"max_hp"`
	CurrentHP     int            `json:"currentHp" yaml:"current_hp"`
	Skills        []string       `json:"skills" yaml:"skills"`
	Statuses      []StatusEffect `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	CurrentAction *Action        `json:"currentAction,omitempty" yaml:"-"`
	IsPlayer      bool           `json:"isPlayer" yaml:"-"`
	Position      *GridPosition  `json:"position,omitempty" yaml:"position,omitempty"`
}

// Clone returns a deep copy sharing no memory with the original.
func (c Character) Clone() Character {
	d := c
	d.Skills = append([]string(nil), c.Skills...)
	d.Statuses = append([]StatusEffect(nil), c.Statuses...)
	if c.CurrentAction != nil {
		a := c.CurrentAction.Clone()
		d.CurrentAction = &a
	}
	if c.Position != nil {
		p := *c.Position
		d.Position = &p
	}
	return d
}

func (c *Character) IsAlive() bool { return c.CurrentHP > 0 }
func (c *Character) IsDead() bool  { return c.CurrentHP <= 0 }

// HasStatus reports whether an active status of the given type is present.
func (c *Character) HasStatus(t StatusType) bool {
	for _, s := range c.Statuses {
		if s.Type == t && s.Active() {
			return true
		}
	}
	return false
}

// StatusDuration returns the remaining duration of the given status.
// ok is false when no active status of that type is present.
func (c *Character) StatusDuration(t StatusType) (duration int, ok bool) {
	for _, s := range c.Statuses {
		if s.Type == t && s.Active() {
			return s.Duration, true
		}
	}
	return 0, false
}

// status returns a pointer into the live status slice, or nil. Callers own
// the character they pass; the pointer is invalid after the slice changes.
func (c *Character) status(t StatusType) *StatusEffect {
	for i := range c.Statuses {
		if c.Statuses[i].Type == t && c.Statuses[i].Active() {
			return &c.Statuses[i]
		}
	}
	return nil
}

// ApplyStatus returns a copy of c with the status applied. Statuses do not
// stack: reapplying a type refreshes its duration and value in place, so the
// original slot keeps its position in processing order.
func (c Character) ApplyStatus(s StatusEffect) Character {
	d := c.Clone()
	for i := range d.Statuses {
		if d.Statuses[i].Type == s.Type {
			d.Statuses[i].Duration = s.Duration
			d.Statuses[i].Value = s.Value
			return d
		}
	}
	d.Statuses = append(d.Statuses, s)
	return d
}

// RemoveStatus returns a copy of c without any status of the given type.
// Removing an absent status is a no-op.
func (c Character) RemoveStatus(t StatusType) Character {
	d := c.Clone()
	for i, s := range d.Statuses {
		if s.Type == t {
			d.Statuses = append(d.Statuses[:i], d.Statuses[i+1:]...)
			return d
		}
	}
	return d
}

// applyStatusInPlace is the mutating form used while the engine works on its
// own clone of the state.
func (c *Character) applyStatusInPlace(s StatusEffect) {
	for i := range c.Statuses {
		if c.Statuses[i].Type == s.Type {
			c.Statuses[i].Duration = s.Duration
			c.Statuses[i].Value = s.Value
			return
		}
	}
	c.Statuses = append(c.Statuses, s)
}

// removeStatusInPlace is the mutating form used while the engine works on its
// own clone of the state.
func (c *Character) removeStatusInPlace(t StatusType) {
	for i, s := range c.Statuses {
		if s.Type == t {
			c.Statuses = append(c.Statuses[:i], c.Statuses[i+1:]...)
			return
		}
	}
}
