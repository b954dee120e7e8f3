package combat

// EffectKind discriminates the Effect union.
type EffectKind string

// Known effect kinds.
const (
	EffectDamage EffectKind = "damage" // Value HP removed, shields first
	EffectHeal   EffectKind = "heal"   // Value HP restored, capped at max
	EffectShield EffectKind = "shield" // grants a shielded status with a Value pool
	EffectStatus EffectKind = "status" // applies Status for Duration ticks
	EffectRevive EffectKind = "revive" // brings a dead target back at Value HP
	EffectCancel EffectKind = "cancel" // interrupts the target's in-flight action
)

// Valid reports whether k is one of the known effect kinds.
func (k EffectKind) Valid() bool {
	switch k {
	case EffectDamage, EffectHeal, EffectShield, EffectStatus, EffectRevive, EffectCancel:
		return true
	}
	return false
}

// Effect is one thing a skill does on resolution. Which fields matter depends
// on Kind: damage/heal/shield/revive read Value, status reads Status plus
// Duration and passes Value through (poison damage, shield pool), cancel
// reads nothing.
type Effect struct {
	Kind     EffectKind `json:"kind" yaml:"kind"`
	Value    int        `json:"value,omitempty" yaml:"value,omitempty"`
	Status   StatusType `json:"status,omitempty" yaml:"status,omitempty"`
	Duration int        `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Skill is an immutable skill definition. BaseDuration is the cast time in
// ticks. Rules are the embedded AI defaults, consulted when no player
// instructions override them.
type Skill struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	BaseDuration int        `json:"duration" yaml:"duration"`
	Targeting    TargetMode `json:"targeting" yaml:"targeting"`
	Effects      []Effect   `json:"effects" yaml:"effects"`
	Rules        []Rule     `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Clone returns a deep copy sharing no memory with the original.
func (s Skill) Clone() Skill {
	d := s
	d.Effects = append([]Effect(nil), s.Effects...)
	d.Rules = make([]Rule, len(s.Rules))
	for i, r := range s.Rules {
		d.Rules[i] = r.Clone()
	}
	return d
}

// ---------------------------------------------------------------------------
//  SkillLibrary
// ---------------------------------------------------------------------------

// SkillLibrary resolves skill IDs to definitions. Characters carry IDs only;
// every lookup goes through the library so definitions stay in one place.
type SkillLibrary struct {
	skills map[string]Skill
	order  []string
}

// NewSkillLibrary builds a library from the given skills. A later skill with
// a duplicate ID replaces the earlier one but keeps its slot in the order.
func NewSkillLibrary(skills ...Skill) *SkillLibrary {
	l := &SkillLibrary{skills: make(map[string]Skill, len(skills))}
	for _, s := range skills {
		l.Add(s)
	}
	return l
}

// Add registers a skill, replacing any existing definition with the same ID.
func (l *SkillLibrary) Add(s Skill) {
	if _, seen := l.skills[s.ID]; !seen {
		l.order = append(l.order, s.ID)
	}
	l.skills[s.ID] = s.Clone()
}

// Get returns a copy of the skill with the given ID. The copy is the
// caller's; mutating it does not touch the library.
func (l *SkillLibrary) Get(id string) (Skill, bool) {
	s, ok := l.skills[id]
	if !ok {
		return Skill{}, false
	}
	return s.Clone(), true
}

// Has reports whether a skill with the given ID is registered.
func (l *SkillLibrary) Has(id string) bool {
	_, ok := l.skills[id]
	return ok
}

// Skills returns copies of all registered skills in registration order.
func (l *SkillLibrary) Skills() []Skill {
	out := make([]Skill, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.skills[id].Clone())
	}
	return out
}

// Len returns the number of registered skills.
func (l *SkillLibrary) Len() int { return len(l.skills) }
