package combat

// ConditionKind discriminates the Condition union.
type ConditionKind string

// Known condition kinds.
const (
	CondHPBelow        ConditionKind = "hp-below"          // evaluator HP% strictly below Threshold
	CondAllyCount      ConditionKind = "ally-count"        // living allies excluding self > Threshold
	CondSelfHasStatus  ConditionKind = "self-has-status"   // evaluator has the status
	CondAllyHasStatus  ConditionKind = "ally-has-status"   // a living ally other than self has it
	CondEnemyHasStatus ConditionKind = "enemy-has-status"  // a living opponent has it
)

// Valid reports whether k is one of the known condition kinds.
func (k ConditionKind) Valid() bool {
	switch k {
	case CondHPBelow, CondAllyCount, CondSelfHasStatus, CondAllyHasStatus, CondEnemyHasStatus:
		return true
	}
	return false
}

// Condition is one testable predicate. Threshold is a pointer so a missing
// value can be told apart from zero; a condition missing its required field
// evaluates to false rather than erroring mid-battle.
type Condition struct {
	Kind      ConditionKind `json:"kind" yaml:"kind"`
	Threshold *int          `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Status    StatusType    `json:"status,omitempty" yaml:"status,omitempty"`
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	d := c
	if c.Threshold != nil {
		v := *c.Threshold
		d.Threshold = &v
	}
	return d
}

// ConditionGroup is a conjunction: every condition in it must hold. An empty
// group is vacuously true. Groups on one instruction are alternatives (OR).
type ConditionGroup struct {
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}

// Clone returns a deep copy of the group.
func (g ConditionGroup) Clone() ConditionGroup {
	d := ConditionGroup{Conditions: make([]Condition, len(g.Conditions))}
	for i, c := range g.Conditions {
		d.Conditions[i] = c.Clone()
	}
	return d
}

// Rule is an embedded AI rule on a skill: use the skill when all Conditions
// hold, preferring higher Priority. TargetingOverride, when set, replaces
// the skill's default target mode for this rule only.
type Rule struct {
	Priority          int         `json:"priority" yaml:"priority"`
	Conditions        []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	TargetingOverride TargetMode  `json:"targeting,omitempty" yaml:"targeting,omitempty"`
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	d := r
	d.Conditions = make([]Condition, len(r.Conditions))
	for i, c := range r.Conditions {
		d.Conditions[i] = c.Clone()
	}
	return d
}

// ---------------------------------------------------------------------------
//  Player instructions
// ---------------------------------------------------------------------------

// ControlMode says who drives a character's decisions.
type ControlMode string

// Control modes.
const (
	ControlHuman ControlMode = "human" // actions are queued externally
	ControlAI    ControlMode = "ai"    // instructions drive the selector
)

// SkillInstruction is one row of a character's programmed behavior: fire
// SkillID when any of Groups holds, preferring higher Priority. Disabled
// rows are kept for editing but never considered.
type SkillInstruction struct {
	SkillID           string           `json:"skillId" yaml:"skill_id"`
	Priority          int              `json:"priority" yaml:"priority"`
	Groups            []ConditionGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
	TargetingOverride TargetMode       `json:"targeting,omitempty" yaml:"targeting,omitempty"`
	Enabled           bool             `json:"enabled" yaml:"enabled"`
}

// Clone returns a deep copy of the instruction.
func (si SkillInstruction) Clone() SkillInstruction {
	d := si
	d.Groups = make([]ConditionGroup, len(si.Groups))
	for i, g := range si.Groups {
		d.Groups[i] = g.Clone()
	}
	return d
}

// CharacterInstructions is the player's programming for one character. When
// Mode is ControlAI and at least one instruction is present, the rows replace
// the embedded rules of every skill the character knows.
type CharacterInstructions struct {
	Mode         ControlMode        `json:"controlMode" yaml:"control_mode"`
	Instructions []SkillInstruction `json:"skillInstructions,omitempty" yaml:"skill_instructions,omitempty"`
}

// Clone returns a deep copy of the instructions.
func (ci CharacterInstructions) Clone() CharacterInstructions {
	d := ci
	d.Instructions = make([]SkillInstruction, len(ci.Instructions))
	for i, si := range ci.Instructions {
		d.Instructions[i] = si.Clone()
	}
	return d
}

// InstructionSet maps character IDs to their instructions. Characters absent
// from the set fall back to embedded skill rules.
type InstructionSet map[string]CharacterInstructions

// Clone returns a deep copy of the set.
func (is InstructionSet) Clone() InstructionSet {
	if is == nil {
		return nil
	}
	out := make(InstructionSet, len(is))
	for id, ci := range is {
		out[id] = ci.Clone()
	}
	return out
}
