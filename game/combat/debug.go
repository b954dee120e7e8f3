package combat

// SkipReason says why a character made no decision during rule evaluation.
type SkipReason string

// Skip reasons.
const (
	SkipDead    SkipReason = "dead"
	SkipBusy    SkipReason = "busy" // already mid-cast
	SkipStunned SkipReason = "stunned"
)

// RuleTrace records one candidate the selector looked at and how far it got.
type RuleTrace struct {
	SkillID       string     `json:"skillId"`
	Priority      int        `json:"priority"`
	Source        RuleSource `json:"source"`
	ConditionsMet bool       `json:"conditionsMet"`
	RawTargets    []string   `json:"rawTargets,omitempty"` // before taunt/dead filters
	Targets       []string   `json:"targets,omitempty"`    // after filters
	Chosen        bool       `json:"chosen"`
	Note          string     `json:"note,omitempty"`
}

// DecisionTrace records one character's pass through rule evaluation.
type DecisionTrace struct {
	CharacterID   string      `json:"characterId"`
	CharacterName string      `json:"characterName"`
	Skip          SkipReason  `json:"skip,omitempty"`
	Considered    []RuleTrace `json:"considered,omitempty"`
	ChosenSkill   string      `json:"chosenSkill,omitempty"`
}

// DebugInfo is the full decision trace for one tick. It is observation only;
// a traced tick produces exactly the same state as an untraced one.
type DebugInfo struct {
	Tick      int             `json:"tick"`
	Decisions []DecisionTrace `json:"decisions"`
}

// The trace methods tolerate a nil receiver so the selector can run with
// tracing off at zero cost.

func (t *DecisionTrace) skip(r SkipReason) {
	if t == nil {
		return
	}
	t.Skip = r
}

func (t *DecisionTrace) consider(rt RuleTrace) {
	if t == nil {
		return
	}
	t.Considered = append(t.Considered, rt)
}

func (t *DecisionTrace) chose(skillID string) {
	if t == nil {
		return
	}
	t.ChosenSkill = skillID
}
