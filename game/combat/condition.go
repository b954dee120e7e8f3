package combat

// EvalCondition tests a single condition for the evaluating character against
// the current state. Malformed conditions (unknown kind, missing threshold or
// status, evaluator with no max HP) evaluate to false instead of failing the
// battle.
func EvalCondition(c Condition, evaluator Character, state *CombatState) bool {
	switch c.Kind {
	case CondHPBelow:
		if c.Threshold == nil || evaluator.MaxHP <= 0 {
			return false
		}
		pct := float64(evaluator.CurrentHP) / float64(evaluator.MaxHP) * 100
		return pct < float64(*c.Threshold)

	case CondAllyCount:
		if c.Threshold == nil {
			return false
		}
		n := 0
		for _, a := range state.allies(evaluator.IsPlayer) {
			if a.ID != evaluator.ID && a.IsAlive() {
				n++
			}
		}
		return n > *c.Threshold

	case CondSelfHasStatus:
		if c.Status == "" {
			return false
		}
		return evaluator.HasStatus(c.Status)

	case CondAllyHasStatus:
		if c.Status == "" {
			return false
		}
		for _, a := range state.allies(evaluator.IsPlayer) {
			if a.ID != evaluator.ID && a.IsAlive() && a.HasStatus(c.Status) {
				return true
			}
		}
		return false

	case CondEnemyHasStatus:
		if c.Status == "" {
			return false
		}
		for _, o := range state.opponents(evaluator.IsPlayer) {
			if o.IsAlive() && o.HasStatus(c.Status) {
				return true
			}
		}
		return false
	}
	return false
}

// EvalConditionGroup tests a conjunction: true only when every condition in
// the group holds. An empty group holds vacuously.
func EvalConditionGroup(g ConditionGroup, evaluator Character, state *CombatState) bool {
	for _, c := range g.Conditions {
		if !EvalCondition(c, evaluator, state) {
			return false
		}
	}
	return true
}

// evalGroups tests a disjunction of groups: true when any group holds. No
// groups at all means no restriction.
func evalGroups(groups []ConditionGroup, evaluator Character, state *CombatState) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if EvalConditionGroup(g, evaluator, state) {
			return true
		}
	}
	return false
}
