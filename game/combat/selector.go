package combat

import "sort"

// Selection is the outcome of one AI decision: which skill to start and the
// targets captured at decision time.
type Selection struct {
	Skill   Skill
	Targets []Character
}

// RuleSource says where a considered rule came from.
type RuleSource string

// Rule sources.
const (
	SourceInstruction RuleSource = "instruction" // player-programmed row
	SourceEmbedded    RuleSource = "embedded"    // rule on the skill definition
	SourceImplicit    RuleSource = "implicit"    // skill with no rules at all
)

// candidate is one skill/rule pairing flattened for sorting. Embedded rules
// carry their condition list as a single group so the walk below only deals
// in groups.
type candidate struct {
	skill    Skill
	priority int
	groups   []ConditionGroup
	override TargetMode
	source   RuleSource
}

// SelectAction runs the AI decision for one character: gather candidate
// rules, order them by priority (stable, so authored order breaks ties),
// and return the first whose conditions hold and whose targeting produces at
// least one target after filters. Returns nil when nothing fires; the
// character simply stays idle this tick.
//
// instr may be nil. Instructions only take over when their mode is ControlAI
// and at least one row is present; otherwise each skill's embedded rules
// apply, and a skill without rules acts as a single always-true rule at
// priority zero.
func SelectAction(ch Character, state *CombatState, instr *CharacterInstructions, lib *SkillLibrary) *Selection {
	return selectAction(ch, state, instr, lib, nil)
}

func selectAction(ch Character, state *CombatState, instr *CharacterInstructions, lib *SkillLibrary, trace *DecisionTrace) *Selection {
	cands := gatherCandidates(ch, instr, lib)

	// Stable: equal priorities keep their authored order.
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].priority > cands[j].priority
	})

	for _, cand := range cands {
		rt := RuleTrace{
			SkillID:  cand.skill.ID,
			Priority: cand.priority,
			Source:   cand.source,
		}
		if !evalGroups(cand.groups, ch, state) {
			trace.consider(rt)
			continue
		}
		rt.ConditionsMet = true

		mode := cand.skill.Targeting
		if cand.override != "" {
			mode = cand.override
		}
		targets := SelectTargets(mode, ch, state.allies(ch.IsPlayer), state.opponents(ch.IsPlayer))
		rt.RawTargets = characterIDs(targets)
		targets = ApplyTargetFilters(targets, state.Players, state.Enemies, ch.IsPlayer, mode == TargetAllyDead)
		rt.Targets = characterIDs(targets)

		if len(targets) == 0 {
			rt.Note = "no valid targets"
			trace.consider(rt)
			continue
		}

		rt.Chosen = true
		trace.consider(rt)
		trace.chose(cand.skill.ID)
		return &Selection{Skill: cand.skill, Targets: targets}
	}
	return nil
}

// gatherCandidates flattens the character's decision table. With active
// instructions, each enabled row is one candidate; otherwise every embedded
// rule of every known skill is, in skill order then rule order. Rows naming
// unknown skills are dropped.
func gatherCandidates(ch Character, instr *CharacterInstructions, lib *SkillLibrary) []candidate {
	if instr != nil && instr.Mode == ControlAI && len(instr.Instructions) > 0 {
		var cands []candidate
		for _, row := range instr.Instructions {
			if !row.Enabled {
				continue
			}
			skill, ok := lib.Get(row.SkillID)
			if !ok {
				continue
			}
			cands = append(cands, candidate{
				skill:    skill,
				priority: row.Priority,
				groups:   row.Groups,
				override: row.TargetingOverride,
				source:   SourceInstruction,
			})
		}
		return cands
	}

	var cands []candidate
	for _, id := range ch.Skills {
		skill, ok := lib.Get(id)
		if !ok {
			continue
		}
		if len(skill.Rules) == 0 {
			cands = append(cands, candidate{skill: skill, source: SourceImplicit})
			continue
		}
		for _, r := range skill.Rules {
			var groups []ConditionGroup
			if len(r.Conditions) > 0 {
				groups = []ConditionGroup{{Conditions: r.Conditions}}
			}
			cands = append(cands, candidate{
				skill:    skill,
				priority: r.Priority,
				groups:   groups,
				override: r.TargetingOverride,
				source:   SourceEmbedded,
			})
		}
	}
	return cands
}

func characterIDs(chars []Character) []string {
	if len(chars) == 0 {
		return nil
	}
	ids := make([]string, len(chars))
	for i, c := range chars {
		ids[i] = c.ID
	}
	return ids
}
