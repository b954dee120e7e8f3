package content

import (
	"github.com/mossgate/emberline/game/combat"
	"github.com/mossgate/emberline/game/run"
)

func intp(v int) *int { return &v }

// DemoLibrary returns the built-in skill set, used when no skills file is
// configured. The ranger pair shows the rule engine off: aimed-shot is gated
// on the target side carrying poison, so the two skills alternate.
func DemoLibrary() *combat.SkillLibrary {
	return combat.NewSkillLibrary(
		combat.Skill{
			ID: "slash", Name: "Slash", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 8}},
		},
		combat.Skill{
			ID: "guard", Name: "Guard", BaseDuration: 1, Targeting: combat.TargetSelf,
			Effects: []combat.Effect{{Kind: combat.EffectStatus, Status: combat.StatusDefending, Duration: 2}},
			Rules: []combat.Rule{
				{Priority: 6, Conditions: []combat.Condition{{Kind: combat.CondHPBelow, Threshold: intp(40)}}},
			},
		},
		combat.Skill{
			ID: "war-cry", Name: "War Cry", BaseDuration: 1, Targeting: combat.TargetSelf,
			Effects: []combat.Effect{{Kind: combat.EffectStatus, Status: combat.StatusTaunting, Duration: 3}},
			Rules: []combat.Rule{
				{Priority: 4, Conditions: []combat.Condition{{Kind: combat.CondAllyCount, Threshold: intp(1)}}},
			},
		},
		combat.Skill{
			ID: "aimed-shot", Name: "Aimed Shot", BaseDuration: 2, Targeting: combat.TargetEnemyHighestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 14}},
			Rules: []combat.Rule{
				{Priority: 4, Conditions: []combat.Condition{{Kind: combat.CondEnemyHasStatus, Status: combat.StatusPoisoned}}},
			},
		},
		combat.Skill{
			ID: "poison-arrow", Name: "Poison Arrow", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{
				{Kind: combat.EffectDamage, Value: 2},
				{Kind: combat.EffectStatus, Status: combat.StatusPoisoned, Duration: 3, Value: 3},
			},
		},
		combat.Skill{
			ID: "mend", Name: "Mend", BaseDuration: 1, Targeting: combat.TargetAllyLowestHPDamaged,
			Effects: []combat.Effect{{Kind: combat.EffectHeal, Value: 10}},
			Rules:   []combat.Rule{{Priority: 8}},
		},
		combat.Skill{
			ID: "smite", Name: "Smite", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 6}},
		},
		combat.Skill{
			ID: "sanctuary", Name: "Sanctuary", BaseDuration: 1, Targeting: combat.TargetAllyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectShield, Value: 12}},
		},
		combat.Skill{
			ID: "piercing-bolt", Name: "Piercing Bolt", BaseDuration: 2, Targeting: combat.TargetEnemyHighestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 18}},
		},
		combat.Skill{
			ID: "bite", Name: "Bite", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 6}},
		},
		combat.Skill{
			ID: "crush", Name: "Crush", BaseDuration: 3, Targeting: combat.TargetEnemyHighestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 18}},
		},
		combat.Skill{
			ID: "venom-spit", Name: "Venom Spit", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{
				{Kind: combat.EffectDamage, Value: 3},
				{Kind: combat.EffectStatus, Status: combat.StatusPoisoned, Duration: 3, Value: 4},
			},
			Rules: []combat.Rule{
				{Priority: 5, Conditions: []combat.Condition{{Kind: combat.CondAllyCount, Threshold: intp(0)}}},
			},
		},
		combat.Skill{
			ID: "rampage", Name: "Rampage", BaseDuration: 2, Targeting: combat.TargetAllEnemies,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 12}},
			Rules: []combat.Rule{
				{Priority: 9, Conditions: []combat.Condition{{Kind: combat.CondHPBelow, Threshold: intp(40)}}},
			},
		},
	)
}

// DemoCampaign returns the built-in three-encounter campaign matched to
// DemoLibrary.
func DemoCampaign() *Campaign {
	mk := func(id, name string, hp int, skills ...string) combat.Character {
		return combat.Character{ID: id, Name: name, MaxHP: hp, CurrentHP: hp, Skills: skills}
	}
	return &Campaign{
		Name: "The Ember Road",
		Party: []combat.Character{
			mk("knight", "Knight", 60, "slash", "guard", "war-cry"),
			mk("ranger", "Ranger", 45, "aimed-shot", "poison-arrow"),
			mk("cleric", "Cleric", 40, "mend", "smite"),
		},
		Encounters: []run.Encounter{
			{
				ID: "wolf-den", Name: "Wolf Den",
				Enemies: []combat.Character{
					mk("wolf-a", "Grey Wolf", 25, "bite"),
					mk("wolf-b", "Grey Wolf", 25, "bite"),
				},
				RewardSkills: []string{"sanctuary"},
			},
			{
				ID: "bridge", Name: "Broken Bridge",
				Enemies: []combat.Character{
					mk("brute", "Bridge Brute", 55, "crush", "bite"),
					mk("wolf-c", "Grey Wolf", 25, "bite"),
				},
				RewardSkills: []string{"piercing-bolt"},
			},
			{
				ID: "keep", Name: "Warlord's Keep",
				Enemies: []combat.Character{
					mk("warlord", "Ashen Warlord", 90, "rampage", "venom-spit", "crush"),
					mk("bodyguard", "Bodyguard", 35, "bite"),
				},
			},
		},
	}
}
