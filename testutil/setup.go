// Package testutil provides canonical fixtures for tests that need a fully
// wired battle without authoring skills and rosters of their own.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mossgate/emberline/content"
	"github.com/mossgate/emberline/game/combat"
)

// DemoEngine returns an engine loaded with the built-in demo skills.
func DemoEngine(t *testing.T) *combat.Engine {
	t.Helper()
	return combat.NewEngine(combat.EngineConfig{Library: content.DemoLibrary()})
}

// DemoBattle returns the first demo encounter as a tick-zero state: the full
// demo party against the wolf den.
func DemoBattle(t *testing.T) *combat.CombatState {
	t.Helper()
	camp := content.DemoCampaign()
	require.NotEmpty(t, camp.Encounters, "DemoBattle: demo campaign has no encounters")
	return combat.NewCombatState(camp.Party, camp.Encounters[0].Enemies)
}

// Skirmish returns a self-contained two-character fight: a 50 HP hero whose
// strike (10) fells a 30 HP goblin on tick 3, taking a claw (4) per tick.
// Handy when a test only cares about the session machinery around a battle.
func Skirmish(t *testing.T) (*combat.Engine, *combat.CombatState) {
	t.Helper()
	lib := combat.NewSkillLibrary(
		combat.Skill{ID: "strike", Name: "Strike", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 10}}},
		combat.Skill{ID: "claw", Name: "Claw", BaseDuration: 1, Targeting: combat.TargetEnemyLowestHP,
			Effects: []combat.Effect{{Kind: combat.EffectDamage, Value: 4}}},
	)
	state := combat.NewCombatState(
		[]combat.Character{{ID: "hero", Name: "Hero", MaxHP: 50, CurrentHP: 50, Skills: []string{"strike"}}},
		[]combat.Character{{ID: "goblin", Name: "Goblin", MaxHP: 30, CurrentHP: 30, Skills: []string{"claw"}}},
	)
	return combat.NewEngine(combat.EngineConfig{Library: lib}), state
}
