// Package integration exercises the whole stack together: content feeding
// the engine, sessions wrapping battles, and campaign runs chaining them.
// Package-level tests elsewhere cover each layer on its own; these tests
// only assert on behavior that needs every layer wired at once.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mossgate/emberline/content"
	"github.com/mossgate/emberline/game/combat"
	"github.com/mossgate/emberline/game/run"
	"github.com/mossgate/emberline/game/session"
	"github.com/mossgate/emberline/testutil"
)

// maxFightTicks bounds every stepped battle; demo encounters resolve well
// under it, so hitting the bound means the AI stalled.
const maxFightTicks = 100

// DemoStack wires the demo content into a fresh engine, session manager and
// campaign run, the same way the binary does.
type DemoStack struct {
	Library *combat.SkillLibrary
	Engine  *combat.Engine
	Manager *session.Manager
	Run     *run.Run
}

// NewDemoStack builds a DemoStack and fails the test if the demo content is
// internally inconsistent.
func NewDemoStack(t *testing.T) *DemoStack {
	t.Helper()

	engine := testutil.DemoEngine(t)
	lib := engine.Library()

	camp := content.DemoCampaign()
	require.NoError(t, content.CheckSkills(camp, lib))

	manager := session.NewManager(session.ManagerConfig{Engine: engine})
	r := run.NewRun(run.Config{
		Roster:     camp.Party,
		Encounters: camp.Encounters,
		Pool:       camp.Pool,
	})
	return &DemoStack{Library: lib, Engine: engine, Manager: manager, Run: r}
}

// FightToEnd steps the controller until the battle reaches a terminal
// status and returns the tick it ended on.
func FightToEnd(t *testing.T, ctrl *session.Controller) int {
	t.Helper()
	for i := 0; i < maxFightTicks; i++ {
		if res := ctrl.Step(); res.Ended {
			return res.State.TickNumber
		}
	}
	t.Fatalf("battle still running after %d ticks", maxFightTicks)
	return 0
}

// EventMessages flattens an event list to its messages, the part of an
// event that is stable across identical replays.
func EventMessages(events []combat.CombatEvent) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Message
	}
	return out
}
