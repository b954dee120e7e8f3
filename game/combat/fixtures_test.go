package combat

// Shared fixtures for the combat tests. Durations are kept small so test
// timelines stay easy to follow by hand.

func testLibrary() *SkillLibrary {
	return NewSkillLibrary(
		Skill{ID: "strike", Name: "Strike", BaseDuration: 1, Targeting: TargetEnemyLowestHP,
			Effects: []Effect{{Kind: EffectDamage, Value: 10}}},
		Skill{ID: "smite", Name: "Smite", BaseDuration: 2, Targeting: TargetEnemyLowestHP,
			Effects: []Effect{{Kind: EffectDamage, Value: 10}}},
		Skill{ID: "claw", Name: "Claw", BaseDuration: 1, Targeting: TargetEnemyLowestHP,
			Effects: []Effect{{Kind: EffectDamage, Value: 4}}},
		Skill{ID: "heavy-blow", Name: "Heavy Blow", BaseDuration: 3, Targeting: TargetEnemyHighestHP,
			Effects: []Effect{{Kind: EffectDamage, Value: 25}}},
		Skill{ID: "fireball", Name: "Fireball", BaseDuration: 2, Targeting: TargetAllEnemies,
			Effects: []Effect{{Kind: EffectDamage, Value: 8}}},
		Skill{ID: "mend", Name: "Mend", BaseDuration: 1, Targeting: TargetAllyLowestHPDamaged,
			Effects: []Effect{{Kind: EffectHeal, Value: 12}}},
		Skill{ID: "venom-dart", Name: "Venom Dart", BaseDuration: 1, Targeting: TargetEnemyLowestHP,
			Effects: []Effect{{Kind: EffectStatus, Status: StatusPoisoned, Duration: 3, Value: 4}}},
		Skill{ID: "stun-bolt", Name: "Stun Bolt", BaseDuration: 1, Targeting: TargetEnemyLowestHP,
			Effects: []Effect{{Kind: EffectStatus, Status: StatusStunned, Duration: 2}}},
		Skill{ID: "barrier", Name: "Barrier", BaseDuration: 1, Targeting: TargetSelf,
			Effects: []Effect{{Kind: EffectShield, Value: 15}}},
		Skill{ID: "war-cry", Name: "War Cry", BaseDuration: 1, Targeting: TargetSelf,
			Effects: []Effect{{Kind: EffectStatus, Status: StatusTaunting, Duration: 3}}},
		Skill{ID: "last-rites", Name: "Last Rites", BaseDuration: 2, Targeting: TargetAllyDead,
			Effects: []Effect{{Kind: EffectRevive, Value: 10}}},
		Skill{ID: "disrupt", Name: "Disrupt", BaseDuration: 1, Targeting: TargetEnemyHighestHP,
			Effects: []Effect{{Kind: EffectCancel}}},
	)
}

func testChar(id, name string, hp int, skills ...string) Character {
	return Character{
		ID:        id,
		Name:      name,
		MaxHP:     hp,
		CurrentHP: hp,
		Skills:    skills,
	}
}

func newTestEngine() *Engine {
	return NewEngine(EngineConfig{Library: testLibrary()})
}

func findEvent(events []CombatEvent, typ EventType) *CombatEvent {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func countEvents(events []CombatEvent, typ EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func intPtr(v int) *int { return &v }

// queueTestAction plants an in-flight action directly in the state, the way
// a previous tick would have left it.
func queueTestAction(s *CombatState, casterID, skillID string, targetIDs []string, ticks int) {
	s.queueAction(Action{
		SkillID:        skillID,
		CasterID:       casterID,
		TargetIDs:      targetIDs,
		TicksRemaining: ticks,
	})
}
