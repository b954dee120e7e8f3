package combat

// TargetMode says how a skill picks its targets, always from the caster's
// point of view.
type TargetMode string

// Known target modes.
const (
	TargetSelf                TargetMode = "self"
	TargetEnemyLowestHP       TargetMode = "single-enemy-lowest-hp"
	TargetEnemyHighestHP      TargetMode = "single-enemy-highest-hp"
	TargetAllEnemies          TargetMode = "all-enemies"
	TargetAllyLowestHP        TargetMode = "ally-lowest-hp"
	TargetAllyLowestHPDamaged TargetMode = "ally-lowest-hp-damaged"
	TargetAllyDead            TargetMode = "ally-dead"
	TargetAllAllies           TargetMode = "all-allies"
)

// Valid reports whether m is one of the known target modes.
func (m TargetMode) Valid() bool {
	switch m {
	case TargetSelf, TargetEnemyLowestHP, TargetEnemyHighestHP, TargetAllEnemies,
		TargetAllyLowestHP, TargetAllyLowestHPDamaged, TargetAllyDead, TargetAllAllies:
		return true
	}
	return false
}

// AlliesOnly reports whether the mode can never produce an opposing target,
// which also means the taunt redirect does not apply to it.
func (m TargetMode) AlliesOnly() bool {
	switch m {
	case TargetSelf, TargetAllyLowestHP, TargetAllyLowestHPDamaged, TargetAllyDead, TargetAllAllies:
		return true
	}
	return false
}

// SelectTargets resolves a target mode into concrete characters. allies is
// the caster's full roster including the caster; enemies is the opposing
// roster. Ties on HP keep the first in roster order. An unknown mode or a
// mode with no valid target returns an empty list; the caller skips the
// skill in that case.
func SelectTargets(mode TargetMode, caster Character, allies, enemies []Character) []Character {
	switch mode {
	case TargetSelf:
		return []Character{caster.Clone()}

	case TargetEnemyLowestHP:
		return pickOne(enemies, func(best, c *Character) bool { return c.CurrentHP < best.CurrentHP })

	case TargetEnemyHighestHP:
		return pickOne(enemies, func(best, c *Character) bool { return c.CurrentHP > best.CurrentHP })

	case TargetAllEnemies:
		return pickAll(enemies, (*Character).IsAlive)

	case TargetAllyLowestHP:
		return pickOne(allies, func(best, c *Character) bool { return c.CurrentHP < best.CurrentHP })

	case TargetAllyLowestHPDamaged:
		var hurt []Character
		for i := range allies {
			if allies[i].IsAlive() && allies[i].CurrentHP < allies[i].MaxHP {
				hurt = append(hurt, allies[i])
			}
		}
		return pickOne(hurt, func(best, c *Character) bool { return c.CurrentHP < best.CurrentHP })

	case TargetAllyDead:
		for i := range allies {
			if allies[i].IsDead() {
				return []Character{allies[i].Clone()}
			}
		}
		return nil

	case TargetAllAllies:
		return pickAll(allies, (*Character).IsAlive)
	}
	return nil
}

// pickOne scans the living members of roster and keeps the first one that
// every later candidate fails to beat. better must be a strict comparison so
// ties resolve to the earliest slot.
func pickOne(roster []Character, better func(best, c *Character) bool) []Character {
	var best *Character
	for i := range roster {
		if !roster[i].IsAlive() {
			continue
		}
		if best == nil || better(best, &roster[i]) {
			best = &roster[i]
		}
	}
	if best == nil {
		return nil
	}
	return []Character{best.Clone()}
}

func pickAll(roster []Character, keep func(*Character) bool) []Character {
	var out []Character
	for i := range roster {
		if keep(&roster[i]) {
			out = append(out, roster[i].Clone())
		}
	}
	return out
}

// ApplyTargetFilters post-processes a selection. If the selection is aimed at
// the caster's opponents and a living opponent is taunting, the whole
// selection collapses to the first such taunter. Dead targets are then
// stripped unless allowDead is set (revive targeting asks for corpses on
// purpose). The input slice is not modified.
func ApplyTargetFilters(targets []Character, players, enemies []Character, casterIsPlayer, allowDead bool) []Character {
	if len(targets) == 0 {
		return nil
	}
	out := make([]Character, len(targets))
	for i, t := range targets {
		out[i] = t.Clone()
	}

	opposing := enemies
	if !casterIsPlayer {
		opposing = players
	}
	if aimedAt(out, opposing) {
		for i := range opposing {
			if opposing[i].IsAlive() && opposing[i].HasStatus(StatusTaunting) {
				out = []Character{opposing[i].Clone()}
				break
			}
		}
	}

	if !allowDead {
		kept := out[:0]
		for _, t := range out {
			if t.IsAlive() {
				kept = append(kept, t)
			}
		}
		out = kept
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// aimedAt reports whether every target sits on the given roster.
func aimedAt(targets []Character, roster []Character) bool {
	for _, t := range targets {
		found := false
		for i := range roster {
			if roster[i].ID == t.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
