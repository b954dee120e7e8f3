package combat

// ProcessStatusEffects runs one tick of status upkeep for a character and
// returns the updated copy plus the events it produced. Two stages, always
// in this order:
//
//  1. poison damage, skipped for characters already down (shields do not
//     absorb it);
//  2. duration decay, where every non-permanent status loses one tick and
//     the ones reaching zero are removed with a status-expired event.
//
// A poison applied with one tick left therefore deals its damage and expires
// within the same call.
func ProcessStatusEffects(ch Character, tick int) (Character, []CombatEvent) {
	sink := eventSink{tick: tick}
	out := ch.Clone()
	tickStatuses(&out, &sink)
	return out, sink.events
}

func tickStatuses(ch *Character, sink *eventSink) {
	if ch.IsAlive() {
		if p := ch.status(StatusPoisoned); p != nil && p.Value > 0 {
			dmg := p.Value
			if dmg > ch.CurrentHP {
				dmg = ch.CurrentHP
			}
			ch.CurrentHP -= dmg
			sink.poisonDamage(ch, dmg)
			if ch.IsDead() {
				sink.knockout(ch)
			}
		}
	}

	remaining := ch.Statuses[:0]
	for _, s := range ch.Statuses {
		if s.Duration == PermanentDuration {
			remaining = append(remaining, s)
			continue
		}
		s.Duration--
		if s.Duration <= 0 {
			sink.statusExpired(ch, s.Type)
		} else {
			remaining = append(remaining, s)
		}
	}
	ch.Statuses = remaining
}
