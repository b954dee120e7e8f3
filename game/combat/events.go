package combat

import "fmt"

// EventType identifies what a CombatEvent records.
type EventType string

// Event types, in the order a tick can produce them.
const (
	EventActionQueued    EventType = "action-queued"
	EventActionResolved  EventType = "action-resolved"
	EventActionCancelled EventType = "action-cancelled"
	EventDamage          EventType = "damage"
	EventHeal            EventType = "heal"
	EventShield          EventType = "shield"
	EventStatusApplied   EventType = "status-applied"
	EventStatusExpired   EventType = "status-expired"
	EventRevive          EventType = "revive"
	EventKnockout        EventType = "knockout"
	EventVictory         EventType = "victory"
	EventDefeat          EventType = "defeat"
)

// CombatEvent is one line of the battle log. Only the fields relevant to the
// type are set; Message is a ready-to-display rendering of the rest. Tick is
// the number of the tick that produced the event.
type CombatEvent struct {
	Tick      int        `json:"tick"`
	Type      EventType  `json:"type"`
	ActorID   string     `json:"actorId,omitempty"`
	TargetID  string     `json:"targetId,omitempty"`
	Value     int        `json:"value,omitempty"`
	SkillName string     `json:"skillName,omitempty"`
	Status    StatusType `json:"status,omitempty"`
	Message   string     `json:"message"`
}

// eventSink collects the events of one tick in emission order.
type eventSink struct {
	tick   int
	events []CombatEvent
}

func (k *eventSink) emit(ev CombatEvent) {
	ev.Tick = k.tick
	k.events = append(k.events, ev)
}

func (k *eventSink) actionQueued(caster *Character, skill Skill, ticks int) {
	k.emit(CombatEvent{
		Type:      EventActionQueued,
		ActorID:   caster.ID,
		SkillName: skill.Name,
		Value:     ticks,
		Message:   fmt.Sprintf("%s starts %s (%d ticks)", caster.Name, skill.Name, ticks),
	})
}

func (k *eventSink) actionResolved(caster *Character, skill Skill) {
	k.emit(CombatEvent{
		Type:      EventActionResolved,
		ActorID:   caster.ID,
		SkillName: skill.Name,
		Message:   fmt.Sprintf("%s unleashes %s", caster.Name, skill.Name),
	})
}

func (k *eventSink) actionCancelled(caster *Character, target *Character, skillName string) {
	msg := fmt.Sprintf("%s's %s is interrupted", target.Name, skillName)
	actorID := ""
	if caster != nil {
		actorID = caster.ID
		msg = fmt.Sprintf("%s interrupts %s's %s", caster.Name, target.Name, skillName)
	}
	k.emit(CombatEvent{
		Type:      EventActionCancelled,
		ActorID:   actorID,
		TargetID:  target.ID,
		SkillName: skillName,
		Message:   msg,
	})
}

func (k *eventSink) damage(caster *Character, target *Character, skillName string, amount, absorbed int) {
	actorID := ""
	actorName := skillName
	if caster != nil {
		actorID = caster.ID
		actorName = caster.Name
	}
	msg := fmt.Sprintf("%s hits %s with %s for %d damage", actorName, target.Name, skillName, amount)
	if absorbed > 0 {
		msg += fmt.Sprintf(" (%d absorbed)", absorbed)
	}
	k.emit(CombatEvent{
		Type:      EventDamage,
		ActorID:   actorID,
		TargetID:  target.ID,
		Value:     amount,
		SkillName: skillName,
		Message:   msg,
	})
}

func (k *eventSink) poisonDamage(target *Character, amount int) {
	k.emit(CombatEvent{
		Type:     EventDamage,
		TargetID: target.ID,
		Value:    amount,
		Status:   StatusPoisoned,
		Message:  fmt.Sprintf("%s takes %d poison damage", target.Name, amount),
	})
}

func (k *eventSink) heal(caster *Character, target *Character, skillName string, amount int) {
	k.emit(CombatEvent{
		Type:      EventHeal,
		ActorID:   caster.ID,
		TargetID:  target.ID,
		Value:     amount,
		SkillName: skillName,
		Message:   fmt.Sprintf("%s recovers %d HP", target.Name, amount),
	})
}

func (k *eventSink) shield(caster *Character, target *Character, skillName string, pool int) {
	k.emit(CombatEvent{
		Type:      EventShield,
		ActorID:   caster.ID,
		TargetID:  target.ID,
		Value:     pool,
		SkillName: skillName,
		Message:   fmt.Sprintf("%s gains a %d point shield", target.Name, pool),
	})
}

func (k *eventSink) statusApplied(caster *Character, target *Character, s StatusEffect) {
	actorID := ""
	if caster != nil {
		actorID = caster.ID
	}
	k.emit(CombatEvent{
		Type:     EventStatusApplied,
		ActorID:  actorID,
		TargetID: target.ID,
		Status:   s.Type,
		Value:    s.Value,
		Message:  fmt.Sprintf("%s is %s", target.Name, s.Type),
	})
}

func (k *eventSink) statusExpired(target *Character, t StatusType) {
	k.emit(CombatEvent{
		Type:     EventStatusExpired,
		TargetID: target.ID,
		Status:   t,
		Message:  fmt.Sprintf("%s is no longer %s", target.Name, t),
	})
}

func (k *eventSink) revive(caster *Character, target *Character, skillName string, hp int) {
	k.emit(CombatEvent{
		Type:      EventRevive,
		ActorID:   caster.ID,
		TargetID:  target.ID,
		Value:     hp,
		SkillName: skillName,
		Message:   fmt.Sprintf("%s returns to the fight with %d HP", target.Name, hp),
	})
}

func (k *eventSink) knockout(target *Character) {
	k.emit(CombatEvent{
		Type:     EventKnockout,
		TargetID: target.ID,
		Message:  fmt.Sprintf("%s is knocked out", target.Name),
	})
}

func (k *eventSink) victory() {
	k.emit(CombatEvent{Type: EventVictory, Message: "All enemies are down. Victory!"})
}

func (k *eventSink) defeat() {
	k.emit(CombatEvent{Type: EventDefeat, Message: "The party has fallen. Defeat."})
}

// knockedOut reports whether a knockout for the character is already in the
// sink, so the cleanup phase does not double-report poison deaths.
func (k *eventSink) knockedOut(id string) bool {
	for _, ev := range k.events {
		if ev.Type == EventKnockout && ev.TargetID == id {
			return true
		}
	}
	return false
}
