package combat

import "go.uber.org/zap"

// resolveAction applies one completed action: every effect of the skill, in
// definition order, against every captured target, in selection order. The
// action is removed from the state afterwards whether or not anything landed.
//
// The caster may already be down; a lethal exchange still sees both sides'
// finished casts go off in the same tick.
func (e *Engine) resolveAction(s *CombatState, act Action, sink *eventSink) {
	caster := s.Character(act.CasterID)
	if caster == nil {
		s.dropAction(act.CasterID)
		return
	}
	skill, ok := e.library.Get(act.SkillID)
	if !ok {
		e.logger.Warn("dropping action with unknown skill",
			zap.String("skill", act.SkillID),
			zap.String("caster", act.CasterID))
		s.dropAction(act.CasterID)
		return
	}

	sink.actionResolved(caster, skill)
	for _, eff := range skill.Effects {
		for _, id := range act.TargetIDs {
			target := s.Character(id)
			if target == nil {
				continue
			}
			e.applyEffect(s, caster, target, skill.Name, eff, sink)
		}
	}
	s.dropAction(act.CasterID)
}

func (e *Engine) applyEffect(s *CombatState, caster, target *Character, skillName string, eff Effect, sink *eventSink) {
	switch eff.Kind {
	case EffectDamage:
		if target.IsDead() {
			return
		}
		dmg := eff.Value
		if caster.HasStatus(StatusEnraged) {
			dmg = dmg * 3 / 2
		}
		if target.HasStatus(StatusDefending) {
			dmg /= 2
		}
		absorbed := 0
		if sh := target.status(StatusShielded); sh != nil && sh.Value > 0 {
			absorbed = sh.Value
			if absorbed > dmg {
				absorbed = dmg
			}
			sh.Value -= absorbed
			if sh.Value <= 0 {
				target.removeStatusInPlace(StatusShielded)
				sink.statusExpired(target, StatusShielded)
			}
		}
		hpLoss := dmg - absorbed
		if hpLoss > target.CurrentHP {
			hpLoss = target.CurrentHP
		}
		target.CurrentHP -= hpLoss
		sink.damage(caster, target, skillName, dmg, absorbed)

	case EffectHeal:
		if target.IsDead() {
			return
		}
		before := target.CurrentHP
		after := before + eff.Value
		if after > target.MaxHP {
			after = target.MaxHP
		}
		target.CurrentHP = after
		sink.heal(caster, target, skillName, after-before)

	case EffectShield:
		if target.IsDead() {
			return
		}
		dur := eff.Duration
		if dur <= 0 {
			dur = PermanentDuration // holds until the pool is spent
		}
		st := StatusEffect{Type: StatusShielded, Duration: dur, Value: eff.Value}
		target.applyStatusInPlace(st)
		sink.shield(caster, target, skillName, eff.Value)

	case EffectStatus:
		if eff.Status == "" || target.IsDead() {
			return
		}
		dur := eff.Duration
		if dur <= 0 {
			dur = PermanentDuration
		}
		st := StatusEffect{Type: eff.Status, Duration: dur, Value: eff.Value}
		target.applyStatusInPlace(st)
		sink.statusApplied(caster, target, st)

	case EffectRevive:
		if target.IsAlive() {
			return
		}
		hp := eff.Value
		if hp < 1 {
			hp = 1
		}
		if hp > target.MaxHP {
			hp = target.MaxHP
		}
		target.CurrentHP = hp
		sink.revive(caster, target, skillName, hp)

	case EffectCancel:
		if target.CurrentAction == nil || target.CurrentAction.TicksRemaining <= 0 {
			return
		}
		cancelled := target.CurrentAction.SkillID
		if sk, ok := e.library.Get(cancelled); ok {
			cancelled = sk.Name
		}
		s.dropAction(target.ID)
		sink.actionCancelled(caster, target, cancelled)
	}
}
