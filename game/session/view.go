package session

import (
	"github.com/mossgate/emberline/game/combat"
)

// recentEvents is how many trailing event messages a view carries.
const recentEvents = 8

// BattleView is a render-ready projection of the current state: percentages
// precomputed, skill and status names resolved, nothing the caller has to
// walk the raw state for.
type BattleView struct {
	Tick    int                 `json:"tick"`
	Status  combat.BattleStatus `json:"status"`
	Players []CharacterView     `json:"players"`
	Enemies []CharacterView     `json:"enemies"`
	Recent  []string            `json:"recent,omitempty"`
}

// CharacterView is one roster entry as the UI draws it.
type CharacterView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	HP        int          `json:"hp"`
	MaxHP     int          `json:"maxHp"`
	HPPercent float64      `json:"hpPercent"`
	Alive     bool         `json:"alive"`
	Statuses  []StatusView `json:"statuses,omitempty"`
	Casting   *CastView    `json:"casting,omitempty"`
}

// StatusView is one active status effect.
type StatusView struct {
	Type      combat.StatusType `json:"type"`
	Duration  int               `json:"duration"`
	Value     int               `json:"value,omitempty"`
	Permanent bool              `json:"permanent,omitempty"`
}

// CastView is an in-flight skill cast.
type CastView struct {
	SkillID        string   `json:"skillId"`
	SkillName      string   `json:"skillName"`
	TicksRemaining int      `json:"ticksRemaining"`
	TargetIDs      []string `json:"targetIds"`
}

// View returns the render model for the current state. Views are memoized
// until the session mutates; the returned value is shared and must be
// treated as read-only.
func (c *Controller) View() *BattleView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == nil {
		c.view = buildView(c.current(), c.engine.Library())
	}
	return c.view
}

func buildView(s *combat.CombatState, lib *combat.SkillLibrary) *BattleView {
	v := &BattleView{
		Tick:    s.TickNumber,
		Status:  s.Status,
		Players: make([]CharacterView, len(s.Players)),
		Enemies: make([]CharacterView, len(s.Enemies)),
	}
	for i := range s.Players {
		v.Players[i] = characterView(&s.Players[i], lib)
	}
	for i := range s.Enemies {
		v.Enemies[i] = characterView(&s.Enemies[i], lib)
	}
	start := len(s.EventLog) - recentEvents
	if start < 0 {
		start = 0
	}
	for _, ev := range s.EventLog[start:] {
		v.Recent = append(v.Recent, ev.Message)
	}
	return v
}

func characterView(ch *combat.Character, lib *combat.SkillLibrary) CharacterView {
	cv := CharacterView{
		ID:    ch.ID,
		Name:  ch.Name,
		HP:    ch.CurrentHP,
		MaxHP: ch.MaxHP,
		Alive: ch.IsAlive(),
	}
	if ch.MaxHP > 0 {
		cv.HPPercent = float64(ch.CurrentHP) / float64(ch.MaxHP) * 100
	}
	for _, st := range ch.Statuses {
		cv.Statuses = append(cv.Statuses, StatusView{
			Type:      st.Type,
			Duration:  st.Duration,
			Value:     st.Value,
			Permanent: st.Duration == combat.PermanentDuration,
		})
	}
	if a := ch.CurrentAction; a != nil {
		cast := &CastView{
			SkillID:        a.SkillID,
			SkillName:      a.SkillID,
			TicksRemaining: a.TicksRemaining,
			TargetIDs:      append([]string(nil), a.TargetIDs...),
		}
		if sk, ok := lib.Get(a.SkillID); ok {
			cast.SkillName = sk.Name
		}
		cv.Casting = cast
	}
	return cv
}
