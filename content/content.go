// Package content loads skill and campaign definitions from YAML and
// validates them before anything reaches the engine. Load failures are loud
// and early; a battle must never meet a half-formed skill.
package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mossgate/emberline/game/combat"
	"github.com/mossgate/emberline/game/run"
)

// skillsFile mirrors the skills YAML layout.
type skillsFile struct {
	Skills []combat.Skill `yaml:"skills"`
}

// campaignFile mirrors the campaign YAML layout.
type campaignFile struct {
	Name       string             `yaml:"name"`
	Party      []combat.Character `yaml:"party"`
	Pool       []string           `yaml:"pool"`
	Encounters []run.Encounter    `yaml:"encounters"`
}

// Campaign is a loaded playthrough definition: the party, the reserve skill
// pool and the encounter chain.
type Campaign struct {
	Name       string
	Party      []combat.Character
	Pool       []string
	Encounters []run.Encounter
}

// LoadLibrary reads and validates a skill library from a YAML file.
func LoadLibrary(path string) (*combat.SkillLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	lib, err := ParseLibrary(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	return lib, nil
}

// ParseLibrary builds a skill library from YAML bytes.
func ParseLibrary(data []byte) (*combat.SkillLibrary, error) {
	var f skillsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	if len(f.Skills) == 0 {
		return nil, fmt.Errorf("no skills defined")
	}
	lib := combat.NewSkillLibrary()
	for i, s := range f.Skills {
		if err := validateSkill(s); err != nil {
			return nil, fmt.Errorf("skill %d (%q): %w", i, s.ID, err)
		}
		if lib.Has(s.ID) {
			return nil, fmt.Errorf("duplicate skill id %q", s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		lib.Add(s)
	}
	return lib, nil
}

func validateSkill(s combat.Skill) error {
	if s.ID == "" {
		return fmt.Errorf("missing id")
	}
	if s.BaseDuration < 0 {
		return fmt.Errorf("negative duration %d", s.BaseDuration)
	}
	if !s.Targeting.Valid() {
		return fmt.Errorf("unknown targeting %q", s.Targeting)
	}
	if len(s.Effects) == 0 {
		return fmt.Errorf("no effects")
	}
	for i, eff := range s.Effects {
		if err := validateEffect(eff); err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
	}
	for i, r := range s.Rules {
		if err := validateRule(r); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func validateEffect(eff combat.Effect) error {
	if !eff.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", eff.Kind)
	}
	if eff.Value < 0 {
		return fmt.Errorf("negative value %d", eff.Value)
	}
	switch eff.Kind {
	case combat.EffectStatus:
		if !eff.Status.Valid() {
			return fmt.Errorf("unknown status %q", eff.Status)
		}
		if eff.Duration < combat.PermanentDuration {
			return fmt.Errorf("bad duration %d", eff.Duration)
		}
	case combat.EffectDamage, combat.EffectHeal, combat.EffectShield:
		if eff.Value == 0 {
			return fmt.Errorf("%s without a value", eff.Kind)
		}
	}
	return nil
}

func validateRule(r combat.Rule) error {
	if r.TargetingOverride != "" && !r.TargetingOverride.Valid() {
		return fmt.Errorf("unknown targeting override %q", r.TargetingOverride)
	}
	for i, c := range r.Conditions {
		if err := validateCondition(c); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

func validateCondition(c combat.Condition) error {
	if !c.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	switch c.Kind {
	case combat.CondHPBelow, combat.CondAllyCount:
		if c.Threshold == nil {
			return fmt.Errorf("%s needs a threshold", c.Kind)
		}
	case combat.CondSelfHasStatus, combat.CondAllyHasStatus, combat.CondEnemyHasStatus:
		if !c.Status.Valid() {
			return fmt.Errorf("%s needs a status", c.Kind)
		}
	}
	return nil
}

// LoadCampaign reads and validates a campaign from a YAML file.
func LoadCampaign(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	c, err := ParseCampaign(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	return c, nil
}

// ParseCampaign builds a campaign from YAML bytes. Characters with no
// current_hp start at full health.
func ParseCampaign(data []byte) (*Campaign, error) {
	var f campaignFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse campaign: %w", err)
	}
	if len(f.Party) == 0 {
		return nil, fmt.Errorf("campaign has no party")
	}
	if len(f.Encounters) == 0 {
		return nil, fmt.Errorf("campaign has no encounters")
	}

	seen := make(map[string]bool, len(f.Party))
	for i := range f.Party {
		ch := &f.Party[i]
		if err := normalizeCharacter(ch); err != nil {
			return nil, fmt.Errorf("party member %d (%q): %w", i, ch.ID, err)
		}
		if seen[ch.ID] {
			return nil, fmt.Errorf("duplicate party id %q", ch.ID)
		}
		seen[ch.ID] = true
	}

	encSeen := make(map[string]bool, len(f.Encounters))
	for i := range f.Encounters {
		enc := &f.Encounters[i]
		if enc.ID == "" {
			return nil, fmt.Errorf("encounter %d: missing id", i)
		}
		if encSeen[enc.ID] {
			return nil, fmt.Errorf("duplicate encounter id %q", enc.ID)
		}
		encSeen[enc.ID] = true
		if len(enc.Enemies) == 0 {
			return nil, fmt.Errorf("encounter %q: no enemies", enc.ID)
		}
		ids := make(map[string]bool, len(enc.Enemies))
		for j := range enc.Enemies {
			ch := &enc.Enemies[j]
			if err := normalizeCharacter(ch); err != nil {
				return nil, fmt.Errorf("encounter %q enemy %d (%q): %w", enc.ID, j, ch.ID, err)
			}
			if seen[ch.ID] {
				return nil, fmt.Errorf("encounter %q: enemy id %q collides with a party member", enc.ID, ch.ID)
			}
			if ids[ch.ID] {
				return nil, fmt.Errorf("encounter %q: duplicate enemy id %q", enc.ID, ch.ID)
			}
			ids[ch.ID] = true
		}
	}

	return &Campaign{
		Name:       f.Name,
		Party:      f.Party,
		Pool:       f.Pool,
		Encounters: f.Encounters,
	}, nil
}

// normalizeCharacter validates authored stats and fills the defaults.
func normalizeCharacter(ch *combat.Character) error {
	if ch.ID == "" {
		return fmt.Errorf("missing id")
	}
	if ch.Name == "" {
		ch.Name = ch.ID
	}
	if ch.MaxHP <= 0 {
		return fmt.Errorf("max_hp must be positive, got %d", ch.MaxHP)
	}
	if ch.CurrentHP == 0 {
		ch.CurrentHP = ch.MaxHP
	}
	if ch.CurrentHP < 0 || ch.CurrentHP > ch.MaxHP {
		return fmt.Errorf("current_hp %d out of range 1..%d", ch.CurrentHP, ch.MaxHP)
	}
	for i, st := range ch.Statuses {
		if !st.Type.Valid() {
			return fmt.Errorf("status %d: unknown type %q", i, st.Type)
		}
		if st.Duration < combat.PermanentDuration {
			return fmt.Errorf("status %d: bad duration %d", i, st.Duration)
		}
	}
	return nil
}

// CheckSkills verifies that every skill a campaign references exists in the
// library: party loadouts, the reserve pool and encounter rewards alike.
func CheckSkills(c *Campaign, lib *combat.SkillLibrary) error {
	check := func(where, id string) error {
		if !lib.Has(id) {
			return fmt.Errorf("content: %s references unknown skill %q", where, id)
		}
		return nil
	}
	for _, ch := range c.Party {
		for _, id := range ch.Skills {
			if err := check(fmt.Sprintf("party member %q", ch.ID), id); err != nil {
				return err
			}
		}
	}
	for _, id := range c.Pool {
		if err := check("reserve pool", id); err != nil {
			return err
		}
	}
	for _, enc := range c.Encounters {
		for _, ch := range enc.Enemies {
			for _, id := range ch.Skills {
				if err := check(fmt.Sprintf("encounter %q enemy %q", enc.ID, ch.ID), id); err != nil {
					return err
				}
			}
		}
		for _, id := range enc.RewardSkills {
			if err := check(fmt.Sprintf("encounter %q rewards", enc.ID), id); err != nil {
				return err
			}
		}
	}
	return nil
}
