package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/mossgate/emberline/config"
	"github.com/mossgate/emberline/content"
	"github.com/mossgate/emberline/game/combat"
	"github.com/mossgate/emberline/game/run"
	"github.com/mossgate/emberline/game/session"
	"github.com/mossgate/emberline/scheduler"
)

func main() {
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, cfgErr := config.Load(cfgPath)
	if cfgErr != nil {
		cfg = config.Default()
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Log.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Warn("config not loaded, running on defaults",
			zap.String("path", cfgPath),
			zap.Error(cfgErr))
	}

	// ---- Content ----
	library, campaign := loadContent(cfg, logger)
	if err := content.CheckSkills(campaign, library); err != nil {
		log.Fatalf("content: %v", err)
	}

	// ---- Engine ----
	engine := combat.NewEngine(combat.EngineConfig{
		Library:  library,
		MaxTicks: cfg.Engine.MaxTicksPerBattle,
		Logger:   logger,
	})

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Session Manager ----
	manager := session.NewManager(session.ManagerConfig{
		Engine:        engine,
		HistoryCap:    cfg.Session.HistoryCap,
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
		Scheduler:     sched,
		Logger:        logger,
	})
	defer manager.Stop()

	// ---- Campaign ----
	r := run.NewRun(run.Config{
		Roster:     campaign.Party,
		Encounters: campaign.Encounters,
		Pool:       campaign.Pool,
		Logger:     logger,
	})

	logger.Info("Campaign begins",
		zap.String("campaign", campaign.Name),
		zap.Int("party", len(campaign.Party)),
		zap.Int("encounters", len(campaign.Encounters)))

	if err := playCampaign(cfg, logger, manager, r); err != nil {
		log.Fatalf("campaign: %v", err)
	}

	reportOutcome(logger, r)
}

// loadContent reads the skill library and campaign from the configured YAML
// paths. Empty paths select the built-in demo content; a broken file is fatal
// rather than silently swapped out, so authoring mistakes surface.
func loadContent(cfg *config.Config, logger *zap.Logger) (*combat.SkillLibrary, *content.Campaign) {
	library := content.DemoLibrary()
	if cfg.Content.SkillsPath != "" {
		var err error
		library, err = content.LoadLibrary(cfg.Content.SkillsPath)
		if err != nil {
			log.Fatalf("skills: %v", err)
		}
		logger.Info("Skills loaded",
			zap.String("path", cfg.Content.SkillsPath),
			zap.Int("skills", len(library.Skills())))
	} else {
		logger.Info("Using built-in demo skills", zap.Int("skills", len(library.Skills())))
	}

	campaign := content.DemoCampaign()
	if cfg.Content.CampaignPath != "" {
		var err error
		campaign, err = content.LoadCampaign(cfg.Content.CampaignPath)
		if err != nil {
			log.Fatalf("campaign: %v", err)
		}
		logger.Info("Campaign loaded",
			zap.String("path", cfg.Content.CampaignPath),
			zap.String("campaign", campaign.Name))
	} else {
		logger.Info("Using built-in demo campaign", zap.String("campaign", campaign.Name))
	}

	return library, campaign
}

// playCampaign fights the whole encounter chain, one paced battle session per
// encounter, handing out banked reward skills between fights.
func playCampaign(cfg *config.Config, logger *zap.Logger, manager *session.Manager, r *run.Run) error {
	for r.Status() == run.StatusActive {
		enc, _ := r.CurrentEncounter()
		id, ctrl := manager.Create(r.BattleState())

		logger.Info("Encounter begins",
			zap.String("session", id),
			zap.String("encounter", enc.ID),
			zap.String("name", enc.Name),
			zap.Int("enemies", len(enc.Enemies)))

		if fc := ctrl.Forecast(cfg.Forecast.Horizon); fc.Ended {
			logger.Info("Forecast resolves within the horizon",
				zap.Int("ends_at", fc.EndsAt),
				zap.String("outcome", string(fc.Final.Status)))
		}

		if err := fight(logger, ctrl, cfg.Playback.TicksPerSecond); err != nil {
			return err
		}
		logEndState(logger, ctrl.View())

		if err := r.CompleteBattle(ctrl.State()); err != nil {
			return err
		}
		manager.Close(id)

		if r.Status() == run.StatusActive {
			handOutRewards(logger, r)
		}
	}
	return nil
}

// fight plays the battle to its end at the configured pace, narrating every
// combat event as it happens.
func fight(logger *zap.Logger, ctrl *session.Controller, ticksPerSecond float64) error {
	out, err := ctrl.Play(context.Background(), session.NewRatePacer(ticksPerSecond))
	if err != nil {
		return err
	}
	for res := range out {
		for _, ev := range res.Events {
			logger.Info(ev.Message,
				zap.Int("tick", ev.Tick),
				zap.String("type", string(ev.Type)))
		}
	}
	return nil
}

func logEndState(logger *zap.Logger, view *session.BattleView) {
	for _, side := range [][]session.CharacterView{view.Players, view.Enemies} {
		for _, ch := range side {
			logger.Info("Combatant",
				zap.String("id", ch.ID),
				zap.Int("hp", ch.HP),
				zap.Int("max_hp", ch.MaxHP),
				zap.Bool("alive", ch.Alive))
		}
	}
}

// handOutRewards drains the reward pool onto the roster, each skill going to
// the member with the thinnest loadout so grants spread across the party.
func handOutRewards(logger *zap.Logger, r *run.Run) {
	for _, skillID := range r.Pool() {
		pick := ""
		best := -1
		for _, member := range r.Roster() {
			if knowsSkill(member, skillID) {
				continue
			}
			if best < 0 || len(member.Skills) < best {
				best = len(member.Skills)
				pick = member.ID
			}
		}
		if pick == "" {
			continue
		}
		if err := r.DistributeSkill(pick, skillID); err == nil {
			logger.Info("Skill granted",
				zap.String("character", pick),
				zap.String("skill", skillID))
		}
	}
}

func knowsSkill(ch combat.Character, skillID string) bool {
	for _, s := range ch.Skills {
		if s == skillID {
			return true
		}
	}
	return false
}

func reportOutcome(logger *zap.Logger, r *run.Run) {
	switch r.Status() {
	case run.StatusComplete:
		logger.Info("Campaign complete")
	case run.StatusFailed:
		logger.Info("Campaign failed",
			zap.Int("at_encounter", r.EncounterIndex()))
	}
	for _, member := range r.Roster() {
		logger.Info("Roster",
			zap.String("id", member.ID),
			zap.Int("hp", member.CurrentHP),
			zap.Int("max_hp", member.MaxHP),
			zap.Strings("skills", member.Skills))
	}
}
