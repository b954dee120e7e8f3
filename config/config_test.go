package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  debug: true
engine:
  max_ticks_per_battle: 50
session:
  idle_ttl: 1m
content:
  skills_path: ./content/skills.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, 50, cfg.Engine.MaxTicksPerBattle)
	assert.Equal(t, time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "./content/skills.yaml", cfg.Content.SkillsPath)

	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.Session.HistoryCap)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, float64(2), cfg.Playback.TicksPerSecond)
	assert.Equal(t, 10, cfg.Forecast.Horizon)
	assert.Empty(t, cfg.Content.CampaignPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// Default() is written out by hand; this pins it to the viper defaults.
func TestDefault_MatchesNoOpFileLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  debug: false\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
