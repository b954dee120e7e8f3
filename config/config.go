package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Session  SessionConfig  `mapstructure:"session"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Content  ContentConfig  `mapstructure:"content"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type EngineConfig struct {
	// MaxTicksPerBattle caps runaway battles; past it the battle is abandoned
	// as unresolved.
	MaxTicksPerBattle int `mapstructure:"max_ticks_per_battle"`
}

type SessionConfig struct {
	HistoryCap    int           `mapstructure:"history_cap"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type PlaybackConfig struct {
	TicksPerSecond float64 `mapstructure:"ticks_per_second"`
}

type ForecastConfig struct {
	Horizon int `mapstructure:"horizon"`
}

type ContentConfig struct {
	// SkillsPath and CampaignPath point at the YAML content files. Empty
	// paths fall back to the built-in demo content.
	SkillsPath   string `mapstructure:"skills_path"`
	CampaignPath string `mapstructure:"campaign_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.debug", false)
	v.SetDefault("engine.max_ticks_per_battle", 1000)
	v.SetDefault("session.history_cap", 100)
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.sweep_interval", "5m")
	v.SetDefault("playback.ticks_per_second", 2)
	v.SetDefault("forecast.horizon", 10)
	v.SetDefault("content.skills_path", "")
	v.SetDefault("content.campaign_path", "")
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration, the same values Load falls
// back to for keys a file leaves out.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{MaxTicksPerBattle: 1000},
		Session: SessionConfig{
			HistoryCap:    100,
			IdleTTL:       30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Playback: PlaybackConfig{TicksPerSecond: 2},
		Forecast: ForecastConfig{Horizon: 10},
	}
}
