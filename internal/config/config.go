package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"daily-quiz-service/internal/quiz"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Period              string `yaml:"period"`
		TickInterval        string `yaml:"tick_interval"`
		CorrectReward       *int   `yaml:"correct_reward"`
		ParticipationReward *int   `yaml:"participation_reward"`
		CacheTTL            string `yaml:"cache_ttl"`
		Bank                string `yaml:"bank"`
	} `yaml:"quiz"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

const (
	DefaultPeriod       = 24 * time.Hour
	DefaultTickInterval = time.Second
	DefaultCacheTTL     = 10 * time.Minute
	DefaultRedisTTL     = 10 * time.Minute
	DefaultBank         = "config/questions.yaml"
)

// Default returns a config that runs fully in memory.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Quiz.Period = DefaultPeriod.String()
	cfg.Quiz.TickInterval = DefaultTickInterval.String()
	cfg.Quiz.CacheTTL = DefaultCacheTTL.String()
	cfg.Quiz.Bank = DefaultBank
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the quiz engine cannot run with.
func (c Config) Validate() error {
	durations := []struct {
		key string
		raw string
	}{
		{"quiz.period", c.Quiz.Period},
		{"quiz.tick_interval", c.Quiz.TickInterval},
		{"quiz.cache_ttl", c.Quiz.CacheTTL},
		{"redis.ttl", c.Redis.TTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		if _, err := time.ParseDuration(d.raw); err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
	}
	if c.PeriodSeconds() < 1 {
		return fmt.Errorf("quiz.period must be at least 1s, got %q", c.Quiz.Period)
	}
	rewards := c.Rewards()
	if rewards.Correct < 0 || rewards.Participation < 0 {
		return fmt.Errorf("quiz rewards must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// PeriodSeconds is the rollover period in whole seconds.
func (c Config) PeriodSeconds() int {
	return int(DurationOr(c.Quiz.Period, DefaultPeriod) / time.Second)
}

func (c Config) TickInterval() time.Duration {
	d := DurationOr(c.Quiz.TickInterval, DefaultTickInterval)
	if d <= 0 {
		return DefaultTickInterval
	}
	return d
}

// Rewards falls back to the defaults for rewards not set in the file.
func (c Config) Rewards() quiz.Rewards {
	rewards := quiz.DefaultRewards()
	if c.Quiz.CorrectReward != nil {
		rewards.Correct = *c.Quiz.CorrectReward
	}
	if c.Quiz.ParticipationReward != nil {
		rewards.Participation = *c.Quiz.ParticipationReward
	}
	return rewards
}

// DurationOr parses a duration string or returns the fallback if empty.
// Malformed values also fall back; Validate rejects them at load time.
func DurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
