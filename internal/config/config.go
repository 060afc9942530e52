// Package config loads controller settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// Config holds all controller configuration.
type Config struct {
	DBPath string `yaml:"db_path"`

	// TickInterval is the wall time of one simulated minute.
	TickInterval time.Duration `yaml:"tick_interval"`

	// NotificationTimeout force-closes an unanswered notification without
	// recording an outcome. Zero disables the watchdog.
	NotificationTimeout time.Duration `yaml:"notification_timeout"`

	// TimeOfDay is internal context for hook selection: morning, afternoon or evening.
	TimeOfDay string `yaml:"time_of_day"`

	// CarryYesterday makes a rollover copy today's total into yesterday.
	CarryYesterday bool `yaml:"carry_yesterday"`

	// LearnFromIgnored lets an explicit "ignored" outcome move the tone ladder.
	LearnFromIgnored bool `yaml:"learn_from_ignored"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the runtime logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DBPath:              "nudge_state.db",
		TickInterval:        600 * time.Millisecond,
		NotificationTimeout: 0,
		TimeOfDay:           string(state.Evening),
		CarryYesterday:      true,
		LearnFromIgnored:    true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the config: defaults, then the YAML file at path (if it
// exists), then .env, then environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DBPath = envOr("NUDGE_DB", cfg.DBPath)
	cfg.TimeOfDay = envOr("NUDGE_TIME_OF_DAY", cfg.TimeOfDay)
	cfg.Logging.Level = envOr("NUDGE_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = envOr("NUDGE_LOG_FORMAT", cfg.Logging.Format)
	if d, err := time.ParseDuration(os.Getenv("NUDGE_TICK")); err == nil {
		cfg.TickInterval = d
	}
	if d, err := time.ParseDuration(os.Getenv("NUDGE_TIMEOUT")); err == nil {
		cfg.NotificationTimeout = d
	}
	if b, err := strconv.ParseBool(os.Getenv("NUDGE_CARRY_YESTERDAY")); err == nil {
		cfg.CarryYesterday = b
	}
}

func (c *Config) normalize() {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultConfig().TickInterval
	}
	if c.NotificationTimeout < 0 {
		c.NotificationTimeout = 0
	}
	c.TimeOfDay = string(state.ParseTimeOfDay(c.TimeOfDay))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
