package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nudge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, `
db_path: /tmp/x.db
tick_interval: 50ms
notification_timeout: 2m
time_of_day: morning
carry_yesterday: false
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 2*time.Minute, cfg.NotificationTimeout)
	assert.Equal(t, "morning", cfg.TimeOfDay)
	assert.False(t, cfg.CarryYesterday)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.LearnFromIgnored, "unset keys keep defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NUDGE_DB", "env.db")
	t.Setenv("NUDGE_TICK", "1s")
	t.Setenv("NUDGE_TIMEOUT", "30s")
	t.Setenv("NUDGE_CARRY_YESTERDAY", "false")
	t.Setenv("NUDGE_LOG_LEVEL", "warn")

	cfg, err := Load(writeFile(t, "db_path: file.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 30*time.Second, cfg.NotificationTimeout)
	assert.False(t, cfg.CarryYesterday)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadNormalizes(t *testing.T) {
	cfg, err := Load(writeFile(t, "tick_interval: -1s\ntime_of_day: midnight\nnotification_timeout: -5s\n"))
	require.NoError(t, err)
	assert.Equal(t, 600*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "evening", cfg.TimeOfDay)
	assert.Equal(t, time.Duration(0), cfg.NotificationTimeout)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "tick_interval: [oops\n"))
	assert.Error(t, err)
}
