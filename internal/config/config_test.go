package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: dev
  timezone: Asia/Kolkata
telegram:
  token: "test-token"
  owner_id: 42
  log_group_id: -100500
  db_channel_id: -100600
limits:
  default_daily: 7
  premium_daily: 50
  premium_days: 15
  donation_amount: 9
reminder:
  window_days: 3
  interval: 2h
  dedup_per_day: true
delivery:
  delete_delay: 90s
http:
  addr: ":9090"
postgres:
  dsn: "postgres://localhost/test"
metrics:
  enabled: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, "test-token", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.OwnerID)
	assert.Equal(t, int64(-100500), cfg.Telegram.LogGroupID)
	assert.Equal(t, int64(-100600), cfg.Telegram.DBChannelID)
	assert.Equal(t, 7, cfg.Limits.DefaultDaily)
	assert.Equal(t, 50, cfg.Limits.PremiumDaily)
	assert.Equal(t, 15, cfg.Limits.PremiumDays)
	assert.Equal(t, 9, cfg.Limits.DonationAmount)
	assert.Equal(t, 3, cfg.Reminder.WindowDays)
	assert.Equal(t, 2*time.Hour, cfg.Reminder.Interval)
	assert.True(t, cfg.Reminder.DedupPerDay)
	assert.Equal(t, 90*time.Second, cfg.Delivery.DeleteDelay)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: prod
postgres:
  dsn: "postgres://localhost/test"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, 5, cfg.Limits.DefaultDaily)
	assert.Equal(t, 40, cfg.Limits.PremiumDaily)
	assert.Equal(t, 30, cfg.Limits.PremiumDays)
	assert.Equal(t, 5, cfg.Reminder.WindowDays)
	assert.Equal(t, 6*time.Hour, cfg.Reminder.Interval)
	assert.False(t, cfg.Reminder.DedupPerDay)
	assert.Equal(t, 60*time.Second, cfg.Delivery.DeleteDelay)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
