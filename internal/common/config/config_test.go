package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "HISTORY_LIMIT", "DEFAULT_PX_PER_METER", "GUEST_API_TIMEOUT", "LAYOUT_DB_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 0.0, cfg.DefaultPxPerMeter)
	assert.Equal(t, 5*time.Second, cfg.GuestAPITimeout)
	assert.Equal(t, "./data/layout.db", cfg.DBPath)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("HISTORY_LIMIT", "20")
	t.Setenv("DEFAULT_PX_PER_METER", "62.5")
	t.Setenv("GUEST_API_TIMEOUT", "2")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Equal(t, 62.5, cfg.DefaultPxPerMeter)
	assert.Equal(t, 2*time.Second, cfg.GuestAPITimeout)
	assert.True(t, cfg.IsProduction())
}

func TestMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "lots")
	t.Setenv("DEFAULT_PX_PER_METER", "wide")

	cfg := Load()
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 0.0, cfg.DefaultPxPerMeter)
}
