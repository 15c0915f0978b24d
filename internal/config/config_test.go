package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_PASS", "CHART_DPI", "CHART_OUTPUT_DIR", "QUEUE_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "event_analytics", cfg.DBName)
	assert.Equal(t, "root", cfg.DBUser)
	assert.Equal(t, "", cfg.DBPass)
	assert.Equal(t, 300.0, cfg.ChartDPI)
	assert.Equal(t, "results/charts", cfg.ChartDir)
	assert.False(t, cfg.QueueEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASS", "legacy")
	t.Setenv("CHART_DPI", "150")
	t.Setenv("QUEUE_ENABLED", "yes")

	cfg := Load()
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "legacy", cfg.DBPass)
	assert.Equal(t, 150.0, cfg.ChartDPI)
	assert.True(t, cfg.QueueEnabled)

	t.Setenv("DB_PASSWORD", "preferred")
	assert.Equal(t, "preferred", Load().DBPass)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("CHART_DPI", "-3")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "soon")
	cfg := Load()
	assert.Equal(t, 300.0, cfg.ChartDPI)
	assert.Equal(t, 60, cfg.AccessTTLMin)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")
	cc := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cc.Methods)
	assert.Equal(t, "reports", cc.Prefix)
}
