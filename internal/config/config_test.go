package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUERY_PAGE_SIZE", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()
	assert.Equal(t, 10, cfg.Query.PageSize)
	assert.Equal(t, 20, cfg.Query.HistoryCap)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUERY_PAGE_SIZE", "5")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, 5, cfg.Query.PageSize)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestQueryLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, QueryConfig{Timezone: "Mars/Olympus"}.Location())
}
