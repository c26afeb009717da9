package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOSTEL_PAGE_SIZE", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()
	assert.Equal(t, 4, cfg.HostelPageSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HOSTEL_PAGE_SIZE", "12")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://hostelwise.app, https://admin.hostelwise.app ,")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.HostelPageSize)
	assert.Equal(t, 100, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://hostelwise.app", "https://admin.hostelwise.app"}, cfg.AllowedOrigins)
}
