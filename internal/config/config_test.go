package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "SESSION_TTL", "DEMO_USER_ID", "WAHA_BASE_URL", "WORKER_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "user_123", cfg.DemoUserID)
	assert.Equal(t, "http://waha:3000", cfg.WahaBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.WorkerInterval)
	assert.False(t, cfg.IsProduction())
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "90s", 90 * time.Second},
		{"bare seconds", "120", 2 * time.Minute},
		{"garbage", "soon", time.Hour},
		{"negative", "-5m", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvDuration("TEST_DURATION", time.Hour))
		})
	}
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.True(t, FromEnv().IsProduction())
}
