package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("COMPLETION_TIMEOUT", "")

	c := Load()

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "openai", c.CompletionProvider)
	assert.Equal(t, "gpt-4o", c.OpenAIModel)
	assert.Equal(t, "", c.RedisAddr)
	assert.Equal(t, 120*time.Second, c.CompletionTimeout)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.False(t, c.DryRun)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("COMPLETION_PROVIDER", "Gemini")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("GENERATE_RATE_WINDOW", "30s")

	c := Load()

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "gemini", c.CompletionProvider)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, 2, c.RedisDB)
	assert.True(t, c.DryRun)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
	assert.Equal(t, 30*time.Second, c.GenerateRateWindow)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("PROVIDER_RPS", "many")
	assert.Equal(t, 2, GetEnvInt("PROVIDER_RPS", 2))
}
