package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv, AppPort   string
	SessionCookieName string
	SessionTTL        time.Duration
	CORSOrigins       []string

	RedisAddr string
	RedisDB   int

	// CompletionProvider selects the chat backend: openai, anthropic or gemini.
	CompletionProvider string
	OpenAIBaseURL      string
	OpenAIModel        string
	AnthropicBaseURL   string
	AnthropicModel     string
	GeminiBaseURL      string
	GeminiModel        string
	CompletionTimeout  time.Duration
	DryRun             bool

	ProviderRPS   int
	ProviderBurst int

	GenerateRateMax    int
	GenerateRateWindow time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppEnv:             get("APP_ENV", "dev"),
		AppPort:            get("APP_PORT", "8080"),
		SessionCookieName:  get("SESSION_COOKIE_NAME", "mocktest_sid"),
		SessionTTL:         mustDuration(get("SESSION_TTL", "24h")),
		CORSOrigins:        GetEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		RedisAddr:          get("REDIS_ADDR", ""),
		RedisDB:            atoi(get("REDIS_DB", "0")),
		CompletionProvider: strings.ToLower(get("COMPLETION_PROVIDER", "openai")),
		OpenAIBaseURL:      get("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        get("OPENAI_MODEL", "gpt-4o"),
		AnthropicBaseURL:   get("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"),
		AnthropicModel:     get("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		GeminiBaseURL:      get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:        get("GEMINI_MODEL", "gemini-2.5-pro"),
		CompletionTimeout:  mustDuration(get("COMPLETION_TIMEOUT", "120s")),
		DryRun:             parseBool(get("DRY_RUN", "false")),
		ProviderRPS:        GetEnvInt("PROVIDER_RPS", 2),
		ProviderBurst:      GetEnvInt("PROVIDER_BURST", 2),
		GenerateRateMax:    GetEnvInt("GENERATE_RATE_MAX", 10),
		GenerateRateWindow: mustDuration(get("GENERATE_RATE_WINDOW", "1m")),
	}
	return c
}

// IsProd reports whether cookies should be marked Secure.
func (c *Config) IsProd() bool { return c.AppEnv == "prod" || c.AppEnv == "production" }

func GetEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return d
}

func GetEnvList(k string, d []string) []string {
	if v := os.Getenv(k); v != "" {
		return strings.Split(v, ",")
	}
	return d
}

func get(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
func atoi(s string) int       { i, _ := strconv.Atoi(s); return i }
func parseBool(s string) bool { b, _ := strconv.ParseBool(s); return b }
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func GetEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}
