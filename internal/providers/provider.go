package providers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type SourceName string

const (
	SourceOpenAI SourceName = "OPENAI"
	SourceClaude SourceName = "CLAUDE"
	SourceGemini SourceName = "GEMINI"
)

var ErrEmptyCompletion = errors.New("empty completion")

// Request is one chat turn: a fixed system role plus the assembled prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Completion struct {
	Text       string         `json:"text"`
	LatencyMs  int            `json:"latency_ms,omitempty"`
	TokenUsage map[string]any `json:"token_usage,omitempty"`
}

// Client issues exactly one completion call per Complete. The credential is
// passed per call and never retained by the client.
type Client interface {
	Name() SourceName
	Complete(ctx context.Context, credential string, req Request) (Completion, error)
}

// Options configures any of the HTTP backends.
type Options struct {
	BaseURL string
	Model   string
	DryRun  bool
	// Limiter paces outbound calls; nil means unpaced.
	Limiter *rate.Limiter
}

// NewLimiter builds the shared outbound limiter from rps/burst settings.
func NewLimiter(rps, burst int) *rate.Limiter {
	if rps <= 0 {
		rps = 2
	}
	if burst <= 0 {
		burst = 2
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// New returns the backend named by provider.
func New(provider string, opts Options) (Client, error) {
	switch strings.ToLower(provider) {
	case "", "openai":
		return &OpenAI{Options: opts}, nil
	case "anthropic", "claude":
		return &Anthropic{Options: opts}, nil
	case "gemini":
		return &Gemini{Options: opts}, nil
	default:
		return nil, errors.New("unknown completion provider: " + provider)
	}
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}

func since(t0 time.Time) int { return int(time.Since(t0) / time.Millisecond) }

// simulated answers DRY_RUN mode with a well-formed numbered list.
func simulated(req Request) Completion {
	var b strings.Builder
	b.WriteString("Here is your mock test:\n\n")
	for i := 1; i <= 20; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(". Simulated question ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(".\n")
	}
	return Completion{
		Text:      b.String(),
		LatencyMs: 1,
		TokenUsage: map[string]any{
			"prompt_tokens":     len(strings.Fields(req.Prompt)),
			"completion_tokens": 5,
		},
	}
}
