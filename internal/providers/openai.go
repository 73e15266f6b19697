package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emandor/mocktest_service/internal/telemetry"
)

type OpenAI struct {
	Options
	Client *http.Client
}

func (c *OpenAI) Name() SourceName { return SourceOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]any `json:"usage"`
}

func (c *OpenAI) Complete(ctx context.Context, credential string, req Request) (Completion, error) {
	log := telemetry.L().With().Str("provider", string(c.Name())).Logger()
	// DRY_RUN mode: skip API call
	if c.DryRun {
		log.Info().Msg("openai_dry_run_enabled")
		return simulated(req), nil
	}
	if err := wait(ctx, c.Limiter); err != nil {
		return Completion{}, err
	}

	b, err := json.Marshal(chatCompletionRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return Completion{}, err
	}
	log.Debug().Int("body_len", len(b)).Msg("openai_request")

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return Completion{}, err
	}
	hr.Header.Set("Authorization", "Bearer "+credential)
	hr.Header.Set("Content-Type", "application/json")

	t0 := time.Now()
	resp, err := httpClient(c.Client).Do(hr)
	if err != nil {
		log.Error().Err(err).Msg("openai_request_failed")
		return Completion{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, err
	}
	log.Debug().Int("status_code", resp.StatusCode).Int("body_len", len(raw)).Msg("openai_response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Str("status", resp.Status).Msg("openai_http_error")
		return Completion{}, errors.New("openai http " + resp.Status)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Completion{}, err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return Completion{}, ErrEmptyCompletion
	}

	return Completion{
		Text:       out.Choices[0].Message.Content,
		LatencyMs:  since(t0),
		TokenUsage: out.Usage,
	}, nil
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
