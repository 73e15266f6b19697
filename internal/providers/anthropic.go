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

type Anthropic struct {
	Options
	Client *http.Client
}

func (c *Anthropic) Name() SourceName { return SourceClaude }

func (c *Anthropic) Complete(ctx context.Context, credential string, req Request) (Completion, error) {
	log := telemetry.L().With().Str("provider", string(c.Name())).Logger()
	// DRY_RUN mode: skip API call
	if c.DryRun {
		log.Info().Msg("anthropic_dry_run_enabled")
		return simulated(req), nil
	}
	if err := wait(ctx, c.Limiter); err != nil {
		return Completion{}, err
	}

	body := map[string]any{
		"model":       c.Model,
		"system":      req.System,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": req.Prompt},
		},
	}
	b, _ := json.Marshal(body)
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+"/messages", bytes.NewReader(b))
	if err != nil {
		return Completion{}, err
	}
	hr.Header.Set("x-api-key", credential)
	hr.Header.Set("anthropic-version", "2023-06-01")
	hr.Header.Set("Content-Type", "application/json")

	t0 := time.Now()
	resp, err := httpClient(c.Client).Do(hr)
	if err != nil {
		log.Error().Err(err).Msg("anthropic_request_failed")
		return Completion{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Str("status", resp.Status).Msg("anthropic_http_error")
		return Completion{}, errors.New("anthropic http " + resp.Status)
	}
	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage map[string]any `json:"usage"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Completion{}, err
	}

	var parts []string
	for _, part := range out.Content {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	text := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		return Completion{}, ErrEmptyCompletion
	}
	return Completion{Text: text, LatencyMs: since(t0), TokenUsage: out.Usage}, nil
}
