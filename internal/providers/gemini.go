package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emandor/mocktest_service/internal/telemetry"
)

type Gemini struct {
	Options
	Client *http.Client
}

func (c *Gemini) Name() SourceName { return SourceGemini }

func (c *Gemini) Complete(ctx context.Context, credential string, req Request) (Completion, error) {
	log := telemetry.L().With().Str("provider", string(c.Name())).Logger()
	// DRY_RUN mode: skip API call
	if c.DryRun {
		log.Info().Msg("gemini_dry_run_enabled")
		return simulated(req), nil
	}
	if err := wait(ctx, c.Limiter); err != nil {
		return Completion{}, err
	}

	body := map[string]any{
		"systemInstruction": map[string]any{
			"parts": []any{map[string]string{"text": req.System}},
		},
		"contents": []any{
			map[string]any{
				"role": "user",
				"parts": []any{
					map[string]string{"text": req.Prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     req.Temperature,
			"maxOutputTokens": req.MaxTokens,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Completion{}, err
	}
	log.Debug().Int("body_len", len(b)).Msg("gemini_request")

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.BaseURL, "/"), c.Model)
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return Completion{}, err
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("X-goog-api-key", credential)

	t0 := time.Now()
	resp, err := httpClient(c.Client).Do(hr)
	if err != nil {
		log.Error().Err(err).Msg("gemini_request_failed")
		return Completion{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, err
	}
	log.Debug().Int("status_code", resp.StatusCode).Int("body_len", len(raw)).Msg("gemini_response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Str("status", resp.Status).Msg("gemini_http_error")
		return Completion{}, errors.New("gemini http " + resp.Status)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback *struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
		UsageMetadata map[string]any `json:"usageMetadata"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Completion{}, err
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return Completion{}, errors.New("gemini blocked: " + out.PromptFeedback.BlockReason)
	}

	var parts []string
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			parts = append(parts, p.Text)
		}
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return Completion{}, ErrEmptyCompletion
	}
	return Completion{Text: text, LatencyMs: since(t0), TokenUsage: out.UsageMetadata}, nil
}
