package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/omnibuslines/booking/internal/observability"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiProvider calls the generative-language API for a blurb. Any failure
// degrades to the per-city fallback text.
type GeminiProvider struct {
	apiKey string
	model  string
	client *http.Client
	logger observability.Logger
}

func NewGeminiProvider(apiKey, model string, logger observability.Logger) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (p *GeminiProvider) Insight(ctx context.Context, city string) string {
	text, err := p.generate(ctx, city)
	if err != nil {
		observability.InsightRequests.WithLabelValues("fallback").Inc()
		p.logger.WithField("city", city).WithField("error", err.Error()).Warn("insight request failed")
		return FallbackText(city)
	}
	observability.InsightRequests.WithLabelValues("ok").Inc()
	if text == "" {
		return DefaultText(city)
	}
	return text
}

func (p *GeminiProvider) generate(ctx context.Context, city string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a very short, catchy 2-sentence marketing blurb about why someone should travel to %s by bus right now. Keep it under 40 words.",
		city,
	)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("insight API returned status %d", resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
