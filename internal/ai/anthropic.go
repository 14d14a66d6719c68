package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicModel          = "claude-3-5-haiku-20241022"
	anthropicVersion        = "2023-06-01"
)

// Anthropic is the adapter for Anthropic's messages API
type Anthropic struct {
	baseURL string
	client  *http.Client
}

// NewAnthropic creates a new Anthropic adapter
func NewAnthropic(timeout time.Duration) *Anthropic {
	return &Anthropic{
		baseURL: anthropicDefaultBaseURL,
		client:  newHTTPClient(timeout),
	}
}

// NewAnthropicWithBaseURL creates an adapter pointed at a custom endpoint
func NewAnthropicWithBaseURL(baseURL string, timeout time.Duration) *Anthropic {
	p := NewAnthropic(timeout)
	p.baseURL = baseURL
	return p
}

func (p *Anthropic) Name() string {
	return "anthropic"
}

// Send performs one messages call and returns the first content block's text
func (p *Anthropic) Send(ctx context.Context, message, contextText, apiKey string) (string, error) {
	payload := map[string]any{
		"model":      anthropicModel,
		"max_tokens": 1000,
		"system":     SystemPrompt(contextText),
		"messages": []map[string]string{
			{"role": "user", "content": message},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Vendor: p.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read anthropic response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Vendor:     p.Name(),
			StatusCode: resp.StatusCode,
			Message:    vendorErrorMessage(respBody),
		}
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", &ProviderError{Vendor: p.Name(), StatusCode: resp.StatusCode, Message: "empty completion"}
	}

	return parsed.Content[0].Text, nil
}
