package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"
	geminiModel          = "gemini-1.5-flash"
)

// Gemini is the adapter for Google's generateContent API
type Gemini struct {
	baseURL string
	client  *http.Client
}

// NewGemini creates a new Gemini adapter
func NewGemini(timeout time.Duration) *Gemini {
	return &Gemini{
		baseURL: geminiDefaultBaseURL,
		client:  newHTTPClient(timeout),
	}
}

// NewGeminiWithBaseURL creates an adapter pointed at a custom endpoint
func NewGeminiWithBaseURL(baseURL string, timeout time.Duration) *Gemini {
	p := NewGemini(timeout)
	p.baseURL = baseURL
	return p
}

func (p *Gemini) Name() string {
	return "gemini"
}

// Send performs one generateContent call and returns the first candidate's
// text. Gemini has no separate system role here; the system prompt is
// prepended to the user turn, as the web client always did.
func (p *Gemini) Send(ctx context.Context, message, contextText, apiKey string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": SystemPrompt(contextText) + "\n\nUser: " + message},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.7,
			"maxOutputTokens": 1000,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL, geminiModel, url.QueryEscape(apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Vendor: p.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Vendor:     p.Name(),
			StatusCode: resp.StatusCode,
			Message:    vendorErrorMessage(respBody),
		}
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Vendor: p.Name(), StatusCode: resp.StatusCode, Message: "empty completion"}
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
