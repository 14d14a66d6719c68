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
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIModel          = "gpt-4o-mini"
)

// OpenAI is the adapter for OpenAI's chat completions API
type OpenAI struct {
	baseURL string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI adapter
func NewOpenAI(timeout time.Duration) *OpenAI {
	return &OpenAI{
		baseURL: openAIDefaultBaseURL,
		client:  newHTTPClient(timeout),
	}
}

// NewOpenAIWithBaseURL creates an adapter pointed at a custom endpoint
func NewOpenAIWithBaseURL(baseURL string, timeout time.Duration) *OpenAI {
	p := NewOpenAI(timeout)
	p.baseURL = baseURL
	return p
}

func (p *OpenAI) Name() string {
	return "openai"
}

// Send performs one chat completion call and returns the first choice's text
func (p *OpenAI) Send(ctx context.Context, message, contextText, apiKey string) (string, error) {
	return p.Complete(ctx, SystemPrompt(contextText), message, apiKey, 1000)
}

// Complete runs a chat completion with an explicit system prompt. The
// summary pipeline uses this directly with its own summarizer persona.
func (p *OpenAI) Complete(ctx context.Context, systemPrompt, userPrompt, apiKey string, maxTokens int) (string, error) {
	payload := map[string]any{
		"model": openAIModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  maxTokens,
		"temperature": 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal openai payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build openai request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Vendor: p.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read openai response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Vendor:     p.Name(),
			StatusCode: resp.StatusCode,
			Message:    vendorErrorMessage(respBody),
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", &ProviderError{Vendor: p.Name(), StatusCode: resp.StatusCode, Message: "empty completion"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// vendorErrorMessage pulls the human-readable message out of an error body
// shaped like {"error": {"message": "..."}}; both OpenAI and Anthropic use
// this shape.
func vendorErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return "Unknown error"
}
