package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoCredentials is returned when neither the caller nor the operator
// has any provider key configured. No network call is made in that case.
var ErrNoCredentials = errors.New("no AI API keys are currently available")

// ProviderError wraps a failed call to a vendor's chat completion API.
// The vendor message is kept for logs; handlers surface a generic message
// to the client instead.
type ProviderError struct {
	Vendor     string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Vendor, e.StatusCode, e.Message)
}

// Provider is a single LLM vendor adapter. Send builds the vendor-specific
// request from the user message and the assembled transcript context, and
// normalizes the response to plain text.
type Provider interface {
	Name() string
	Send(ctx context.Context, message, contextText, apiKey string) (string, error)
}

// newHTTPClient returns the shared client configuration for the adapters
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
