package ai

import (
	"context"
	"errors"

	"shipped-video-hub/backend/pkg/logger"
	"shipped-video-hub/backend/pkg/resilience"
)

// Credentials is one set of provider keys, either caller-supplied or
// operator-configured
type Credentials struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// HasAny reports whether at least one key is present
func (c Credentials) HasAny() bool {
	return c.OpenAI != "" || c.Anthropic != "" || c.Gemini != ""
}

func (c Credentials) keyFor(vendor string) string {
	switch vendor {
	case "gemini":
		return c.Gemini
	case "openai":
		return c.OpenAI
	case "anthropic":
		return c.Anthropic
	}
	return ""
}

// KeySource supplies the operator-configured fallback credentials
type KeySource interface {
	OperatorKeys(ctx context.Context) (Credentials, error)
}

// KeySourceFunc adapts a function to the KeySource interface
type KeySourceFunc func(ctx context.Context) (Credentials, error)

func (f KeySourceFunc) OperatorKeys(ctx context.Context) (Credentials, error) {
	return f(ctx)
}

// priority is the fixed vendor order. Caller keys win over operator keys;
// within a key set the first vendor with a key is chosen, so selection is
// deterministic for a given key set.
var priority = []string{"gemini", "openai", "anthropic"}

// Selector picks a provider adapter based on the available credentials and
// dispatches the request to it
type Selector struct {
	providers map[string]Provider
	breakers  map[string]*resilience.Breaker
	keySource KeySource
	log       *logger.Logger
}

// NewSelector creates a selector over the given adapters. Each vendor gets
// its own circuit breaker so a flapping upstream fails fast instead of
// burning the full request timeout.
func NewSelector(providers []Provider, keySource KeySource, log *logger.Logger) *Selector {
	byName := make(map[string]Provider, len(providers))
	breakers := make(map[string]*resilience.Breaker, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
		breakers[p.Name()] = resilience.New(resilience.DefaultConfig(p.Name()), log)
	}
	return &Selector{
		providers: byName,
		breakers:  breakers,
		keySource: keySource,
		log:       log,
	}
}

// Respond selects a provider and returns its reply plus the vendor used.
// When the caller supplied no keys, the operator's keys are consulted;
// when no keys exist anywhere it fails with ErrNoCredentials before any
// network activity.
func (s *Selector) Respond(ctx context.Context, message, contextText string, callerKeys Credentials) (string, string, error) {
	keys := callerKeys
	fromCaller := true

	if !keys.HasAny() {
		fromCaller = false
		if s.keySource != nil {
			operatorKeys, err := s.keySource.OperatorKeys(ctx)
			if err != nil {
				s.log.Warn("failed to load operator provider keys", "error", err.Error())
			} else {
				keys = operatorKeys
			}
		}
	}

	if !keys.HasAny() {
		return "", "", ErrNoCredentials
	}

	for _, vendor := range priority {
		apiKey := keys.keyFor(vendor)
		if apiKey == "" {
			continue
		}
		provider, ok := s.providers[vendor]
		if !ok {
			continue
		}

		s.log.Info("dispatching chat request to provider",
			"vendor", vendor,
			"caller_keys", fromCaller,
			"has_context", contextText != "",
		)

		var text string
		err := s.breakers[vendor].Execute(func() error {
			var sendErr error
			text, sendErr = provider.Send(ctx, message, contextText, apiKey)
			return sendErr
		})
		if errors.Is(err, resilience.ErrOpen) {
			err = &ProviderError{Vendor: vendor, Message: "temporarily unavailable"}
		}
		return text, vendor, err
	}

	return "", "", ErrNoCredentials
}
