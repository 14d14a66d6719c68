package service

import (
	"context"
	stderrors "errors"

	"shipped-video-hub/backend/internal/ai"
	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/pkg/errors"
	"shipped-video-hub/backend/pkg/logger"
	"shipped-video-hub/backend/pkg/observability"
)

// ChatService orchestrates one assistant exchange: usage gate, transcript
// context assembly, provider selection, response.
type ChatService struct {
	usage          *UsageService
	contextBuilder *ContextBuilder
	selector       *ai.Selector
	metrics        *observability.ChatMetrics
	log            *logger.Logger
}

// NewChatService creates the chat orchestrator
func NewChatService(
	usage *UsageService,
	contextBuilder *ContextBuilder,
	selector *ai.Selector,
	metrics *observability.ChatMetrics,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		usage:          usage,
		contextBuilder: contextBuilder,
		selector:       selector,
		metrics:        metrics,
		log:            log,
	}
}

// CheckUsage serves the __CHECK_USAGE__ sentinel: it reads the counter
// without consuming a credit or touching any provider.
func (s *ChatService) CheckUsage(ctx context.Context, userID uint, keys models.UserAPIKeys) (int, error) {
	s.metrics.RecordRequest(ctx, "check")

	result, err := s.usage.Check(ctx, userID, keys.HasAny(), true)
	if err != nil {
		return 0, err
	}
	return result.CurrentCount, nil
}

// Send runs the full pipeline for one user message and returns the
// assistant's reply
func (s *ChatService) Send(ctx context.Context, userID uint, req models.ChatRequest) (string, error) {
	s.log.Info("received chat request",
		"user_id", userID,
		"message", logger.Truncate(req.Message, 100),
		"event_ids", len(req.EventIDs),
		"has_user_keys", req.UserAPIKeys.HasAny(),
	)

	if _, err := s.usage.Check(ctx, userID, req.UserAPIKeys.HasAny(), false); err != nil {
		if errors.HasCode(err, errors.CodeQuotaExceeded) {
			s.metrics.RecordQuotaRejection(ctx)
		}
		s.metrics.RecordRequest(ctx, "error")
		return "", err
	}

	// Context assembly failure degrades to an ungrounded answer rather
	// than failing the whole request
	contextText, err := s.contextBuilder.Build(ctx, req.EventIDs)
	if err != nil {
		s.log.LogError(err, "context build failed, continuing without context",
			"user_id", userID,
			"event_ids", len(req.EventIDs),
		)
		contextText = ""
	}

	response, vendor, err := s.selector.Respond(ctx, req.Message, contextText, ai.Credentials{
		OpenAI:    req.UserAPIKeys.OpenAI,
		Anthropic: req.UserAPIKeys.Anthropic,
		Gemini:    req.UserAPIKeys.Gemini,
	})
	if vendor != "" {
		s.metrics.RecordProviderCall(ctx, vendor, err)
	}
	if err != nil {
		s.metrics.RecordRequest(ctx, "error")
		return "", s.mapProviderError(err, userID)
	}

	s.metrics.RecordRequest(ctx, "ok")
	return response, nil
}

// mapProviderError converts selector/adapter failures into the API error
// taxonomy. Vendor detail stays in the logs; clients get a generic message.
func (s *ChatService) mapProviderError(err error, userID uint) error {
	if stderrors.Is(err, ai.ErrNoCredentials) {
		return errors.NewServiceUnavailableError(errors.CodeNoCredentials,
			"No AI API keys are currently available. Please add your own API keys to use the AI chat feature.")
	}

	var provErr *ai.ProviderError
	if stderrors.As(err, &provErr) {
		s.log.Error("provider call failed",
			"user_id", userID,
			"vendor", provErr.Vendor,
			"status", provErr.StatusCode,
			"vendor_message", provErr.Message,
		)
		return errors.NewBadGatewayError(errors.CodeProviderError,
			"The AI service is temporarily unavailable. Please try again.")
	}

	s.log.LogError(err, "chat request failed", "user_id", userID)
	return errors.FromError(err)
}
