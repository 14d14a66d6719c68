package service

import (
	"context"
	"fmt"
	"time"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/repository"
	"shipped-video-hub/backend/pkg/errors"
	"shipped-video-hub/backend/pkg/logger"
)

// UsageResult reports the outcome of a gate check
type UsageResult struct {
	Allowed      bool
	CurrentCount int
}

// UsageService is the daily credit gate in front of the AI chat. Users
// with their own provider keys bypass it entirely; everyone else gets a
// fixed number of assistant messages per UTC day.
type UsageService struct {
	repo  repository.UsageRepository
	limit int
	log   *logger.Logger
}

// NewUsageService creates a usage gate with the given daily limit
func NewUsageService(repo repository.UsageRepository, limit int, log *logger.Logger) *UsageService {
	if limit <= 0 {
		limit = 5
	}
	return &UsageService{
		repo:  repo,
		limit: limit,
		log:   log,
	}
}

// Limit returns the configured daily credit limit
func (s *UsageService) Limit() int {
	return s.limit
}

// Check applies the gate for one request. checkOnly inspects the counter
// without consuming a credit; the client uses it to render remaining-quota
// UI. userID zero means the request carried no authenticated principal.
func (s *UsageService) Check(ctx context.Context, userID uint, hasUserKeys bool, checkOnly bool) (UsageResult, error) {
	// Callers with their own provider keys are unlimited
	if hasUserKeys {
		return UsageResult{Allowed: true, CurrentCount: 0}, nil
	}

	if userID == 0 {
		return UsageResult{}, errors.NewUnauthorizedError(errors.CodeAuthRequired,
			"Authentication required. Please sign in to use the AI assistant.")
	}

	day := models.UsageDay(time.Now())

	if checkOnly {
		count, err := s.repo.GetCount(ctx, userID, day)
		if err != nil {
			s.log.LogError(err, "failed to read usage counter", "user_id", userID, "day", day)
			return UsageResult{}, errors.NewInternalServerError(errors.CodeInternal, "Failed to check usage limits")
		}
		s.log.Info("usage check", "user_id", userID, "credits_used", count)
		return UsageResult{Allowed: count < s.limit, CurrentCount: count}, nil
	}

	// The increment happens before the limit comparison, so the request
	// that crosses the threshold is rejected but still consumed a slot.
	// That matches the production behavior this gate replaced.
	count, err := s.repo.IncrementAndGet(ctx, userID, day)
	if err != nil {
		s.log.LogError(err, "failed to increment usage counter", "user_id", userID, "day", day)
		return UsageResult{}, errors.NewInternalServerError(errors.CodeInternal, "Failed to check usage limits")
	}

	s.log.Info("message request", "user_id", userID, "credits_used", count)

	if count > s.limit {
		s.log.Info("credit limit exceeded", "user_id", userID, "credits_used", count)
		return UsageResult{Allowed: false, CurrentCount: count},
			errors.NewTooManyRequestsError(errors.CodeQuotaExceeded,
				fmt.Sprintf("Daily credit limit of %d reached. Please add your own API keys to continue using the AI assistant.", s.limit))
	}

	return UsageResult{Allowed: true, CurrentCount: count}, nil
}
