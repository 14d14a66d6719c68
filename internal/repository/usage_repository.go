package repository

import (
	"context"
	"errors"

	"shipped-video-hub/backend/internal/models"

	"gorm.io/gorm"
)

// UsageRepository tracks per-user daily chat credits
type UsageRepository interface {
	// GetCount reads the current counter for (user, day) without mutating
	// it. A missing row reads as zero.
	GetCount(ctx context.Context, userID uint, day string) (int, error)

	// IncrementAndGet atomically increments the counter for (user, day),
	// creating the row if needed, and returns the post-increment value.
	IncrementAndGet(ctx context.Context, userID uint, day string) (int, error)
}

// GormUsageRepository is the Postgres-backed usage repository
type GormUsageRepository struct {
	db *gorm.DB
}

// NewGormUsageRepository creates a new usage repository
func NewGormUsageRepository(db *gorm.DB) *GormUsageRepository {
	return &GormUsageRepository{db: db}
}

func (r *GormUsageRepository) GetCount(ctx context.Context, userID uint, day string) (int, error) {
	var record models.UserCredits
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND last_reset_date = ?", userID, day).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.CreditsUsed, nil
}

// IncrementAndGet performs the increment as a single database-side upsert.
// Two concurrent requests from the same user must not both read a stale
// count and write it back, so the read-modify-write happens entirely in
// the INSERT ... ON CONFLICT statement.
func (r *GormUsageRepository) IncrementAndGet(ctx context.Context, userID uint, day string) (int, error) {
	var creditsUsed int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO user_credits (user_id, last_reset_date, credits_used, created_at, updated_at)
		VALUES (?, ?, 1, NOW(), NOW())
		ON CONFLICT (user_id, last_reset_date)
		DO UPDATE SET credits_used = user_credits.credits_used + 1, updated_at = NOW()
		RETURNING credits_used`,
		userID, day,
	).Scan(&creditsUsed).Error
	if err != nil {
		return 0, err
	}
	return creditsUsed, nil
}
