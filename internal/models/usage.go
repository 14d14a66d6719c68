package models

import "time"

// UserCredits tracks how many AI chat credits a user has consumed on a
// given UTC day. One row per (user, day); the counter only moves through
// the atomic increment in the usage repository, never a read-then-write.
type UserCredits struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_credits_user_day" json:"user_id"`
	LastResetDate string    `gorm:"uniqueIndex:idx_user_credits_user_day;type:date" json:"last_reset_date"`
	CreditsUsed   int       `gorm:"default:0" json:"credits_used"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name to match the original schema
func (UserCredits) TableName() string {
	return "user_credits"
}

// UsageDay formats a time as the per-day bucket key (UTC calendar day)
func UsageDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
