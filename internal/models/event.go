package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a scheduled or past video session. Transcription and AISummary
// are filled in by the summary pipeline after the recording is published;
// the chat context builder only uses events whose transcription is
// non-empty.
type Event struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description,omitempty"`
	Transcription string    `gorm:"type:text" json:"transcription,omitempty"`
	AISummary     string    `gorm:"column:ai_summary;type:text" json:"ai_summary,omitempty"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	YoutubeURL    string    `gorm:"column:youtube_url" json:"youtube_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that assigns a UUID when none is set
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// HasTranscript reports whether the event carries a usable transcript
func (e *Event) HasTranscript() bool {
	return strings.TrimSpace(e.Transcription) != ""
}

// CreateEventRequest is the request structure for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	YoutubeURL  string    `json:"youtube_url"`
}

// UpdateEventRequest is the request structure for updating an event.
// Pointer fields distinguish "not sent" from "set to empty".
type UpdateEventRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Transcription *string    `json:"transcription"`
	AISummary     *string    `json:"ai_summary"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	YoutubeURL    *string    `json:"youtube_url"`
}
