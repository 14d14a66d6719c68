package service

import (
	"context"
	"fmt"

	"shipped-video-hub/backend/internal/ai"
	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/repository"
	"shipped-video-hub/backend/internal/youtube"
	"shipped-video-hub/backend/pkg/logger"
)

const summarizerPrompt = "You are an AI assistant that creates concise, informative summaries of video content. Focus on key topics, main points, and actionable insights. Keep summaries between 100-200 words."

// summaryInputLimit bounds how much transcript is sent to the summarizer
const summaryInputLimit = 4000

// SummaryService fills in an event's transcript and AI summary from its
// YouTube recording. Failures are soft: a fetch error stores a placeholder
// so an admin can paste the transcript manually, and a summary error
// stores an "unavailable" note. The event row is updated either way.
type SummaryService struct {
	events      repository.EventRepository
	transcripts *youtube.TranscriptClient
	openai      *ai.OpenAI
	keySource   ai.KeySource
	log         *logger.Logger
}

// NewSummaryService creates the transcript/summary pipeline
func NewSummaryService(
	events repository.EventRepository,
	transcripts *youtube.TranscriptClient,
	openai *ai.OpenAI,
	keySource ai.KeySource,
	log *logger.Logger,
) *SummaryService {
	return &SummaryService{
		events:      events,
		transcripts: transcripts,
		openai:      openai,
		keySource:   keySource,
		log:         log,
	}
}

// GenerateForEvent fetches the transcript for the event's video, generates
// a summary, and persists both on the event
func (s *SummaryService) GenerateForEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}

	if event.YoutubeURL == "" {
		return nil, fmt.Errorf("event %s has no video URL", eventID)
	}

	videoID, err := youtube.ExtractVideoID(event.YoutubeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid YouTube URL: %w", err)
	}

	transcript, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		s.log.LogError(err, "transcript fetch failed", "event_id", eventID, "video_id", videoID)
		transcript = fmt.Sprintf("[Transcript unavailable for video %s - Please add manually. Error: %s]", videoID, err.Error())
	}

	summary := s.generateSummary(ctx, transcript)

	event.Transcription = transcript
	event.AISummary = summary

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("persist transcript and summary: %w", err)
	}

	s.log.Info("generated transcript and summary",
		"event_id", eventID,
		"video_id", videoID,
		"transcript_chars", len(transcript),
	)
	return event, nil
}

func (s *SummaryService) generateSummary(ctx context.Context, transcript string) string {
	keys, err := s.keySource.OperatorKeys(ctx)
	if err != nil || keys.OpenAI == "" {
		return "AI summary unavailable - OpenAI API key not configured"
	}

	input := transcript
	if len(input) > summaryInputLimit {
		input = input[:summaryInputLimit]
	}

	summary, err := s.openai.Complete(ctx, summarizerPrompt,
		"Please provide a summary of this video transcript:\n\n"+input,
		keys.OpenAI, 300)
	if err != nil {
		s.log.LogError(err, "summary generation failed")
		return "AI summary unavailable - Error occurred during generation"
	}

	return summary
}
