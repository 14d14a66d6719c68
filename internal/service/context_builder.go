package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/repository"
	"shipped-video-hub/backend/pkg/logger"
)

const (
	// transcriptChunkReserve leaves room in each half for the section markers
	transcriptChunkReserve = 100

	blockSeparator = "\n==========================================\n\n"
)

// ContextBuilder assembles the transcript context injected into the AI
// system prompt. Missing events and missing transcripts are reported as
// note strings rather than errors, so the assistant can tell the user.
type ContextBuilder struct {
	events   repository.EventRepository
	maxChars int
	log      *logger.Logger
}

// NewContextBuilder creates a context builder with the given per-transcript
// character budget
func NewContextBuilder(events repository.EventRepository, maxChars int, log *logger.Logger) *ContextBuilder {
	if maxChars <= 0 {
		maxChars = 12000
	}
	return &ContextBuilder{
		events:   events,
		maxChars: maxChars,
		log:      log,
	}
}

// Build fetches the requested events and concatenates one block per event
// that has a transcript. An empty id list yields an empty context.
func (b *ContextBuilder) Build(ctx context.Context, eventIDs []string) (string, error) {
	if len(eventIDs) == 0 {
		return "", nil
	}

	events, err := b.events.GetByIDs(ctx, eventIDs)
	if err != nil {
		return "", fmt.Errorf("failed to fetch video context: %w", err)
	}

	if len(events) == 0 {
		b.log.Info("no events found for requested ids", "event_ids", strings.Join(eventIDs, ","))
		return fmt.Sprintf("Note: No videos found for the selected IDs (%s). Please check if the video IDs are correct.",
			strings.Join(eventIDs, ", ")), nil
	}

	withTranscripts := make([]models.Event, 0, len(events))
	for _, event := range events {
		if event.HasTranscript() {
			withTranscripts = append(withTranscripts, event)
		}
	}

	if len(withTranscripts) == 0 {
		return "Note: The selected videos do not have transcripts available yet.", nil
	}

	blocks := make([]string, len(withTranscripts))
	for i, event := range withTranscripts {
		blocks[i] = b.buildBlock(event)
	}

	assembled := strings.Join(blocks, blockSeparator)
	b.log.Info("built transcript context",
		"events_requested", len(eventIDs),
		"events_with_transcripts", len(withTranscripts),
		"context_chars", len(assembled),
	)
	return assembled, nil
}

func (b *ContextBuilder) buildBlock(event models.Event) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== VIDEO: %s ===\n", event.Title)
	if event.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n\n", event.Description)
	}
	if event.AISummary != "" {
		fmt.Fprintf(&sb, "AI Summary: %s\n\n", event.AISummary)
	}

	transcript := event.Transcription
	if len(transcript) > b.maxChars {
		b.log.Info("chunking transcript",
			"title", event.Title,
			"transcript_chars", len(transcript),
			"budget_chars", b.maxChars,
		)

		// Keep the beginning and the end; the middle is sacrificed. This is
		// a deliberate lossy policy so the model sees how the video opens
		// and closes.
		chunkSize := b.maxChars/2 - transcriptChunkReserve
		firstChunk := transcript[:chunkSize]
		lastChunk := transcript[len(transcript)-chunkSize:]

		sb.WriteString("Full Transcript (chunked due to length):\n")
		fmt.Fprintf(&sb, "[BEGINNING OF VIDEO]\n%s\n\n", firstChunk)
		sb.WriteString("[... MIDDLE SECTION TRUNCATED FOR LENGTH ...]\n\n")
		fmt.Fprintf(&sb, "[END OF VIDEO]\n%s\n", lastChunk)
		fmt.Fprintf(&sb, "\n[Note: This is a %dk character transcript, showing beginning and end sections]",
			int(math.Round(float64(len(transcript))/1000)))
	} else {
		fmt.Fprintf(&sb, "Full Transcript:\n%s\n", transcript)
	}

	return sb.String()
}
