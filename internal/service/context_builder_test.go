package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEventRepo struct {
	events map[string]models.Event
	err    error
}

func newFakeEventRepo(events ...models.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[string]models.Event)}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	if r.err != nil {
		return r.err
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	event, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

func (r *fakeEventRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	var found []models.Event
	for _, id := range ids {
		if event, ok := r.events[id]; ok {
			found = append(found, event)
		}
	}
	return found, nil
}

func (r *fakeEventRepo) List(ctx context.Context) ([]models.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	events := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	return events, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.events, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func TestContextBuilderEmptySelection(t *testing.T) {
	builder := NewContextBuilder(newFakeEventRepo(), 12000, testLogger())

	out, err := builder.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestContextBuilderUnknownIDs(t *testing.T) {
	builder := NewContextBuilder(newFakeEventRepo(), 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"abc", "def"})
	require.NoError(t, err)
	assert.Equal(t, "Note: No videos found for the selected IDs (abc, def). Please check if the video IDs are correct.", out)
}

func TestContextBuilderNoTranscripts(t *testing.T) {
	repo := newFakeEventRepo(
		models.Event{ID: "e1", Title: "Intro to Go"},
		models.Event{ID: "e2", Title: "Deploying", Transcription: "   "},
	)
	builder := NewContextBuilder(repo, 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"e1", "e2"})
	require.NoError(t, err)
	assert.Equal(t, "Note: The selected videos do not have transcripts available yet.", out)
}

func TestContextBuilderShortTranscript(t *testing.T) {
	repo := newFakeEventRepo(models.Event{
		ID:            "e1",
		Title:         "Intro to Go",
		Description:   "First session",
		AISummary:     "Covers basics.",
		Transcription: "hello and welcome to the session",
	})
	builder := NewContextBuilder(repo, 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"e1"})
	require.NoError(t, err)

	assert.Contains(t, out, "=== VIDEO: Intro to Go ===")
	assert.Contains(t, out, "Description: First session")
	assert.Contains(t, out, "AI Summary: Covers basics.")
	assert.Contains(t, out, "Full Transcript:\nhello and welcome to the session")
	assert.NotContains(t, out, "TRUNCATED")
}

func TestContextBuilderChunksLongTranscript(t *testing.T) {
	transcript := strings.Repeat("a", 9000) + strings.Repeat("z", 11000)
	repo := newFakeEventRepo(models.Event{
		ID:            "e1",
		Title:         "Marathon Stream",
		Transcription: transcript,
	})
	builder := NewContextBuilder(repo, 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"e1"})
	require.NoError(t, err)

	// Each half is budget/2 minus the marker reserve
	chunkSize := 12000/2 - 100
	assert.Contains(t, out, "[BEGINNING OF VIDEO]\n"+transcript[:chunkSize])
	assert.Contains(t, out, "[END OF VIDEO]\n"+transcript[len(transcript)-chunkSize:])
	assert.Contains(t, out, "[... MIDDLE SECTION TRUNCATED FOR LENGTH ...]")
	assert.Contains(t, out, "[Note: This is a 20k character transcript, showing beginning and end sections]")

	// The middle run must be gone: 2*5900 chars kept out of 20000 means
	// the output cannot carry the full transcript
	assert.NotContains(t, out, transcript)
	assert.Less(t, len(out), len(transcript))
}

func TestContextBuilderTranscriptAtBudgetNotChunked(t *testing.T) {
	transcript := strings.Repeat("b", 12000)
	repo := newFakeEventRepo(models.Event{ID: "e1", Title: "Exact Fit", Transcription: transcript})
	builder := NewContextBuilder(repo, 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"e1"})
	require.NoError(t, err)
	assert.Contains(t, out, "Full Transcript:\n"+transcript)
	assert.NotContains(t, out, "TRUNCATED")
}

func TestContextBuilderMixedTranscripts(t *testing.T) {
	repo := newFakeEventRepo(
		models.Event{ID: "e1", Title: "Has Transcript", Transcription: "some words"},
		models.Event{ID: "e2", Title: "No Transcript"},
	)
	builder := NewContextBuilder(repo, 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"e1", "e2"})
	require.NoError(t, err)

	// Only the event with a transcript contributes a block
	assert.Contains(t, out, "=== VIDEO: Has Transcript ===")
	assert.NotContains(t, out, "No Transcript")
	assert.NotContains(t, out, "==========================================")
}

func TestContextBuilderMultipleBlocksSeparated(t *testing.T) {
	repo := newFakeEventRepo(
		models.Event{ID: "e1", Title: "One", Transcription: "first"},
		models.Event{ID: "e2", Title: "Two", Transcription: "second"},
	)
	builder := NewContextBuilder(repo, 12000, testLogger())

	out, err := builder.Build(context.Background(), []string{"e1", "e2"})
	require.NoError(t, err)

	assert.Contains(t, out, "=== VIDEO: One ===")
	assert.Contains(t, out, "=== VIDEO: Two ===")
	assert.Contains(t, out, "==========================================")
}

func TestContextBuilderRepoErrorSurfaces(t *testing.T) {
	repo := newFakeEventRepo()
	repo.err = errors.New("connection refused")
	builder := NewContextBuilder(repo, 12000, testLogger())

	_, err := builder.Build(context.Background(), []string{"e1"})
	assert.Error(t, err)
}
