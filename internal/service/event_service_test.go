package service

import (
	"context"
	"testing"
	"time"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventServiceListCaches(t *testing.T) {
	repo := newFakeEventRepo(models.Event{ID: "e1", Title: "Intro"})
	store := cache.NewMemory(10, 0)

	svc := NewEventService(repo, store, time.Minute, testLogger())
	ctx := context.Background()

	events, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// A direct repo change is invisible while the cache is warm
	repo.events["e2"] = models.Event{ID: "e2", Title: "Sneaky"}
	events, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventServiceWritesInvalidateCache(t *testing.T) {
	repo := newFakeEventRepo(models.Event{ID: "e1", Title: "Intro"})
	store := cache.NewMemory(10, 0)

	svc := NewEventService(repo, store, time.Minute, testLogger())
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)

	created, err := svc.Create(ctx, &models.CreateEventRequest{
		Title:       "New Session",
		ScheduledAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "create must assign an id")

	events, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventServiceUpdatePartial(t *testing.T) {
	repo := newFakeEventRepo(models.Event{
		ID:          "e1",
		Title:       "Original",
		Description: "keep me",
	})
	svc := NewEventService(repo, nil, 0, testLogger())

	title := "Renamed"
	transcript := "now with words"
	updated, err := svc.Update(context.Background(), "e1", &models.UpdateEventRequest{
		Title:         &title,
		Transcription: &transcript,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, "now with words", updated.Transcription)
}

func TestEventServiceNotFound(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), nil, 0, testLogger())
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Update(ctx, "missing", &models.UpdateEventRequest{})
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrEventNotFound)
}

func TestEventServiceDelete(t *testing.T) {
	repo := newFakeEventRepo(models.Event{ID: "e1", Title: "Doomed"})
	svc := NewEventService(repo, nil, 0, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "e1"))
	_, err := svc.Get(ctx, "e1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
