package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipped-video-hub/backend/internal/ai"
	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcriptServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": "vid123",
				"tracks": []map[string]any{
					{
						"language": "en",
						"transcript": []map[string]string{
							{"text": "today we ship"},
							{"text": "a video hub"},
						},
					},
				},
			},
		})
	}))
}

func openaiServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
}

func operatorWithOpenAI(key string) ai.KeySourceFunc {
	return func(ctx context.Context) (ai.Credentials, error) {
		return ai.Credentials{OpenAI: key}, nil
	}
}

func TestSummaryServiceGeneratesTranscriptAndSummary(t *testing.T) {
	ts := transcriptServer(t)
	defer ts.Close()
	oa := openaiServer(t, "A tight summary.")
	defer oa.Close()

	repo := newFakeEventRepo(models.Event{
		ID:         "e1",
		Title:      "Shipping Day",
		YoutubeURL: "https://www.youtube.com/watch?v=vid123",
	})
	svc := NewSummaryService(
		repo,
		youtube.NewTranscriptClientWithBaseURL(ts.URL, "test-token"),
		ai.NewOpenAIWithBaseURL(oa.URL, 5*time.Second),
		operatorWithOpenAI("sk-operator"),
		testLogger(),
	)

	event, err := svc.GenerateForEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "today we ship a video hub", event.Transcription)
	assert.Equal(t, "A tight summary.", event.AISummary)

	// Persisted, not just returned
	stored := repo.events["e1"]
	assert.Equal(t, "today we ship a video hub", stored.Transcription)
	assert.Equal(t, "A tight summary.", stored.AISummary)
}

func TestSummaryServiceTranscriptFailureStoresPlaceholder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	oa := openaiServer(t, "Summary of a placeholder.")
	defer oa.Close()

	repo := newFakeEventRepo(models.Event{
		ID:         "e1",
		YoutubeURL: "https://youtu.be/vid123",
	})
	svc := NewSummaryService(
		repo,
		youtube.NewTranscriptClientWithBaseURL(ts.URL, "test-token"),
		ai.NewOpenAIWithBaseURL(oa.URL, 5*time.Second),
		operatorWithOpenAI("sk-operator"),
		testLogger(),
	)

	event, err := svc.GenerateForEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Contains(t, event.Transcription, "[Transcript unavailable for video vid123")
	assert.Contains(t, event.Transcription, "Please add manually")
}

func TestSummaryServiceNoOpenAIKey(t *testing.T) {
	ts := transcriptServer(t)
	defer ts.Close()

	repo := newFakeEventRepo(models.Event{
		ID:         "e1",
		YoutubeURL: "https://youtu.be/vid123",
	})
	svc := NewSummaryService(
		repo,
		youtube.NewTranscriptClientWithBaseURL(ts.URL, "test-token"),
		ai.NewOpenAI(5*time.Second),
		operatorWithOpenAI(""),
		testLogger(),
	)

	event, err := svc.GenerateForEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "today we ship a video hub", event.Transcription)
	assert.Equal(t, "AI summary unavailable - OpenAI API key not configured", event.AISummary)
}

func TestSummaryServiceSummaryFailure(t *testing.T) {
	ts := transcriptServer(t)
	defer ts.Close()
	oa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer oa.Close()

	repo := newFakeEventRepo(models.Event{
		ID:         "e1",
		YoutubeURL: "https://youtu.be/vid123",
	})
	svc := NewSummaryService(
		repo,
		youtube.NewTranscriptClientWithBaseURL(ts.URL, "test-token"),
		ai.NewOpenAIWithBaseURL(oa.URL, 5*time.Second),
		operatorWithOpenAI("sk-operator"),
		testLogger(),
	)

	event, err := svc.GenerateForEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "AI summary unavailable - Error occurred during generation", event.AISummary)
}

func TestSummaryServiceRejectsEventWithoutURL(t *testing.T) {
	repo := newFakeEventRepo(models.Event{ID: "e1"})
	svc := NewSummaryService(
		repo,
		youtube.NewTranscriptClient("test-token"),
		ai.NewOpenAI(5*time.Second),
		operatorWithOpenAI("sk-operator"),
		testLogger(),
	)

	_, err := svc.GenerateForEvent(context.Background(), "e1")
	assert.Error(t, err)
}
