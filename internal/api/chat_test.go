package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"shipped-video-hub/backend/internal/ai"
	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/service"
	"shipped-video-hub/backend/pkg/errors"
	"shipped-video-hub/backend/pkg/jwt"
	"shipped-video-hub/backend/pkg/logger"
	"shipped-video-hub/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memEventRepo struct {
	events map[string]models.Event
}

func (r *memEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return &event, nil
}

func (r *memEventRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	var found []models.Event
	for _, id := range ids {
		if event, ok := r.events[id]; ok {
			found = append(found, event)
		}
	}
	return found, nil
}

func (r *memEventRepo) List(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	return events, nil
}

func (r *memEventRepo) Update(ctx context.Context, event *models.Event) error {
	r.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) Delete(ctx context.Context, id string) error {
	delete(r.events, id)
	return nil
}

type memUsageRepo struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *memUsageRepo) GetCount(ctx context.Context, userID uint, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[fmt.Sprintf("%d/%s", userID, day)], nil
}

func (r *memUsageRepo) IncrementAndGet(ctx context.Context, userID uint, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := fmt.Sprintf("%d/%s", userID, day)
	r.counts[k]++
	return r.counts[k], nil
}

type echoProvider struct{}

func (echoProvider) Name() string { return "openai" }

func (echoProvider) Send(ctx context.Context, message, contextText, apiKey string) (string, error) {
	return "echo: " + message, nil
}

type chatTestEnv struct {
	router     *gin.Engine
	jwtService *jwt.Service
}

func newChatTestEnv(t *testing.T, operator ai.Credentials) *chatTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	jwtService := jwt.NewService("test-secret", time.Hour)

	eventRepo := &memEventRepo{events: map[string]models.Event{
		"e1": {ID: "e1", Title: "Intro", Transcription: "welcome everyone"},
	}}
	usageRepo := &memUsageRepo{counts: make(map[string]int)}

	selector := ai.NewSelector(
		[]ai.Provider{echoProvider{}},
		ai.KeySourceFunc(func(ctx context.Context) (ai.Credentials, error) { return operator, nil }),
		log,
	)
	chatService := service.NewChatService(
		service.NewUsageService(usageRepo, 5, log),
		service.NewContextBuilder(eventRepo, 12000, log),
		selector,
		nil,
		log,
	)

	r := gin.New()
	r.Use(errors.ErrorHandler())
	r.POST("/api/v1/chat", middleware.OptionalJWTAuth(jwtService), NewChatHandler(chatService, log).Send)

	return &chatTestEnv{router: r, jwtService: jwtService}
}

func (e *chatTestEnv) post(t *testing.T, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *chatTestEnv) token(t *testing.T, userID uint) string {
	t.Helper()
	token, err := e.jwtService.GenerateToken(userID, "user@example.com", string(jwt.RoleUser))
	require.NoError(t, err)
	return token
}

func TestChatEndpointAuthenticatedMessage(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{OpenAI: "sk-operator"})

	w := env.post(t, models.ChatRequest{Message: "what was covered?", EventIDs: []string{"e1"}}, env.token(t, 7))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "echo: what was covered?", resp.Response)
}

func TestChatEndpointAnonymousRejected(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{OpenAI: "sk-operator"})

	w := env.post(t, models.ChatRequest{Message: "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeAuthRequired)
}

func TestChatEndpointAnonymousWithOwnKeys(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{})

	w := env.post(t, models.ChatRequest{
		Message:     "hi",
		UserAPIKeys: models.UserAPIKeys{OpenAI: "sk-mine"},
	}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestChatEndpointMissingMessage(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{OpenAI: "sk-operator"})

	w := env.post(t, map[string]any{"eventIds": []string{"e1"}}, env.token(t, 7))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointUsageSentinel(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{OpenAI: "sk-operator"})
	token := env.token(t, 7)

	// Two real messages, then a usage check
	for i := 0; i < 2; i++ {
		w := env.post(t, models.ChatRequest{Message: "hello"}, token)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.post(t, models.ChatRequest{Message: models.CheckUsageSentinel}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var usage models.UsageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &usage))
	assert.Equal(t, 2, usage.CurrentCount)

	// The sentinel itself must not have consumed a credit
	w = env.post(t, models.ChatRequest{Message: models.CheckUsageSentinel}, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &usage))
	assert.Equal(t, 2, usage.CurrentCount)
}

func TestChatEndpointQuotaExhaustion(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{OpenAI: "sk-operator"})
	token := env.token(t, 7)

	for i := 0; i < 5; i++ {
		w := env.post(t, models.ChatRequest{Message: "hello"}, token)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.post(t, models.ChatRequest{Message: "one more"}, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeQuotaExceeded)

	// Bringing your own keys lifts the limit immediately
	w = env.post(t, models.ChatRequest{
		Message:     "with my keys",
		UserAPIKeys: models.UserAPIKeys{OpenAI: "sk-mine"},
	}, token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestChatEndpointNoCredentials(t *testing.T) {
	env := newChatTestEnv(t, ai.Credentials{})

	w := env.post(t, models.ChatRequest{Message: "hi"}, env.token(t, 7))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeNoCredentials)
}
