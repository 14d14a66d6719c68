package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/repository"
	"shipped-video-hub/backend/pkg/cache"
	"shipped-video-hub/backend/pkg/logger"

	"gorm.io/gorm"
)

// ErrEventNotFound is returned when an event id has no row
var ErrEventNotFound = errors.New("event not found")

const eventListCacheKey = "events:list"

// EventService handles the event catalog. The public listing is cached;
// every write invalidates the cached list.
type EventService struct {
	repo     repository.EventRepository
	store    cache.Store
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewEventService creates a new event service. store may be nil to disable
// caching.
func NewEventService(repo repository.EventRepository, store cache.Store, cacheTTL time.Duration, log *logger.Logger) *EventService {
	return &EventService{
		repo:     repo,
		store:    store,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// List returns all events, newest scheduled first
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	if s.store != nil {
		if cached, found, err := s.store.Get(ctx, eventListCacheKey); err == nil && found {
			var events []models.Event
			if err := json.Unmarshal([]byte(cached), &events); err == nil {
				return events, nil
			}
			// Corrupt cache entry; drop it and fall through to the database
			_ = s.store.Delete(ctx, eventListCacheKey)
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if payload, err := json.Marshal(events); err == nil {
			if err := s.store.Set(ctx, eventListCacheKey, string(payload), s.cacheTTL); err != nil {
				s.log.Warn("failed to cache event list", "error", err.Error())
			}
		}
	}

	return events, nil
}

// Get returns one event by id
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create adds a new event
func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		YoutubeURL:  req.YoutubeURL,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return event, nil
}

// Update applies the fields present in the request to an existing event
func (s *EventService) Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Transcription != nil {
		event.Transcription = *req.Transcription
	}
	if req.AISummary != nil {
		event.AISummary = *req.AISummary
	}
	if req.ScheduledAt != nil {
		event.ScheduledAt = *req.ScheduledAt
	}
	if req.YoutubeURL != nil {
		event.YoutubeURL = *req.YoutubeURL
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return event, nil
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *EventService) invalidateList(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, eventListCacheKey); err != nil {
		s.log.Warn("failed to invalidate event list cache", "error", err.Error())
	}
}
