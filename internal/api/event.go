package api

import (
	"errors"
	"net/http"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/service"
	apperrors "shipped-video-hub/backend/pkg/errors"
	"shipped-video-hub/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// EventHandler handles the event catalog endpoints
type EventHandler struct {
	events  *service.EventService
	summary *service.SummaryService
	log     *logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *service.EventService, summary *service.SummaryService, log *logger.Logger) *EventHandler {
	return &EventHandler{events: events, summary: summary, log: log}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.log.LogError(err, "failed to list events")
		c.Error(apperrors.NewInternalServerError(apperrors.CodeInternal, "Failed to load events"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.Error(apperrors.NewNotFoundError(apperrors.CodeNotFound, "Event not found"))
			return
		}
		h.log.LogError(err, "failed to load event", "event_id", c.Param("id"))
		c.Error(apperrors.NewInternalServerError(apperrors.CodeInternal, "Failed to load event"))
		return
	}

	c.JSON(http.StatusOK, event)
}

// Create handles POST /api/v1/events (admin)
func (h *EventHandler) Create(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError(apperrors.CodeInvalidRequest, "Invalid request format"))
		return
	}

	event, err := h.events.Create(c.Request.Context(), &req)
	if err != nil {
		h.log.LogError(err, "failed to create event")
		c.Error(apperrors.NewInternalServerError(apperrors.CodeInternal, "Failed to create event"))
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Update handles PUT /api/v1/events/:id (admin)
func (h *EventHandler) Update(c *gin.Context) {
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError(apperrors.CodeInvalidRequest, "Invalid request format"))
		return
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.Error(apperrors.NewNotFoundError(apperrors.CodeNotFound, "Event not found"))
			return
		}
		h.log.LogError(err, "failed to update event", "event_id", c.Param("id"))
		c.Error(apperrors.NewInternalServerError(apperrors.CodeInternal, "Failed to update event"))
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /api/v1/events/:id (admin)
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.Error(apperrors.NewNotFoundError(apperrors.CodeNotFound, "Event not found"))
			return
		}
		h.log.LogError(err, "failed to delete event", "event_id", c.Param("id"))
		c.Error(apperrors.NewInternalServerError(apperrors.CodeInternal, "Failed to delete event"))
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateSummary handles POST /api/v1/events/:id/summary (admin). It
// fetches the video transcript and generates an AI summary for the event.
func (h *EventHandler) GenerateSummary(c *gin.Context) {
	event, err := h.summary.GenerateForEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.LogError(err, "summary generation failed", "event_id", c.Param("id"))
		c.Error(apperrors.NewInternalServerError(apperrors.CodeInternal, "Failed to generate transcript and summary"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Transcript and summary generated successfully",
		"summary": event.AISummary,
	})
}
