package api

import (
	"net/http"

	"shipped-video-hub/backend/internal/models"
	"shipped-video-hub/backend/internal/service"
	"shipped-video-hub/backend/pkg/errors"
	"shipped-video-hub/backend/pkg/logger"
	"shipped-video-hub/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the AI assistant endpoint
type ChatHandler struct {
	chat *service.ChatService
	log  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// Send handles POST /api/v1/chat. The __CHECK_USAGE__ sentinel message
// short-circuits to a quota read; everything else runs the full pipeline.
func (h *ChatHandler) Send(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(errors.CodeInvalidRequest, "Invalid request format"))
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)

	if req.Message == models.CheckUsageSentinel {
		count, err := h.chat.CheckUsage(ctx, userID, req.UserAPIKeys)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.UsageResponse{CurrentCount: count})
		return
	}

	response, err := h.chat.Send(ctx, userID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Response: response})
}
