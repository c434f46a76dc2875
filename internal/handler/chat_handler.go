package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socratic-tutor/tutor-go/internal/middleware"
	"github.com/socratic-tutor/tutor-go/internal/model"
	"github.com/socratic-tutor/tutor-go/internal/service"
	"go.uber.org/zap"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	tutorService *service.TutorService
	logger       *zap.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(tutorService *service.TutorService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		tutorService: tutorService,
		logger:       logger,
	}
}

// Chat POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{Detail: err.Error()})
		return
	}

	result, err := h.tutorService.Chat(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Error in chat endpoint",
			zap.String("requestId", c.GetString(middleware.RequestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorDetail(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

func errorDetail(err error) model.ErrorResponse {
	return model.ErrorResponse{Detail: fmt.Sprintf("An error occurred: %s", err)}
}
