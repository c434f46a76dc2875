package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socratic-tutor/tutor-go/internal/model"
	"github.com/socratic-tutor/tutor-go/internal/service"
	"go.uber.org/zap"
)

// APIHandler 辅助接口处理器
type APIHandler struct {
	serviceName string
	stats       service.CategoryStats
	logger      *zap.Logger
}

// NewAPIHandler 创建 API 处理器
func NewAPIHandler(serviceName string, stats service.CategoryStats, logger *zap.Logger) *APIHandler {
	if stats == nil {
		stats = service.NopCategoryStats{}
	}
	return &APIHandler{
		serviceName: serviceName,
		stats:       stats,
		logger:      logger,
	}
}

// Health 健康检查
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"service": h.serviceName,
	})
}

// Categories 固定分类表
func (h *APIHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.Categories()})
}

// CategoryStats 分类统计
func (h *APIHandler) CategoryStats(c *gin.Context) {
	counts, err := h.stats.Counts(c.Request.Context())
	if err != nil {
		h.logger.Error("读取分类统计失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorDetail(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": counts})
}
