package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/socratic-tutor/tutor-go/internal/middleware"
	"github.com/socratic-tutor/tutor-go/internal/model"
	"github.com/socratic-tutor/tutor-go/internal/service"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	// 与 CORS 策略一致，允许任意来源
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler WebSocket 对话处理器
// 每帧一个 ChatRequest，按顺序处理并回写 ChatResult 或 {detail}
type WebSocketHandler struct {
	tutorService *service.TutorService
	logger       *zap.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(tutorService *service.TutorService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		tutorService: tutorService,
		logger:       logger,
	}
}

// HandleWebSocket GET /ws/chat
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	requestID := c.GetString(middleware.RequestIDKey)
	h.logger.Info("WebSocket 连接建立", zap.String("requestId", requestID), zap.String("clientIp", c.ClientIP()))

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket 读取错误", zap.Error(err))
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if err := conn.WriteJSON(h.handleFrame(c, data)); err != nil {
			h.logger.Error("WebSocket 写入错误", zap.Error(err))
			break
		}
	}

	h.logger.Info("WebSocket 连接断开", zap.String("requestId", requestID))
}

func (h *WebSocketHandler) handleFrame(c *gin.Context, data []byte) any {
	// 必填字段由 ChatRequest.UnmarshalJSON 校验，与 HTTP 接口一致
	var req model.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return model.ErrorResponse{Detail: err.Error()}
	}

	result, err := h.tutorService.Chat(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Error in chat websocket", zap.Error(err))
		return errorDetail(err)
	}
	return result
}
