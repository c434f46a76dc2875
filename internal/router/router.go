package router

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/socratic-tutor/tutor-go/internal/handler"
	"github.com/socratic-tutor/tutor-go/internal/middleware"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Chat      *handler.ChatHandler
	WebSocket *handler.WebSocketHandler
	API       *handler.APIHandler
}

// New 注册全部路由
func New(h Handlers, staticDir string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	// 静态页面
	r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	r.Static("/static", staticDir)

	api := r.Group("/api")
	{
		api.POST("/chat", h.Chat.Chat)
		api.GET("/categories", h.API.Categories)
		api.GET("/stats/categories", h.API.CategoryStats)
		api.GET("/health", h.API.Health)
	}

	r.GET("/ws/chat", h.WebSocket.HandleWebSocket)

	return r
}
