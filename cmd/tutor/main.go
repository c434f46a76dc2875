package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socratic-tutor/tutor-go/internal/client"
	"github.com/socratic-tutor/tutor-go/internal/config"
	"github.com/socratic-tutor/tutor-go/internal/handler"
	"github.com/socratic-tutor/tutor-go/internal/router"
	"github.com/socratic-tutor/tutor-go/internal/service"
	"github.com/socratic-tutor/tutor-go/pkg/logger"
	"github.com/socratic-tutor/tutor-go/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	defaultPath := os.Getenv("TUTOR_CONFIG")
	if defaultPath == "" {
		defaultPath = "configs/tutor.yaml"
	}
	configPath := flag.String("config", defaultPath, "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	// 缺少 API Key 时拒绝启动
	if err := cfg.Validate(); err != nil {
		zapLogger.Fatal("配置校验失败", zap.Error(err))
	}

	zapLogger.Info("socratic-tutor 服务启动中...")

	// 分类统计（可选）
	var stats service.CategoryStats = service.NopCategoryStats{}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("连接 Redis 失败", zap.Error(err))
		}
		defer redisClient.Close()
		stats = service.NewRedisCategoryStats(redisClient, zapLogger)
		zapLogger.Info("分类统计已启用", zap.String("addr", cfg.Redis.Addr))
	}

	// 初始化 LLM 客户端，进程内只读共享
	llmClient := client.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout, zapLogger)

	tutorService := service.NewTutorService(llmClient, stats, service.TutorOptions{
		Model:                     cfg.LLM.Model,
		TutorTemperature:          cfg.Tutor.TutorTemperature,
		ColearnerTemperature:      cfg.Tutor.ColearnerTemperature,
		DegradeOnColearnerFailure: cfg.Tutor.ColearnerFailurePolicy == config.ColearnerPolicyDegrade,
	}, zapLogger)

	r := router.New(router.Handlers{
		Chat:      handler.NewChatHandler(tutorService, zapLogger),
		WebSocket: handler.NewWebSocketHandler(tutorService, zapLogger),
		API:       handler.NewAPIHandler(cfg.Server.Name, stats, zapLogger),
	}, cfg.Server.StaticDir)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 优雅退出
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zapLogger.Info("服务关闭中...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zapLogger.Error("服务关闭失败", zap.Error(err))
		}
	}()

	zapLogger.Info("socratic-tutor 服务启动成功",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("model", cfg.LLM.Model),
		zap.String("colearnerFailurePolicy", cfg.Tutor.ColearnerFailurePolicy))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Fatal("服务启动失败", zap.Error(err))
	}
}
