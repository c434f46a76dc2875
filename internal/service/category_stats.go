package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/socratic-tutor/tutor-go/internal/model"
	"go.uber.org/zap"
)

const categoryStatsKey = "tutor:category_stats"

// CategoryStats 导师回复分类计数，不保存任何对话内容
type CategoryStats interface {
	Record(ctx context.Context, category model.Category) error
	Counts(ctx context.Context) (map[string]int64, error)
}

// NopCategoryStats 未启用 Redis 时使用
type NopCategoryStats struct{}

func (NopCategoryStats) Record(context.Context, model.Category) error { return nil }

func (NopCategoryStats) Counts(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

// RedisCategoryStats 基于 Redis Hash 的分类计数
type RedisCategoryStats struct {
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewRedisCategoryStats 创建 Redis 分类计数
func NewRedisCategoryStats(redisClient *redis.Client, logger *zap.Logger) *RedisCategoryStats {
	return &RedisCategoryStats{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Record 分类计数加一，空分类不计
func (s *RedisCategoryStats) Record(ctx context.Context, category model.Category) error {
	if category == "" {
		return nil
	}
	n, err := s.redisClient.HIncrBy(ctx, categoryStatsKey, string(category), 1).Result()
	if err != nil {
		return fmt.Errorf("HINCRBY %s: %w", categoryStatsKey, err)
	}
	s.logger.Debug("分类计数", zap.String("category", string(category)), zap.Int64("count", n))
	return nil
}

// Counts 读取全部分类计数
func (s *RedisCategoryStats) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := s.redisClient.HGetAll(ctx, categoryStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("HGETALL %s: %w", categoryStatsKey, err)
	}

	counts := make(map[string]int64, len(raw))
	for category, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			s.logger.Warn("忽略非法计数", zap.String("category", category), zap.String("value", value))
			continue
		}
		counts[category] = n
	}
	return counts, nil
}
