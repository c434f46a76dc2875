package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/socratic-tutor/tutor-go/internal/client"
	"github.com/socratic-tutor/tutor-go/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrMalformedReply 模型输出不是合法 JSON 对象
	ErrMalformedReply = errors.New("malformed model reply")
	// ErrMissingField 模型输出缺少必填字段
	ErrMissingField = errors.New("model reply missing required field")
)

// Completer 补全能力，由 client.OpenAIClient 实现
type Completer interface {
	ChatCompletion(ctx context.Context, req client.CompletionRequest) (string, error)
}

// TutorOptions 生成参数
type TutorOptions struct {
	Model                string
	TutorTemperature     float64
	ColearnerTemperature float64
	// DegradeOnColearnerFailure 为 true 时协学者失败只丢弃协学者回复，
	// 否则整个请求失败
	DegradeOnColearnerFailure bool
}

// TutorService 导师对话编排：导师调用，可选的协学者调用，合并结果
type TutorService struct {
	completer Completer
	stats     CategoryStats
	opts      TutorOptions
	logger    *zap.Logger
}

// NewTutorService 创建导师服务，stats 为 nil 时不统计
func NewTutorService(completer Completer, stats CategoryStats, opts TutorOptions, logger *zap.Logger) *TutorService {
	if stats == nil {
		stats = NopCategoryStats{}
	}
	return &TutorService{
		completer: completer,
		stats:     stats,
		opts:      opts,
		logger:    logger,
	}
}

// Chat 处理一次对话请求
// 协学者调用只在导师调用成功后发起，且以导师回复作为输入
func (s *TutorService) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResult, error) {
	s.logger.Info("处理对话请求",
		zap.Int("history", len(req.Messages)),
		zap.Bool("includeColearner", req.IncludeColearner))

	tutor, err := s.tutorStep(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tutor call failed: %w", err)
	}

	if !tutor.Category.Known() {
		s.logger.Warn("模型返回了未知分类", zap.String("category", string(tutor.Category)))
	}
	if err := s.stats.Record(ctx, tutor.Category); err != nil {
		s.logger.Warn("记录分类统计失败", zap.Error(err))
	}

	result := &model.ChatResult{
		Response: tutor.Response,
		Category: tutor.Category,
	}
	if !req.IncludeColearner {
		return result, nil
	}

	colearner, err := s.colearnerStep(ctx, req.NewMessage, tutor.Response)
	if err != nil {
		if !s.opts.DegradeOnColearnerFailure {
			return nil, fmt.Errorf("co-learner call failed: %w", err)
		}
		s.logger.Warn("协学者调用失败，仅返回导师回复", zap.Error(err))
		return result, nil
	}
	result.ColearnerResponse = &colearner

	s.logger.Info("对话请求完成",
		zap.String("category", string(result.Category)),
		zap.Bool("colearner", result.ColearnerResponse != nil))
	return result, nil
}

type tutorReply struct {
	Category model.Category
	Response string
}

func (s *TutorService) tutorStep(ctx context.Context, req model.ChatRequest) (*tutorReply, error) {
	text, err := s.completer.ChatCompletion(ctx, client.CompletionRequest{
		Model:          s.opts.Model,
		Messages:       FormatHistory(TutorPrompt, req.Messages, req.NewMessage),
		Temperature:    s.opts.TutorTemperature,
		ResponseFormat: client.JSONObject,
	})
	if err != nil {
		return nil, err
	}

	fields, err := parseReply(text, "category", "response")
	if err != nil {
		return nil, err
	}
	return &tutorReply{
		Category: model.Category(fields["category"]),
		Response: fields["response"],
	}, nil
}

func (s *TutorService) colearnerStep(ctx context.Context, newMessage, tutorResponse string) (string, error) {
	text, err := s.completer.ChatCompletion(ctx, client.CompletionRequest{
		Model: s.opts.Model,
		Messages: []client.Message{
			{Role: string(model.RoleSystem), Content: ColearnerPrompt},
			{Role: string(model.RoleUser), Content: colearnerContext(newMessage, tutorResponse)},
		},
		Temperature:    s.opts.ColearnerTemperature,
		ResponseFormat: client.JSONObject,
	})
	if err != nil {
		return "", err
	}

	fields, err := parseReply(text, "response")
	if err != nil {
		return "", err
	}
	return fields["response"], nil
}

// parseReply 严格解析模型输出，所有 required 字段必须存在且为字符串
func parseReply(text string, required ...string) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	fields := make(map[string]string, len(required))
	for _, name := range required {
		value, ok := raw[name]
		if !ok || string(value) == "null" {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, name)
		}
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return nil, fmt.Errorf("%w: field %q is not a string", ErrMalformedReply, name)
		}
		fields[name] = str
	}
	return fields, nil
}
