package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFieldRequired 请求体缺少必填字段
var ErrFieldRequired = errors.New("field required")

// Role 消息角色，线上传输仍为普通字符串
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn 一条历史对话记录，由客户端保存并在每次请求时完整回传
type Turn struct {
	Role     Role      `json:"role"`
	Content  string    `json:"content"`
	Category *Category `json:"category,omitempty"` // 仅 assistant 消息携带，nil 表示未提供
}

// UnmarshalJSON role 和 content 必须存在（允许空字符串）
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role     *string   `json:"role"`
		Content  *string   `json:"content"`
		Category *Category `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Role == nil {
		return fmt.Errorf("messages.role: %w", ErrFieldRequired)
	}
	if raw.Content == nil {
		return fmt.Errorf("messages.content: %w", ErrFieldRequired)
	}

	t.Role = Role(*raw.Role)
	t.Content = *raw.Content
	t.Category = raw.Category
	return nil
}

// ChatRequest 对话请求
type ChatRequest struct {
	Messages         []Turn `json:"messages"`
	NewMessage       string `json:"new_message"`
	IncludeColearner bool   `json:"include_colearner"`
}

// UnmarshalJSON messages 和 new_message 必须存在，include_colearner 缺省或 null 为 false
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Messages         []Turn  `json:"messages"`
		NewMessage       *string `json:"new_message"`
		IncludeColearner *bool   `json:"include_colearner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Messages == nil {
		return fmt.Errorf("messages: %w", ErrFieldRequired)
	}
	if raw.NewMessage == nil {
		return fmt.Errorf("new_message: %w", ErrFieldRequired)
	}

	r.Messages = raw.Messages
	r.NewMessage = *raw.NewMessage
	r.IncludeColearner = raw.IncludeColearner != nil && *raw.IncludeColearner
	return nil
}

// ChatResult 对话结果
// ColearnerResponse 仅在协学者调用执行且成功时非 nil（可以是空字符串）
type ChatResult struct {
	Response          string   `json:"response"`
	Category          Category `json:"category"`
	ColearnerResponse *string  `json:"colearner_response,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Detail string `json:"detail"`
}
