package service

import (
	"encoding/json"

	"github.com/socratic-tutor/tutor-go/internal/client"
	"github.com/socratic-tutor/tutor-go/internal/model"
)

// structuredReply 导师的结构化输出，也用于还原历史中的 assistant 消息
type structuredReply struct {
	Category *model.Category `json:"category"`
	Response string          `json:"response"`
}

// FormatHistory 将历史对话和新消息转换为补全接口的消息列表
// 结果依次为：系统提示词、每条历史记录、新的 user 消息
func FormatHistory(systemPrompt string, turns []model.Turn, newMessage string) []client.Message {
	messages := make([]client.Message, 0, len(turns)+2)
	messages = append(messages, client.Message{Role: string(model.RoleSystem), Content: systemPrompt})

	for _, turn := range turns {
		if turn.Role != model.RoleAssistant {
			// 其他角色原样透传
			messages = append(messages, client.Message{Role: string(turn.Role), Content: turn.Content})
			continue
		}
		messages = append(messages, client.Message{
			Role:    string(model.RoleAssistant),
			Content: encodeAssistantTurn(turn),
		})
	}

	messages = append(messages, client.Message{Role: string(model.RoleUser), Content: newMessage})
	return messages
}

// encodeAssistantTurn 还原模型当初的 JSON 输出
// 未提供分类时为 null，显式的空字符串保持为 ""
func encodeAssistantTurn(turn model.Turn) string {
	reply := structuredReply{Category: turn.Category, Response: turn.Content}
	// 只含字符串字段，不会失败
	data, _ := json.Marshal(reply)
	return string(data)
}
