package llm

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 对话消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage 构建用户消息
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// LastUserContent 返回最后一条用户消息的文本
//
// 没有用户消息时 ok 为 false；空字符串是合法内容。
func LastUserContent(messages []Message) (content string, ok bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}
