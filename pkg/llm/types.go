package llm

import "context"

// ═══════════════════════════════════════════════════════════════════════════
// Provider 接口
// ═══════════════════════════════════════════════════════════════════════════

// Provider 文本生成服务
//
// 每次 Complete 调用对应一次独立请求，Provider 不保存对话历史。
type Provider interface {
	// Complete 同步完成
	Complete(ctx context.Context, messages []Message, opts *Options) (*Response, error)

	// Close 释放资源
	Close() error
}

// ═══════════════════════════════════════════════════════════════════════════
// 选项与响应
// ═══════════════════════════════════════════════════════════════════════════

// Options 生成参数
//
// 零值字段不会出现在请求体中。
type Options struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

// IsZero 检查是否未设置任何参数
func (o *Options) IsZero() bool {
	return o == nil || (o.MaxTokens == 0 && o.Temperature == 0 && o.TopP == 0)
}

// Response Provider 响应
type Response struct {
	Message      Message     `json:"message"`
	FinishReason string      `json:"finish_reason"`
	Model        string      `json:"model,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// TokenUsage Token 使用量
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}
