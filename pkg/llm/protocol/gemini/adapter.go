package gemini

import (
	"errors"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/core"
)

// ErrNoUserMessage 请求中没有用户消息
var ErrNoUserMessage = errors.New("no user message to send")

// ═══════════════════════════════════════════════════════════════════════════
// Gemini 协议适配器
// ═══════════════════════════════════════════════════════════════════════════

// Adapter Gemini 协议适配器
//
// 实现 core.ProtocolAdapter 接口。无状态，可在多个客户端间共享。
type Adapter struct{}

// NewAdapter 创建 Gemini 协议适配器
func NewAdapter() *Adapter {
	return &Adapter{}
}

// ═══════════════════════════════════════════════════════════════════════════
// BuildRequest - 请求信封
// ═══════════════════════════════════════════════════════════════════════════

// BuildRequest 构建 generateContent 请求体
//
// 只发送最后一条用户消息，内容不做任何校验（空字符串照常发送）。
func (a *Adapter) BuildRequest(messages []llm.Message, opts *llm.Options) (map[string]any, error) {
	text, ok := llm.LastUserContent(messages)
	if !ok {
		return nil, ErrNoUserMessage
	}

	req := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": text},
				},
			},
		},
	}

	if genConfig := buildGenerationConfig(opts); genConfig != nil {
		req["generationConfig"] = genConfig
	}

	return req, nil
}

// buildGenerationConfig 零值参数不发送
func buildGenerationConfig(opts *llm.Options) map[string]any {
	if opts.IsZero() {
		return nil
	}

	genConfig := map[string]any{}
	if opts.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		genConfig["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		genConfig["topP"] = opts.TopP
	}
	if len(genConfig) == 0 {
		return nil
	}
	return genConfig
}

// ═══════════════════════════════════════════════════════════════════════════
// ParseResponse - 解析响应
// ═══════════════════════════════════════════════════════════════════════════

// ParseResponse 提取第一个 candidate 的第一个文本 part
func (a *Adapter) ParseResponse(resp map[string]any) (llm.Message, string, error) {
	text, err := ExtractText(resp)
	if err != nil {
		return llm.Message{}, "", err
	}

	// ExtractText 成功意味着 candidates[0] 存在
	candidates, _ := core.GetArray(resp["candidates"])
	candidate, _ := core.GetObject(candidates[0])

	msg := llm.Message{Role: llm.RoleAssistant, Content: text}
	return msg, mapFinishReason(core.GetString(candidate["finishReason"])), nil
}

// mapFinishReason 将 Gemini 完成原因映射到标准格式
func mapFinishReason(reason string) string {
	switch reason {
	case "STOP", "OTHER":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return "content_filter"
	default:
		return reason
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// ConvertUsage - Token 使用量
// ═══════════════════════════════════════════════════════════════════════════

// ConvertUsage 解析 usageMetadata
//
// 字段名：promptTokenCount, candidatesTokenCount, totalTokenCount
func (a *Adapter) ConvertUsage(resp map[string]any) *llm.TokenUsage {
	usage, ok := core.GetObject(resp["usageMetadata"])
	if !ok {
		return nil
	}

	return &llm.TokenUsage{
		InputTokens:  core.GetInt64(usage["promptTokenCount"]),
		OutputTokens: core.GetInt64(usage["candidatesTokenCount"]),
		TotalTokens:  core.GetInt64(usage["totalTokenCount"]),
	}
}

// 确保 Adapter 实现了 ProtocolAdapter 接口
var _ core.ProtocolAdapter = (*Adapter)(nil)
