package core

import (
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 协议适配器接口
// ═══════════════════════════════════════════════════════════════════════════

// ProtocolAdapter 协议适配器
//
// 只负责请求体与响应体的格式转换，不涉及 HTTP 通信。
//
// 职责边界：
//   - ✅ 负责：请求信封构建、响应字段提取、Token 用量解析
//   - ❌ 不负责：端点、认证、状态码判断
type ProtocolAdapter interface {
	// BuildRequest 构建 API 请求体
	//
	// 返回值会被 json.Marshal 序列化后作为 POST body 发送。
	BuildRequest(messages []llm.Message, opts *llm.Options) (map[string]any, error)

	// ParseResponse 从 2xx 响应中提取助手消息
	//
	// 结构不符合预期时返回错误，错误应包装为 *llm.ResponseError。
	ParseResponse(apiResp map[string]any) (msg llm.Message, finishReason string, err error)

	// ConvertUsage 解析 Token 使用量，没有 usage 字段时返回 nil
	ConvertUsage(apiResp map[string]any) *llm.TokenUsage
}
