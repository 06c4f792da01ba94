package pirate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/protocol/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// Bot
// ═══════════════════════════════════════════════════════════════════════════

// Bot 海盗聊天机器人
//
// 每轮对话独立，不保留历史。Provider 由调用方创建并负责关闭。
type Bot struct {
	provider llm.Provider
	persona  string
	opts     *llm.Options
	logger   *slog.Logger
}

// Option Bot 选项
type Option func(*Bot)

// WithLogger 设置日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithOptions 设置生成参数，nil 或零值不发送 generationConfig
func WithOptions(opts *llm.Options) Option {
	return func(b *Bot) {
		b.opts = opts
	}
}

// WithPersona 替换人设指令
func WithPersona(persona string) Option {
	return func(b *Bot) {
		b.persona = persona
	}
}

// New 创建 Bot
func New(provider llm.Provider, opts ...Option) *Bot {
	b := &Bot{
		provider: provider,
		persona:  Persona,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "pirate_bot")
	return b
}

// Reply 完成一轮对话
//
// 永远返回可打印的文本：成功时为模型回复原文，失败时为对应的海盗腔诊断信息。
func (b *Bot) Reply(ctx context.Context, message string) string {
	prompt := BuildPrompt(b.persona, message)

	resp, err := b.provider.Complete(ctx, []llm.Message{llm.UserMessage(prompt)}, b.opts)
	if err != nil {
		attrs := []any{"error_type", llm.Category(err)}
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			attrs = append(attrs, "status", apiErr.StatusCode, "server_error", apiErr.IsServerError())
		}
		b.logger.Warn("reply failed", attrs...)
		return Describe(err)
	}

	attrs := []any{"finish_reason", resp.FinishReason, "model", resp.Model}
	if resp.Usage != nil {
		attrs = append(attrs, "total_tokens", resp.Usage.TotalTokens)
	}
	b.logger.Debug("reply received", attrs...)

	return resp.Message.Content
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误折叠
// ═══════════════════════════════════════════════════════════════════════════

// Describe 把一次失败折叠成海盗腔诊断信息
//
//   - 提取失败：Arr, <检查点描述>!
//   - 非 2xx：Arr, me got an error! HTTP code: <状态码>
//   - 传输失败：Arr, me got an error! <原因>（不含 URL）
//   - 其他：Arr, me got an error! <错误>
func Describe(err error) string {
	var extractErr *gemini.ExtractError
	if errors.As(err, &extractErr) {
		return fmt.Sprintf("Arr, %s!", extractErr.Checkpoint)
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Arr, me got an error! HTTP code: %d", apiErr.StatusCode)
	}

	var httpErr *llm.HTTPError
	if errors.As(err, &httpErr) {
		return "Arr, me got an error! " + transportCause(httpErr)
	}

	var respErr *llm.ResponseError
	if errors.As(err, &respErr) {
		return "Arr, me got an error! " + respErr.Cause()
	}

	return fmt.Sprintf("Arr, me got an error! %v", err)
}

// transportCause 去掉 *url.Error 中的请求 URL，URL 的查询参数里带有凭证
func transportCause(err *llm.HTTPError) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Cause()
}
