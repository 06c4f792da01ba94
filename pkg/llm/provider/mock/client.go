package mock

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/protocol/gemini"
)

// CallRecord 记录一次调用的详情
type CallRecord struct {
	Messages []llm.Message
	Options  *llm.Options
	Time     time.Time
}

// Client Mock Provider
//
// 并发安全；调用记录在 Reset 之前一直保留。
type Client struct {
	mu       sync.RWMutex
	response string        // 默认响应
	rules    []Rule        // 响应规则
	delay    time.Duration // 响应延迟
	err      error         // 每次都返回的错误
	loadErr  error         // 配置文件加载错误
	calls    []CallRecord  // 调用记录
	adapter  *gemini.Adapter
}

// New 创建 Mock Client
//
// 不传 Option 时加载内嵌的示例配置（examples/pirate.yaml）：
//
//	client := mock.New()                                  // 内嵌示例
//	client := mock.New(mock.WithConfigFile("rules.yaml")) // 指定配置文件
//	client := mock.New(mock.WithResponse("Ahoy!"))        // 固定响应
func New(opts ...Option) *Client {
	c := &Client{
		response: "This is a mock response.",
		adapter:  gemini.NewAdapter(),
	}

	if len(opts) == 0 {
		cfg, err := LoadExampleConfig()
		if err != nil {
			c.loadErr = err
		} else {
			applyConfig(c, cfg)
		}
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option 配置选项函数
type Option func(*Client)

// WithResponse 设置默认响应文本
func WithResponse(text string) Option {
	return func(c *Client) {
		c.response = text
	}
}

// WithRules 追加响应规则
func WithRules(rules ...Rule) Option {
	return func(c *Client) {
		c.rules = append(c.rules, rules...)
	}
}

// WithDelay 设置响应延迟
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithError 每次调用都返回该错误
func WithError(err error) Option {
	return func(c *Client) {
		c.err = err
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Provider 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// Complete 按规则产生响应
func (c *Client) Complete(ctx context.Context, messages []llm.Message, opts *llm.Options) (*llm.Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, CallRecord{
		Messages: messages,
		Options:  opts,
		Time:     time.Now(),
	})
	call := len(c.calls)
	delay, err, loadErr := c.delay, c.err, c.loadErr
	input, _ := llm.LastUserContent(messages)
	rule, matched := c.match(input)
	response := c.response
	c.mu.Unlock()

	if loadErr != nil {
		return nil, llm.NewConfigError("mock config", loadErr)
	}

	// 模拟延迟
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, llm.NewHTTPError("request failed", ctx.Err())
		}
	}

	if err != nil {
		return nil, llm.NewHTTPError("request failed", err)
	}

	data := templateData{Message: input, Call: call}
	if !matched {
		return c.textResponse(renderTemplate(response, data), messages), nil
	}

	switch {
	case rule.Error != "":
		return nil, llm.NewHTTPError("request failed", errors.New(rule.Error))
	case rule.Status != 0 && (rule.Status < 200 || rule.Status > 299):
		return nil, llm.NewAPIError(rule.Status, rule.Body).WithProvider("mock")
	case rule.Body != "":
		return c.bodyResponse(rule.Body)
	default:
		return c.textResponse(renderTemplate(rule.Reply, data), messages), nil
	}
}

// Close 关闭客户端
func (c *Client) Close() error {
	return nil
}

// match 返回第一个命中的规则（调用方持锁）
func (c *Client) match(input string) (Rule, bool) {
	for _, r := range c.rules {
		if r.matches(input) {
			return r, true
		}
	}
	return Rule{}, false
}

// bodyResponse 按真实 Gemini 响应处理原始响应体
func (c *Client) bodyResponse(body string) (*llm.Response, error) {
	var apiResp map[string]any
	if err := json.Unmarshal([]byte(body), &apiResp); err != nil {
		return nil, llm.NewResponseError("body", err)
	}

	msg, finishReason, err := c.adapter.ParseResponse(apiResp)
	if err != nil {
		return nil, err
	}
	return &llm.Response{
		Message:      msg,
		FinishReason: finishReason,
		Model:        "mock",
		Usage:        c.adapter.ConvertUsage(apiResp),
	}, nil
}

func (c *Client) textResponse(text string, messages []llm.Message) *llm.Response {
	input := int64(len(messages) * 10)
	output := int64(len(text) / 4)
	return &llm.Response{
		Message:      llm.Message{Role: llm.RoleAssistant, Content: text},
		FinishReason: "stop",
		Model:        "mock",
		Usage: &llm.TokenUsage{
			InputTokens:  input,
			OutputTokens: output,
			TotalTokens:  input + output,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 测试辅助方法
// ═══════════════════════════════════════════════════════════════════════════

// SetResponse 动态修改默认响应
func (c *Client) SetResponse(text string) {
	c.mu.Lock()
	c.response = text
	c.mu.Unlock()
}

// SetError 动态修改错误，nil 表示恢复正常
func (c *Client) SetError(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Calls 返回所有调用记录
func (c *Client) Calls() []CallRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CallRecord, len(c.calls))
	copy(result, c.calls)
	return result
}

// CallCount 返回调用次数
func (c *Client) CallCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.calls)
}

// LastCall 返回最后一次调用记录
func (c *Client) LastCall() *CallRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.calls) == 0 {
		return nil
	}
	call := c.calls[len(c.calls)-1]
	return &call
}

// LastInput 返回最后一次调用的用户消息
func (c *Client) LastInput() string {
	last := c.LastCall()
	if last == nil {
		return ""
	}
	input, _ := llm.LastUserContent(last.Messages)
	return input
}

// Reset 清空调用记录
func (c *Client) Reset() {
	c.mu.Lock()
	c.calls = nil
	c.mu.Unlock()
}

// 确保 Client 实现了 Provider 接口
var _ llm.Provider = (*Client)(nil)
