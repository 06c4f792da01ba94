package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
)

var errNotObject = errors.New("response body is not a JSON object")

// ═══════════════════════════════════════════════════════════════════════════
// 接口定义
// ═══════════════════════════════════════════════════════════════════════════

// ProviderConfig Provider 配置接口
//
// 每个 Provider 实现此接口来定义其特有的配置和默认值。
type ProviderConfig interface {
	// Validate 验证配置
	Validate() error

	// GetDefaults 返回 baseURL, model, timeout（已应用默认值）
	GetDefaults() (baseURL, model string, timeout time.Duration)

	// BuildHeaders 构建每个请求都携带的 HTTP 头
	BuildHeaders() map[string]string

	// BuildQueryParams 构建每个请求都携带的查询参数（如 Gemini 的 key）
	BuildQueryParams() map[string]string

	// ProviderName 用于错误和日志
	ProviderName() string
}

// ═══════════════════════════════════════════════════════════════════════════
// BaseClient 基础客户端
// ═══════════════════════════════════════════════════════════════════════════

// RawResponse 一次 HTTP 交换的原始结果
type RawResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

// IsSuccess 2xx
func (r *RawResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BaseClient 基础客户端
//
// 封装 HTTP 通信、限速、错误分类等通用逻辑，进程内只创建一次并在各轮对话间复用。
// Provider 嵌入 BaseClient，只负责端点和配置。
//
// 使用示例：
//
//	config := &gemini.Config{APIKey: "xxx"}
//	base, _ := core.NewBaseClient(config, gemini.NewAdapter())
//	resp, err := base.Complete(ctx, "/models/gemini-1.5-flash:generateContent", messages, nil)
type BaseClient struct {
	config  ProviderConfig
	adapter ProtocolAdapter
	resty   *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	model   string
}

// Option BaseClient 选项
type Option func(*BaseClient)

// WithRateLimit 限制每分钟请求数，<= 0 表示不限速
func WithRateLimit(requestsPerMinute int) Option {
	return func(c *BaseClient) {
		if requestsPerMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(c *BaseClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewBaseClient 创建基础客户端
//
// 参数：
//   - config: Provider 特定配置
//   - adapter: 协议适配器
//   - opts: 可选项（限速、日志）
//
// 配置验证失败时返回 *llm.ConfigError。
func NewBaseClient(config ProviderConfig, adapter ProtocolAdapter, opts ...Option) (*BaseClient, error) {
	// 1. 验证配置
	if err := config.Validate(); err != nil {
		return nil, llm.NewConfigError("config validation failed", err)
	}

	// 2. 获取默认值
	baseURL, model, timeout := config.GetDefaults()

	// 3. 创建 resty 客户端
	r := resty.New()
	r.SetBaseURL(baseURL)
	r.SetTimeout(timeout)
	r.SetHeaders(config.BuildHeaders())
	r.SetQueryParams(config.BuildQueryParams())

	c := &BaseClient{
		config:  config,
		adapter: adapter,
		resty:   r,
		model:   model,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "llm_client", "provider", config.ProviderName())

	return c, nil
}

// Model 返回生效的模型名称
func (c *BaseClient) Model() string {
	return c.model
}

// Post 发送一次 JSON POST
//
// 只有传输层失败会返回错误（*llm.HTTPError）；任何状态码都作为 RawResponse 返回，
// 由调用方决定如何处理。
func (c *BaseClient) Post(ctx context.Context, endpoint string, body []byte) (*RawResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, llm.NewHTTPError("rate limit wait", err)
		}
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		c.logger.Warn("request failed", "endpoint", endpoint, "error_type", llm.ErrTypeHTTP)
		return nil, llm.NewHTTPError("request failed", err)
	}

	raw := &RawResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     resp.Header(),
		Duration:   resp.Time(),
	}
	c.logger.Debug("request completed",
		"endpoint", endpoint,
		"status", raw.StatusCode,
		"bytes", len(raw.Body),
		"duration", raw.Duration)

	return raw, nil
}

// Complete 同步完成（通用实现）
//
// 通用流程：
//  1. 构建请求体（委托给 adapter）
//  2. 序列化
//  3. 发送 POST
//  4. 非 2xx 直接返回 *llm.APIError，不解析响应体
//  5. 解码 JSON 对象
//  6. 提取消息与用量（委托给 adapter）
func (c *BaseClient) Complete(
	ctx context.Context,
	endpoint string,
	messages []llm.Message,
	opts *llm.Options,
) (*llm.Response, error) {
	// 1. 构建请求体
	body, err := c.adapter.BuildRequest(messages, opts)
	if err != nil {
		return nil, llm.NewRequestError("build", err)
	}

	// 2. 序列化（不转义 HTML 字符，保持提示词原样）
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, llm.NewRequestError("marshal", err)
	}

	// 3. 发送请求
	raw, err := c.Post(ctx, endpoint, bytes.TrimSpace(buf.Bytes()))
	if err != nil {
		return nil, err
	}

	// 4. 检查状态码
	if !raw.IsSuccess() {
		return nil, llm.NewAPIError(raw.StatusCode, string(raw.Body)).
			WithProvider(c.config.ProviderName())
	}

	// 5. 解码
	var apiResp map[string]any
	if err := json.Unmarshal(raw.Body, &apiResp); err != nil {
		return nil, llm.NewResponseError("body", err)
	}
	if apiResp == nil {
		return nil, llm.NewResponseError("body", errNotObject)
	}

	// 6. 提取
	msg, finishReason, err := c.adapter.ParseResponse(apiResp)
	if err != nil {
		return nil, err
	}

	resp := &llm.Response{
		Message:      msg,
		FinishReason: finishReason,
		Model:        c.model,
		Usage:        c.adapter.ConvertUsage(apiResp),
	}
	if v := GetString(apiResp["modelVersion"]); v != "" {
		resp.Model = v
	}

	return resp, nil
}

// Close 释放空闲连接
func (c *BaseClient) Close() error {
	c.resty.GetClient().CloseIdleConnections()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// NewMissingAPIKeyError 创建缺少 API Key 错误
func NewMissingAPIKeyError() error {
	return llm.NewConfigError("API key is required", nil)
}
