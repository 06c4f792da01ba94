package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/core"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/protocol/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// 常量定义
// ═══════════════════════════════════════════════════════════════════════════

const (
	// DefaultBaseURL Gemini API 默认地址
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel 默认模型
	DefaultModel = "gemini-1.5-flash"

	// DefaultTimeout 默认超时时间
	DefaultTimeout = 120 * time.Second
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置和客户端
// ═══════════════════════════════════════════════════════════════════════════

// Config 客户端配置
type Config struct {
	// APIKey 作为查询参数 key 发送，必需
	APIKey string

	// BaseURL 默认 https://generativelanguage.googleapis.com/v1beta
	BaseURL string

	// Model 默认 gemini-1.5-flash
	Model string

	// Timeout 默认 120 秒
	Timeout time.Duration

	// Headers 额外的请求头
	Headers map[string]string

	// RequestsPerMinute 客户端限速，0 表示不限速
	RequestsPerMinute int

	// Logger 为空时使用 slog.Default()
	Logger *slog.Logger
}

// Client Gemini 客户端
//
// 实现 [llm.Provider] 接口。嵌入 core.BaseClient 复用 HTTP 通信逻辑，
// 本身只负责端点和认证参数。
type Client struct {
	*core.BaseClient

	config *Config
}

// New 创建 Gemini 客户端
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, llm.NewConfigError("config is required", nil)
	}

	// 保存处理后的配置（应用默认值）
	finalConfig := *config
	finalConfig.BaseURL, finalConfig.Model, finalConfig.Timeout = config.GetDefaults()

	baseClient, err := core.NewBaseClient(
		&finalConfig,
		gemini.NewAdapter(),
		core.WithRateLimit(finalConfig.RequestsPerMinute),
		core.WithLogger(finalConfig.Logger),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseClient: baseClient,
		config:     &finalConfig,
	}, nil
}

// Complete 同步完成
//
// 实现 [llm.Provider] 接口。
func (c *Client) Complete(ctx context.Context, messages []llm.Message, opts *llm.Options) (*llm.Response, error) {
	return c.BaseClient.Complete(ctx, c.BuildCompleteEndpoint(), messages, opts)
}

// BuildCompleteEndpoint 构建 generateContent 端点（不含查询参数）
//
// 格式：/models/{model}:generateContent
func (c *Client) BuildCompleteEndpoint() string {
	return fmt.Sprintf("/models/%s:generateContent", c.config.Model)
}

// ═══════════════════════════════════════════════════════════════════════════
// core.ProviderConfig 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// Validate 验证配置
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return core.NewMissingAPIKeyError()
	}
	return nil
}

// GetDefaults 获取默认值
func (c *Config) GetDefaults() (string, string, time.Duration) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return baseURL, model, timeout
}

// BuildHeaders 构建请求头
//
// 凭证不放在请求头中。
func (c *Config) BuildHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	maps.Copy(headers, c.Headers)
	return headers
}

// BuildQueryParams 凭证作为 key 查询参数
func (c *Config) BuildQueryParams() map[string]string {
	return map[string]string{"key": c.APIKey}
}

// ProviderName 返回 Provider 名称
func (c *Config) ProviderName() string {
	return "gemini"
}

// 确保 Client 实现了 Provider 接口
var _ llm.Provider = (*Client)(nil)
