// Package provider 提供 LLM Provider 的统一工厂
//
// 使用方式：
//
//	p, err := provider.New(&llm.Config{
//	    Type:   llm.ProviderTypeGemini,
//	    APIKey: os.Getenv(llm.EnvAPIKey),
//	})
//
//	// 离线 Mock（无需凭证）
//	p, err := provider.New(&llm.Config{Type: llm.ProviderTypeMock})
package provider

import (
	"fmt"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/provider/gemini"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/provider/mock"
)

// ═══════════════════════════════════════════════════════════════════════════
// 工厂函数
// ═══════════════════════════════════════════════════════════════════════════

// New 创建 Provider
//
// 错误均为 *llm.ConfigError，调用方在启动期直接退出即可。
func New(cfg *llm.Config) (llm.Provider, error) {
	if cfg == nil {
		return nil, llm.NewConfigError("config is required", nil)
	}

	providerType := cfg.Type
	if providerType == "" {
		providerType = llm.ProviderTypeGemini
	}
	if !providerType.IsValid() {
		return nil, llm.NewConfigError(fmt.Sprintf("unsupported provider type: %s", providerType), nil)
	}

	if providerType.RequiresAPIKey() && cfg.APIKey == "" {
		return nil, llm.NewConfigError("API key is required", nil)
	}

	switch providerType {
	case llm.ProviderTypeMock:
		return newMock(cfg)
	default:
		return newGemini(cfg)
	}
}

// extractHeaders 从 Extra 中提取 headers
func extractHeaders(cfg *llm.Config) map[string]string {
	if cfg.Extra == nil {
		return nil
	}
	if h, ok := cfg.Extra["headers"].(map[string]string); ok {
		return h
	}
	return nil
}

// newGemini 创建 Gemini Provider
func newGemini(cfg *llm.Config) (llm.Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = llm.ProviderTypeGemini.DefaultBaseURL()
	}

	model := cfg.Model
	if model == "" {
		model = llm.ProviderTypeGemini.DefaultModel()
	}

	return gemini.New(&gemini.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           baseURL,
		Model:             model,
		Timeout:           cfg.Timeout,
		Headers:           extractHeaders(cfg),
		RequestsPerMinute: cfg.RequestsPerMinute,
		Logger:            cfg.Logger,
	})
}

// newMock 创建 Mock Provider
//
// Extra["mock_file"] 指定规则文件，未指定时使用内嵌示例。
// 规则文件在这里加载，读取或解析失败立即返回 *llm.ConfigError。
func newMock(cfg *llm.Config) (llm.Provider, error) {
	path, _ := cfg.Extra["mock_file"].(string)
	if path == "" {
		return mock.New(), nil
	}

	mockCfg, err := mock.LoadConfigFile(path)
	if err != nil {
		return nil, llm.NewConfigError("load mock file", err)
	}
	return mock.New(mock.WithConfig(mockCfg)), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 便捷函数
// ═══════════════════════════════════════════════════════════════════════════

// Must 创建 Provider，失败时 panic
func Must(cfg *llm.Config) llm.Provider {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Default 使用默认配置创建 Provider
//
// 不指定类型时使用 Gemini，凭证从 API_KEY 环境变量读取。
func Default(types ...llm.ProviderType) (llm.Provider, error) {
	cfg := llm.DefaultConfig(types...)
	return New(&cfg)
}
