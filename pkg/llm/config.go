package llm

import (
	"log/slog"
	"time"
)

// Config Provider 创建配置
//
// 基本用法：
//
//	cfg := &llm.Config{
//	    Type:   llm.ProviderTypeGemini,
//	    APIKey: os.Getenv(llm.EnvAPIKey),
//	}
//
// 离线演示：
//
//	cfg := &llm.Config{
//	    Type:  llm.ProviderTypeMock,
//	    Extra: map[string]any{"mock_file": "pirate.yaml"},
//	}
type Config struct {
	// Provider 类型（默认 Gemini）
	Type ProviderType

	// APIKey（Mock 除外必需）
	APIKey string

	// 可选字段（有默认值）
	Model   string
	BaseURL string

	// 网络配置
	Timeout           time.Duration
	RequestsPerMinute int // 0 表示不限速

	// Logger 为空时使用 slog.Default()
	Logger *slog.Logger

	// 扩展配置（headers、mock_file）
	Extra map[string]any
}

// DefaultConfig 返回默认配置，不指定类型时使用 Gemini
func DefaultConfig(types ...ProviderType) Config {
	t := ProviderTypeGemini
	if len(types) > 0 {
		t = types[0]
	}
	return Config{
		Type:    t,
		APIKey:  t.GetEnvAPIKey(),
		BaseURL: t.DefaultBaseURL(),
		Model:   t.DefaultModel(),
		Timeout: 120 * time.Second,
	}
}
