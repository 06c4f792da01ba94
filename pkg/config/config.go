// Package config 应用配置
//
// 配置来源（后者覆盖前者）：
//  1. 内置默认值
//  2. 工作目录下的 .env（不覆盖已存在的环境变量），其中的 API_KEY 同样生效
//  3. PIRATE_CHAT_CONFIG 指向的 YAML 文件
//  4. API_KEY 环境变量（凭证只从环境变量读取）
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
)

// EnvConfigFile 配置文件路径环境变量
const EnvConfigFile = "PIRATE_CHAT_CONFIG"

// ErrMissingAPIKey 需要凭证的 Provider 没有设置 API_KEY
var ErrMissingAPIKey = errors.New("API_KEY environment variable not set")

// Config 应用配置
type Config struct {
	Provider          string        `yaml:"provider" validate:"required,oneof=gemini mock"`
	Model             string        `yaml:"model" validate:"required"`
	BaseURL           string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout           time.Duration `yaml:"timeout" validate:"min=0s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" validate:"min=0,max=6000"`
	LogLevel          string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	MaxOutputTokens   int           `yaml:"max_output_tokens" validate:"min=0"`
	Temperature       float64       `yaml:"temperature" validate:"min=0,max=2"`
	TopP              float64       `yaml:"top_p" validate:"min=0,max=1"`
	MockFile          string        `yaml:"mock_file"`

	// APIKey 只从环境变量读取
	APIKey string `yaml:"-"`
}

// Default 返回默认配置：Gemini、gemini-1.5-flash、120 秒超时、warn 级别日志
func Default() *Config {
	return &Config{
		Provider: llm.ProviderTypeGemini.String(),
		Model:    llm.ProviderTypeGemini.DefaultModel(),
		BaseURL:  llm.ProviderTypeGemini.DefaultBaseURL(),
		Timeout:  120 * time.Second,
		LogLevel: "warn",
	}
}

// Load 加载配置
//
// envFiles 为空时读取 ./.env，文件不存在不算错误。
// .env 可以提供 API_KEY，因此是否缺少凭证取决于运行目录。
// 需要凭证但 API_KEY 未设置时返回 ErrMissingAPIKey。
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// 先校验取值，未知 provider 不会被误报为缺少凭证
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.APIKey = os.Getenv(llm.EnvAPIKey)
	if cfg.ProviderType().RequiresAPIKey() && cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

// loadFile 用 YAML 文件覆盖默认值，文件中未出现的字段保持不变
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	// 切换到 mock 但没有指定模型时使用 mock 的默认模型
	if c.ProviderType() == llm.ProviderTypeMock && c.Model == llm.ProviderTypeGemini.DefaultModel() {
		c.Model = llm.ProviderTypeMock.DefaultModel()
	}
	return nil
}

var validate = validator.New()

// Validate 校验字段取值
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ProviderType 返回 Provider 类型
func (c *Config) ProviderType() llm.ProviderType {
	return llm.ProviderType(c.Provider)
}

// ═══════════════════════════════════════════════════════════════════════════
// 转换
// ═══════════════════════════════════════════════════════════════════════════

// LLMConfig 转换为 Provider 工厂配置
func (c *Config) LLMConfig(logger *slog.Logger) *llm.Config {
	cfg := &llm.Config{
		Type:              c.ProviderType(),
		APIKey:            c.APIKey,
		Model:             c.Model,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		RequestsPerMinute: c.RequestsPerMinute,
		Logger:            logger,
	}
	if c.MockFile != "" {
		cfg.Extra = map[string]any{"mock_file": c.MockFile}
	}
	return cfg
}

// Options 返回生成参数，全部为零值时返回 nil
func (c *Config) Options() *llm.Options {
	opts := &llm.Options{
		MaxTokens:   c.MaxOutputTokens,
		Temperature: c.Temperature,
		TopP:        c.TopP,
	}
	if opts.IsZero() {
		return nil
	}
	return opts
}

// Level 返回日志级别
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
