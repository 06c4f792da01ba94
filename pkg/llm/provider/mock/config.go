package mock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed examples/pirate.yaml
var exampleConfigYAML []byte

// Config 配置文件结构
type Config struct {
	// DefaultResponse 没有规则命中时的响应（支持模板语法）
	DefaultResponse string `yaml:"default_response" json:"default_response"`

	// Rules 按顺序匹配，第一个命中的规则生效
	Rules []Rule `yaml:"rules" json:"rules"`

	// Delay 响应延迟（如 "100ms", "1s"）
	Delay string `yaml:"delay" json:"delay"`

	// SimulateError 每次调用都返回的传输错误
	SimulateError string `yaml:"simulate_error" json:"simulate_error"`
}

// Rule 响应规则
//
// 命中后按 Error → Status → Body → Reply 的优先级产生结果。
type Rule struct {
	// Match 最后一条用户消息包含的子串（不区分大小写），空串匹配任意消息
	Match string `yaml:"match" json:"match"`

	// Reply 响应文本（支持模板语法）
	Reply string `yaml:"reply,omitempty" json:"reply,omitempty"`

	// Body 原始 generateContent 响应体，经 Gemini 协议提取后返回
	Body string `yaml:"body,omitempty" json:"body,omitempty"`

	// Status 非 2xx 时返回 *llm.APIError
	Status int `yaml:"status,omitempty" json:"status,omitempty"`

	// Error 返回 *llm.HTTPError
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// matches 不区分大小写的子串匹配
func (r Rule) matches(input string) bool {
	return r.Match == "" || strings.Contains(strings.ToLower(input), strings.ToLower(r.Match))
}

// LoadConfigFile 从文件加载配置
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes 从字节数据加载配置
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := &Config{}

	// 支持 ".yaml" 或 "yaml"
	format = strings.TrimPrefix(strings.ToLower(format), ".")

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s (expected yaml, yml, or json)", format)
	}

	if _, err := cfg.delay(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadExampleConfig 加载内嵌的示例配置
func LoadExampleConfig() (*Config, error) {
	return LoadConfigFromBytes(exampleConfigYAML, "yaml")
}

func (c *Config) delay() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, fmt.Errorf("parse delay %q: %w", c.Delay, err)
	}
	return d, nil
}

// WithConfigFile 从配置文件加载设置
//
// 加载失败的错误在首次调用 Complete 时返回。
func WithConfigFile(path string) Option {
	return func(c *Client) {
		cfg, err := LoadConfigFile(path)
		if err != nil {
			c.loadErr = fmt.Errorf("load config file: %w", err)
			return
		}
		applyConfig(c, cfg)
	}
}

// WithConfig 从配置对象加载设置
func WithConfig(cfg *Config) Option {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		applyConfig(c, cfg)
	}
}

// applyConfig 应用配置到客户端
func applyConfig(c *Client, cfg *Config) {
	if cfg.DefaultResponse != "" {
		c.response = cfg.DefaultResponse
	}
	if len(cfg.Rules) > 0 {
		c.rules = append([]Rule(nil), cfg.Rules...)
	}
	if d, err := cfg.delay(); err == nil && d > 0 {
		c.delay = d
	}
	if cfg.SimulateError != "" {
		c.err = fmt.Errorf("%s", cfg.SimulateError)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板渲染
// ═══════════════════════════════════════════════════════════════════════════

// templateData 模板可用字段
type templateData struct {
	Message string // 最后一条用户消息
	Call    int    // 调用序号，从 1 开始
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// renderTemplate 渲染失败时原样返回
func renderTemplate(text string, data templateData) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	tmpl, err := template.New("reply").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}
