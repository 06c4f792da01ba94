package llm

import "os"

// EnvAPIKey 凭证环境变量
const EnvAPIKey = "API_KEY"

// ProviderType Provider 类型
type ProviderType string

const (
	// ProviderTypeGemini Google Gemini generateContent
	ProviderTypeGemini ProviderType = "gemini"

	// ProviderTypeMock 离线 Mock
	ProviderTypeMock ProviderType = "mock"
)

// String 返回字符串表示
func (t ProviderType) String() string {
	return string(t)
}

// IsValid 是否为已知类型
func (t ProviderType) IsValid() bool {
	switch t {
	case ProviderTypeGemini, ProviderTypeMock:
		return true
	default:
		return false
	}
}

// RequiresAPIKey Mock 不需要凭证
func (t ProviderType) RequiresAPIKey() bool {
	return t != ProviderTypeMock
}

// DefaultBaseURL 返回默认 Base URL
func (t ProviderType) DefaultBaseURL() string {
	switch t {
	case ProviderTypeGemini:
		return "https://generativelanguage.googleapis.com/v1beta"
	default:
		return ""
	}
}

// DefaultModel 返回默认模型
func (t ProviderType) DefaultModel() string {
	switch t {
	case ProviderTypeGemini:
		return "gemini-1.5-flash"
	case ProviderTypeMock:
		return "mock"
	default:
		return ""
	}
}

// GetEnvAPIKey 从环境变量读取凭证
func (t ProviderType) GetEnvAPIKey() string {
	if !t.RequiresAPIKey() {
		return ""
	}
	return os.Getenv(EnvAPIKey)
}
