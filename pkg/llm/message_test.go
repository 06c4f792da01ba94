package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastUserContent(t *testing.T) {
	t.Run("取最后一条用户消息", func(t *testing.T) {
		messages := []Message{
			UserMessage("first"),
			{Role: RoleAssistant, Content: "reply"},
			UserMessage("second"),
			{Role: RoleAssistant, Content: "reply 2"},
		}

		content, ok := LastUserContent(messages)

		assert.True(t, ok)
		assert.Equal(t, "second", content)
	})

	t.Run("空内容仍然有效", func(t *testing.T) {
		content, ok := LastUserContent([]Message{UserMessage("")})

		assert.True(t, ok)
		assert.Empty(t, content)
	})

	t.Run("没有用户消息", func(t *testing.T) {
		_, ok := LastUserContent([]Message{{Role: RoleAssistant, Content: "x"}})
		assert.False(t, ok)

		_, ok = LastUserContent(nil)
		assert.False(t, ok)
	})
}

func TestOptions_IsZero(t *testing.T) {
	var nilOpts *Options
	assert.True(t, nilOpts.IsZero())
	assert.True(t, (&Options{}).IsZero())
	assert.False(t, (&Options{TopP: 0.9}).IsZero())
	assert.False(t, (&Options{MaxTokens: 256}).IsZero())
}

func TestProviderType(t *testing.T) {
	t.Setenv(EnvAPIKey, "secret")

	assert.True(t, ProviderTypeGemini.IsValid())
	assert.True(t, ProviderTypeMock.IsValid())
	assert.False(t, ProviderType("openai").IsValid())

	assert.True(t, ProviderTypeGemini.RequiresAPIKey())
	assert.False(t, ProviderTypeMock.RequiresAPIKey())

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", ProviderTypeGemini.DefaultBaseURL())
	assert.Equal(t, "gemini-1.5-flash", ProviderTypeGemini.DefaultModel())
	assert.Equal(t, "secret", ProviderTypeGemini.GetEnvAPIKey())
	assert.Empty(t, ProviderTypeMock.GetEnvAPIKey())
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvAPIKey, "secret")

	cfg := DefaultConfig()

	assert.Equal(t, ProviderTypeGemini, cfg.Type)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)

	mockCfg := DefaultConfig(ProviderTypeMock)
	assert.Empty(t, mockCfg.APIKey)
	assert.Empty(t, mockCfg.BaseURL)
}
