package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// Mock 实现
// ═══════════════════════════════════════════════════════════════════════════

type mockConfig struct {
	apiKey  string
	baseURL string
	model   string
}

func (m *mockConfig) Validate() error {
	if m.apiKey == "" {
		return errors.New("API key is required")
	}
	return nil
}

func (m *mockConfig) GetDefaults() (string, string, time.Duration) {
	model := m.model
	if model == "" {
		model = "test-model"
	}
	return m.baseURL, model, 5 * time.Second
}

func (m *mockConfig) BuildHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func (m *mockConfig) BuildQueryParams() map[string]string {
	return map[string]string{"key": m.apiKey}
}

func (m *mockConfig) ProviderName() string { return "test-provider" }

// mockAdapter 请求体固定，响应取顶层 text 字段
type mockAdapter struct {
	buildErr error
}

func (m *mockAdapter) BuildRequest(messages []llm.Message, _ *llm.Options) (map[string]any, error) {
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	content, _ := llm.LastUserContent(messages)
	return map[string]any{"prompt": content}, nil
}

func (m *mockAdapter) ParseResponse(apiResp map[string]any) (llm.Message, string, error) {
	text, ok := apiResp["text"].(string)
	if !ok {
		return llm.Message{}, "", llm.NewResponseError("text", nil)
	}
	return llm.Message{Role: llm.RoleAssistant, Content: text}, "stop", nil
}

func (m *mockAdapter) ConvertUsage(apiResp map[string]any) *llm.TokenUsage {
	if _, ok := apiResp["usage"]; !ok {
		return nil
	}
	return &llm.TokenUsage{TotalTokens: GetInt64(apiResp["usage"])}
}

func newTestClient(t *testing.T, url string, opts ...Option) *BaseClient {
	t.Helper()
	client, err := NewBaseClient(&mockConfig{apiKey: "test-key", baseURL: url}, &mockAdapter{}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// ═══════════════════════════════════════════════════════════════════════════
// NewBaseClient 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestNewBaseClient(t *testing.T) {
	t.Run("成功创建", func(t *testing.T) {
		client, err := NewBaseClient(&mockConfig{apiKey: "k", baseURL: "https://api.example.com"}, &mockAdapter{})

		require.NoError(t, err)
		assert.Equal(t, "test-model", client.Model())
		assert.Nil(t, client.limiter)
	})

	t.Run("配置验证失败", func(t *testing.T) {
		client, err := NewBaseClient(&mockConfig{}, &mockAdapter{})

		assert.Nil(t, client)
		require.Error(t, err)
		assert.True(t, llm.IsConfigError(err))
	})

	t.Run("限速选项", func(t *testing.T) {
		client := newTestClient(t, "https://api.example.com", WithRateLimit(120))
		require.NotNil(t, client.limiter)
		assert.InDelta(t, 2.0, float64(client.limiter.Limit()), 0.0001)

		unlimited := newTestClient(t, "https://api.example.com", WithRateLimit(0))
		assert.Nil(t, unlimited.limiter)
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Post 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestBaseClient_Post(t *testing.T) {
	t.Run("携带查询参数与请求头", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/echo", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write(body)
		}))
		defer server.Close()

		raw, err := newTestClient(t, server.URL).Post(context.Background(), "/echo", []byte(`{"a":1}`))

		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, raw.StatusCode)
		assert.True(t, raw.IsSuccess())
		assert.JSONEq(t, `{"a":1}`, string(raw.Body))
	})

	t.Run("非 2xx 不算传输错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		raw, err := newTestClient(t, server.URL).Post(context.Background(), "/x", nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, raw.StatusCode)
		assert.False(t, raw.IsSuccess())
	})

	t.Run("连接失败返回 HTTPError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		raw, err := newTestClient(t, url).Post(context.Background(), "/x", nil)

		assert.Nil(t, raw)
		require.Error(t, err)
		assert.True(t, llm.IsHTTPError(err))
	})

	t.Run("取消的 context 在限速等待时失败", func(t *testing.T) {
		client := newTestClient(t, "http://127.0.0.1:1", WithRateLimit(1))
		// 消耗唯一的令牌
		require.True(t, client.limiter.Allow())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Post(ctx, "/x", nil)

		require.Error(t, err)
		assert.True(t, llm.IsHTTPError(err))
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Complete 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestBaseClient_Complete(t *testing.T) {
	t.Run("成功", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "<b>hi</b>", req["prompt"])

			_, _ = w.Write([]byte(`{"text":"ok","usage":7}`))
		}))
		defer server.Close()

		resp, err := newTestClient(t, server.URL).Complete(context.Background(), "/gen",
			[]llm.Message{llm.UserMessage("<b>hi</b>")}, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Message.Content)
		assert.Equal(t, "stop", resp.FinishReason)
		assert.Equal(t, "test-model", resp.Model)
		require.NotNil(t, resp.Usage)
		assert.Equal(t, int64(7), resp.Usage.TotalTokens)
	})

	t.Run("HTML 字符不被转义", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"prompt":"a < b & c"}`, string(body))
			_, _ = w.Write([]byte(`{"text":"ok"}`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).Complete(context.Background(), "/gen",
			[]llm.Message{llm.UserMessage("a < b & c")}, nil)

		require.NoError(t, err)
	})

	t.Run("500 不解析响应体", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"text":"should not be read"}`))
		}))
		defer server.Close()

		resp, err := newTestClient(t, server.URL).Complete(context.Background(), "/gen",
			[]llm.Message{llm.UserMessage("hi")}, nil)

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, llm.GetStatusCode(err))
		assert.Contains(t, err.Error(), "500")

		var apiErr *llm.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "test-provider", apiErr.Provider)
	})

	t.Run("响应体不是 JSON 对象", func(t *testing.T) {
		for _, body := range []string{`not json`, `[1,2]`, `null`} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))

			_, err := newTestClient(t, server.URL).Complete(context.Background(), "/gen",
				[]llm.Message{llm.UserMessage("hi")}, nil)
			server.Close()

			require.Error(t, err, body)
			assert.True(t, llm.IsResponseError(err), body)
		}
	})

	t.Run("构建失败不发请求", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		client, err := NewBaseClient(&mockConfig{apiKey: "k", baseURL: server.URL},
			&mockAdapter{buildErr: errors.New("no user message")})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "/gen", nil, nil)

		require.Error(t, err)
		assert.True(t, llm.IsRequestError(err))
		assert.Zero(t, hits.Load())
	})
}
