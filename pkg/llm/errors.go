package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误类型
// ═══════════════════════════════════════════════════════════════════════════

// ErrorType 错误类别
type ErrorType string

const (
	// ErrTypeConfig 配置错误（启动期致命）
	ErrTypeConfig ErrorType = "config_error"

	// ErrTypeRequest 请求构建错误（序列化等）
	ErrTypeRequest ErrorType = "request_error"

	// ErrTypeHTTP 传输层错误（DNS、连接、TLS、超时）
	ErrTypeHTTP ErrorType = "http_error"

	// ErrTypeAPI 非 2xx 状态码
	ErrTypeAPI ErrorType = "api_error"

	// ErrTypeResponse 响应结构不符合预期
	ErrTypeResponse ErrorType = "response_error"
)

// BaseError 所有错误类型共享的字段
type BaseError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// Cause 返回底层错误的描述，没有底层错误时返回 Message
func (e *BaseError) Cause() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// ═══════════════════════════════════════════════════════════════════════════
// 具体错误
// ═══════════════════════════════════════════════════════════════════════════

// ConfigError 配置错误
type ConfigError struct {
	*BaseError
}

// NewConfigError 创建配置错误
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{&BaseError{Type: ErrTypeConfig, Message: message, Err: err}}
}

// RequestError 请求构建错误
type RequestError struct {
	*BaseError

	Stage string // "build", "marshal"
}

// NewRequestError 创建请求错误
func NewRequestError(stage string, err error) *RequestError {
	return &RequestError{
		BaseError: &BaseError{
			Type:    ErrTypeRequest,
			Message: fmt.Sprintf("failed to %s request", stage),
			Err:     err,
		},
		Stage: stage,
	}
}

// HTTPError 传输层错误
type HTTPError struct {
	*BaseError
}

// NewHTTPError 创建传输层错误
func NewHTTPError(message string, err error) *HTTPError {
	return &HTTPError{&BaseError{Type: ErrTypeHTTP, Message: message, Err: err}}
}

// APIError 服务端返回的非 2xx 状态
//
// Response 保存原始响应体，仅用于诊断，不会按响应结构解析。
type APIError struct {
	*BaseError

	StatusCode int
	Response   string
	Provider   string
}

// NewAPIError 创建 API 错误
func NewAPIError(statusCode int, response string) *APIError {
	return &APIError{
		BaseError: &BaseError{
			Type:    ErrTypeAPI,
			Message: fmt.Sprintf("API returned error status %d", statusCode),
		},
		StatusCode: statusCode,
		Response:   response,
	}
}

// WithProvider 设置 Provider 名称
func (e *APIError) WithProvider(provider string) *APIError {
	e.Provider = provider
	return e
}

// IsServerError 5xx
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// ResponseError 响应结构错误
type ResponseError struct {
	*BaseError

	Field string // 出错的字段路径
}

// NewResponseError 创建响应错误
func NewResponseError(field string, err error) *ResponseError {
	return &ResponseError{
		BaseError: &BaseError{
			Type:    ErrTypeResponse,
			Message: fmt.Sprintf("failed to parse response field '%s'", field),
			Err:     err,
		},
		Field: field,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误匹配
// ═══════════════════════════════════════════════════════════════════════════

// IsConfigError 检查是否为配置错误
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsRequestError 检查是否为请求错误
func IsRequestError(err error) bool {
	var e *RequestError
	return errors.As(err, &e)
}

// IsHTTPError 检查是否为传输层错误
func IsHTTPError(err error) bool {
	var e *HTTPError
	return errors.As(err, &e)
}

// IsAPIError 检查是否为 API 错误
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsResponseError 检查是否为响应结构错误
func IsResponseError(err error) bool {
	var e *ResponseError
	return errors.As(err, &e)
}

// GetStatusCode 提取 HTTP 状态码，非 API 错误返回 0
func GetStatusCode(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Category 返回错误类别，用于日志字段
func Category(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case IsConfigError(err):
		return ErrTypeConfig
	case IsRequestError(err):
		return ErrTypeRequest
	case IsHTTPError(err):
		return ErrTypeHTTP
	case IsAPIError(err):
		return ErrTypeAPI
	case IsResponseError(err):
		return ErrTypeResponse
	default:
		return "unknown"
	}
}
