// Package gemini 实现 Google Gemini generateContent Provider
//
// # 基础使用
//
//	provider, err := gemini.New(&gemini.Config{
//	    APIKey: os.Getenv("API_KEY"),
//	})
//
//	resp, err := provider.Complete(ctx, []llm.Message{llm.UserMessage("Ahoy")}, nil)
//
// 请求地址：
//
//	POST {BaseURL}/models/{Model}:generateContent?key={APIKey}
//
// # 错误
//
//   - 传输失败：*llm.HTTPError
//   - 非 2xx：*llm.APIError（响应体不解析）
//   - 响应缺字段：*llm.ResponseError，内含 *gemini.ExtractError
package gemini
