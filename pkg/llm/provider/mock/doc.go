// Package mock 提供离线的脚本化 Provider
//
// 实现 [llm.Provider] 接口，不访问网络，用于测试和离线演示。
//
// # 快速开始
//
//	client := mock.New() // 内嵌的 examples/pirate.yaml
//	resp, err := client.Complete(ctx, []llm.Message{llm.UserMessage("where be the treasure?")}, nil)
//
// # 规则
//
// 规则按顺序匹配最后一条用户消息，第一个命中的生效：
//
//	default_response: "Arr, reply {{ .Call }}!"
//	rules:
//	  - match: "treasure"
//	    reply: "Buried on the isle, matey!"
//	  - match: "storm"
//	    status: 503                      # *llm.APIError
//	  - match: "ghost ship"
//	    body: '{"candidates": []}'       # 经 Gemini 协议提取 → *llm.ResponseError
//	  - match: "kraken"
//	    error: "connection reset"        # *llm.HTTPError
//
// 这样每一种诊断都可以在没有凭证的情况下复现。
//
// # 模板
//
// reply 与 default_response 支持 text/template：
//   - {{ .Message }}: 最后一条用户消息
//   - {{ .Call }}: 调用序号（从 1 开始）
//   - 函数：upper、lower、trim
//
// # 调用记录
//
// [Client.Calls]、[Client.CallCount]、[Client.LastCall]、[Client.LastInput] 用于断言。
package mock
