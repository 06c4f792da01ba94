// Package llm 定义与文本生成服务交互所需的最小抽象
//
// 本包只描述契约，不发起任何网络请求：
//   - [Provider]: 同步完成接口
//   - [Message]: 单条对话消息
//   - [Options]: 生成参数
//   - [Response]: 统一响应
//   - 错误类型：[ConfigError]、[RequestError]、[HTTPError]、[APIError]、[ResponseError]
//
// # Provider 类型
//
// [ProviderType] 枚举支持的后端：
//   - ProviderTypeGemini: Google Gemini generateContent REST 接口
//   - ProviderTypeMock: 离线脚本化 Mock（测试与演示）
//
// # 环境变量
//
// 凭证只从 API_KEY 读取，进程生命周期内不可变，不写日志。
//
// # 协议实现
//
// 具体实现位于子包：
//   - [pkg/llm/core]: 基于 resty 的传输层
//   - [pkg/llm/protocol/gemini]: 请求信封构建与响应提取
//   - [pkg/llm/provider/gemini]: Gemini Provider
//   - [pkg/llm/provider/mock]: Mock Provider
//
// # 包文件组织
//
//   - types.go: Provider 接口、Options、Response
//   - message.go: Role、Message
//   - errors.go: 错误类型与匹配函数
//   - provider_type.go: ProviderType 枚举
//   - config.go: Provider 创建配置
package llm
