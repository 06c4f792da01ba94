// Package gemini 实现 Google Gemini generateContent 的协议适配器
//
// # 请求信封
//
// 单轮、单条内容、单个 part，不带 role：
//
//	{"contents": [{"parts": [{"text": "..."}]}]}
//
// 只有在 [llm.Options] 设置了非零参数时才附加 generationConfig。
//
// # 响应提取
//
// [ExtractText] 依次检查 candidates → candidates[0] → content → parts → parts[0] → text，
// 第一个失败的检查点即返回 [ExtractError]，后续检查不再进行：
//
//	{
//	  "candidates": [{
//	    "content": {"role": "model", "parts": [{"text": "..."}]},
//	    "finishReason": "STOP"
//	  }],
//	  "usageMetadata": {...}
//	}
//
// 值为 null 或类型不符的字段按缺失处理。
package gemini
