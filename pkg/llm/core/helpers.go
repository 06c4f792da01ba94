package core

// ═══════════════════════════════════════════════════════════════════════════
// 类型转换辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// GetInt64 将 JSON 解码得到的数字转换为 int64
//
// encoding/json 把数字解码为 float64，测试中常直接构造 int。
// 其他类型返回 0。
func GetInt64(val any) int64 {
	switch v := val.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// GetString 取字符串值，其他类型返回 ""
func GetString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// GetObject 取 JSON 对象，null 或其他类型返回 (nil, false)
func GetObject(val any) (map[string]any, bool) {
	m, ok := val.(map[string]any)
	return m, ok && m != nil
}

// GetArray 取 JSON 数组，null 或其他类型返回 (nil, false)
//
// 空数组返回 ([]any{}, true)，调用方据此区分"缺失"与"为空"。
func GetArray(val any) ([]any, bool) {
	a, ok := val.([]any)
	return a, ok && a != nil
}
