package pirate

// Persona 固定的海盗人设指令
const Persona = "You are a pirate chatbot. Respond only in pirate speak, using pirate slang and nautical terms. Do not reply in normal English."

// BuildPrompt 拼接人设与用户输入
//
// 输入原样拼接，不做校验，空字符串同样合法。
func BuildPrompt(persona, message string) string {
	return persona + " User: " + message + " Pirate Response:"
}
