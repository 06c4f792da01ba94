// Package pirate 海盗人设聊天机器人
//
// Bot 把用户输入包装成带人设的提示词，交给 llm.Provider 完成，
// 并把所有结果（成功或失败）折叠成一行可直接打印的文本。
//
//	bot := pirate.New(p)
//	fmt.Println(bot.Reply(ctx, "Where be the treasure?"))
package pirate
