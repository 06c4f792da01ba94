// Package console 交互式命令行循环
//
// 协议：
//
//	Enter your message (or type 'exit' to quit): <输入>
//	Pirate Response: <回复>
//	<空行>
//
// 输入 exit（不区分大小写）或输入流结束时打印 "Exiting the chat..." 并返回。
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Prompt 每次读取前打印的提示（不换行）
	Prompt = "Enter your message (or type 'exit' to quit): "

	// Farewell 退出时打印的告别语
	Farewell = "Exiting the chat..."

	// ExitCommand 退出指令
	ExitCommand = "exit"
)

// Responder 为一条输入产生可打印的回复
type Responder interface {
	Reply(ctx context.Context, message string) string
}

// ResponderFunc 函数适配器
type ResponderFunc func(ctx context.Context, message string) string

// Reply 实现 Responder
func (f ResponderFunc) Reply(ctx context.Context, message string) string {
	return f(ctx, message)
}

// Run 运行交互循环直到 exit、输入结束或 ctx 取消
//
// 正常结束返回 nil；ctx 取消返回 ctx.Err()，即使此时正阻塞在读取上；
// 读写失败返回包装后的错误。每一轮严格串行，Reply 的结果不会中断循环。
func Run(ctx context.Context, in io.Reader, out io.Writer, r Responder) error {
	done := make(chan struct{})
	defer close(done)
	lines, errc := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := io.WriteString(out, Prompt); err != nil {
			return fmt.Errorf("write prompt: %w", err)
		}

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			if err := <-errc; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			// 输入结束：先结束悬空的提示行
			_, err := fmt.Fprintf(out, "\n%s\n", Farewell)
			return err
		}

		line = strings.TrimSpace(line)
		if strings.EqualFold(line, ExitCommand) {
			_, err := fmt.Fprintln(out, Farewell)
			return err
		}

		reply := r.Reply(ctx, line)
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Pirate Response: %s\n\n", reply); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
	}
}

// readLines 在独立 goroutine 中逐行读取，单行长度不设上限
//
// 输入结束后先把读取错误（io.EOF 记为 nil）写入 errc，再关闭 lines。
// 没有换行符结尾的最后一行照常发送。done 关闭后停止发送。
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-done:
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				errc <- err
				return
			}
		}
	}()

	return lines, errc
}
