// Command pirate-chat 与海盗人设的 Gemini 模型在终端里对话
//
// 环境变量：
//   - API_KEY：Gemini API Key（必需，provider 为 mock 时除外）
//   - PIRATE_CHAT_CONFIG：可选的 YAML 配置文件
//
// 退出码：0 正常退出，1 配置错误或运行错误，130 被中断。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/lwmacct/251219-go-pirate-chat/pkg/config"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/console"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/llm/provider"
	"github.com/lwmacct/251219-go-pirate-chat/pkg/pirate"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 装配并运行聊天循环，返回退出码
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrMissingAPIKey) {
		_, _ = fmt.Fprintln(stderr, "API_KEY environment variable not set.")
		return exitError
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger := newLogger(stderr, cfg.Level())

	p, err := provider.New(cfg.LLMConfig(logger))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer func() { _ = p.Close() }()

	logger.Info("chat started", "provider", cfg.Provider, "model", cfg.Model)

	bot := pirate.New(p, pirate.WithLogger(logger), pirate.WithOptions(cfg.Options()))
	err = console.Run(ctx, stdin, stdout, bot)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(stdout)
		return exitInterrupted
	default:
		logger.Error("chat loop failed", "error", err)
		return exitError
	}
}

// newLogger 日志写到 stderr，stdout 只承载对话内容
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("session", uuid.NewString())
}
