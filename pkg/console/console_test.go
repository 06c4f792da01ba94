package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder 记录收到的输入
type recorder struct {
	inputs []string
	reply  func(string) string
}

func (r *recorder) Reply(_ context.Context, message string) string {
	r.inputs = append(r.inputs, message)
	if r.reply != nil {
		return r.reply(message)
	}
	return "Ahoy, " + message
}

func run(t *testing.T, input string, r Responder) string {
	t.Helper()
	var out strings.Builder
	require.NoError(t, Run(context.Background(), strings.NewReader(input), &out, r))
	return out.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// 协议
// ═══════════════════════════════════════════════════════════════════════════

func TestRun_Transcript(t *testing.T) {
	rec := &recorder{}

	out := run(t, "  hello  \nexit\n", rec)

	want := Prompt + "Pirate Response: Ahoy, hello\n\n" +
		Prompt + "Exiting the chat...\n"
	assert.Equal(t, want, out)
	assert.Equal(t, []string{"hello"}, rec.inputs)
}

func TestRun_ExitCaseInsensitive(t *testing.T) {
	for _, cmd := range []string{"exit", "Exit", "EXIT", "  eXiT  "} {
		t.Run(cmd, func(t *testing.T) {
			rec := &recorder{}

			out := run(t, cmd+"\nnever\n", rec)

			assert.Empty(t, rec.inputs)
			assert.True(t, strings.HasSuffix(out, Farewell+"\n"))
		})
	}
}

func TestRun_ExitingIsNotExit(t *testing.T) {
	rec := &recorder{}

	run(t, "exiting\nexit now\nexit\n", rec)

	assert.Equal(t, []string{"exiting", "exit now"}, rec.inputs)
}

func TestRun_EOF(t *testing.T) {
	rec := &recorder{}

	out := run(t, "hello", rec)

	want := Prompt + "Pirate Response: Ahoy, hello\n\n" +
		Prompt + "\nExiting the chat...\n"
	assert.Equal(t, want, out)
}

func TestRun_EmptyInput(t *testing.T) {
	rec := &recorder{}

	out := run(t, "", rec)

	assert.Equal(t, Prompt+"\n"+Farewell+"\n", out)
	assert.Empty(t, rec.inputs)
}

func TestRun_EmptyLineIsSent(t *testing.T) {
	rec := &recorder{}

	run(t, "\n   \nexit\n", rec)

	assert.Equal(t, []string{"", ""}, rec.inputs)
}

func TestRun_FailuresDoNotStopLoop(t *testing.T) {
	rec := &recorder{reply: func(string) string { return "Arr, me got an error! HTTP code: 500" }}

	out := run(t, "one\ntwo\nexit\n", rec)

	assert.Equal(t, []string{"one", "two"}, rec.inputs)
	assert.Equal(t, 2, strings.Count(out, "Pirate Response: Arr, me got an error! HTTP code: 500\n\n"))
}

func TestRun_VeryLongLineKeepsLooping(t *testing.T) {
	rec := &recorder{reply: func(string) string { return "ok" }}
	long := strings.Repeat("a", 2<<20)

	out := run(t, long+"\nsecond\nexit\n", rec)

	require.Len(t, rec.inputs, 2)
	assert.Len(t, rec.inputs[0], len(long))
	assert.Equal(t, "second", rec.inputs[1])
	assert.True(t, strings.HasSuffix(out, Farewell+"\n"))
}

func TestRun_CRLF(t *testing.T) {
	rec := &recorder{}

	run(t, "hello\r\nEXIT\r\n", rec)

	assert.Equal(t, []string{"hello"}, rec.inputs)
}

func TestRun_ReadError(t *testing.T) {
	var out strings.Builder
	in := io.MultiReader(strings.NewReader("hello\n"), iotest.ErrReader(errors.New("device gone")))
	rec := &recorder{}

	err := Run(context.Background(), in, &out, rec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input: device gone")
	assert.Equal(t, []string{"hello"}, rec.inputs)
}

// ═══════════════════════════════════════════════════════════════════════════
// 取消与写入失败
// ═══════════════════════════════════════════════════════════════════════════

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := ResponderFunc(func(context.Context, string) string {
		cancel()
		return "late"
	})
	var out strings.Builder

	err := Run(ctx, strings.NewReader("hello\nagain\n"), &out, r)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out.String(), "late")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRun_WriteError(t *testing.T) {
	err := Run(context.Background(), strings.NewReader("hi\n"), failingWriter{}, &recorder{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestRun_CanceledWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	ctx, cancel := context.WithCancel(context.Background())
	var out strings.Builder

	errc := make(chan error, 1)
	go func() { errc <- Run(ctx, pr, &out, &recorder{}) }()
	cancel()

	require.ErrorIs(t, <-errc, context.Canceled)
	_ = pr.Close()
}
