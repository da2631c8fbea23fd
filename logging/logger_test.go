package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter()
	entry := &LogEntry{
		Time:     time.Now(),
		Level:    LogLevelInfo,
		Category: "Test",
		Message:  "Hello",
		Fields:   []Field{{Key: "key", Value: "val"}, {Key: "n", Value: 2}},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	str := string(out)
	assert.Contains(t, str, "INFO")
	assert.Contains(t, str, "[Test]")
	assert.Contains(t, str, "Hello")
	assert.Contains(t, str, "{key=val, n=2}")
	assert.True(t, strings.HasSuffix(str, "\n"))
}

func TestJsonFormatter(t *testing.T) {
	f := NewJsonFormatter()
	entry := &LogEntry{
		Time:     time.Now(),
		Level:    LogLevelWarn,
		Category: "Test",
		Message:  "Hello",
		Fields:   []Field{{Key: "key", Value: "val"}, {Key: "error", Value: errors.New("boom")}},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(out, &data))

	assert.Equal(t, "WARN", data["level"])
	assert.Equal(t, "Test", data["category"])
	fields, ok := data["fields"].(map[string]any)
	require.True(t, ok, "Expected fields map")
	assert.Equal(t, "val", fields["key"])
	assert.Equal(t, "boom", fields["error"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   LogLevelTrace,
		"DEBUG":   LogLevelDebug,
		"":        LogLevelInfo,
		" warn ":  LogLevelWarn,
		"warning": LogLevelWarn,
		"Error":   LogLevelError,
		"fatal":   LogLevelFatal,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestConsoleLoggerMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	factory := NewLoggingBuilder().
		SetMinimumLevel(LogLevelDebug).
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build()

	logger := factory.CreateLogger("di")
	logger.Trace("hidden")
	logger.Debug("instance constructed", Field{Key: "type", Value: "*app.Mailer"})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "DEBUG [di] instance constructed {type=*app.Mailer}")

	buf.Reset()
	factory.SetMinimumLevel(LogLevelError)
	logger.Warn("dropped")
	factory.CreateLogger("di").Warn("dropped too")
	assert.Empty(t, buf.String())
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build().
		CreateLogger("")

	base := logger.WithFields(Field{Key: "a", Value: 1})
	left := base.WithFields(Field{Key: "b", Value: 2})
	right := base.WithFields(Field{Key: "c", Value: 3})

	left.Info("left")
	right.Info("right")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "{a=1, b=2}")
	assert.Contains(t, lines[1], "{a=1, c=3}")
}

func TestWithCategory(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build().
		CreateLogger("root")

	logger.WithCategory("cron").Info("tick")
	assert.Contains(t, buf.String(), "INFO [cron] tick")
}

func TestConsoleJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf, Formatter: NewJsonFormatter()}).
		Build().
		CreateLogger("web")

	logger.Info("started", Field{Key: "mode", Value: "release"})

	var data map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "web", data["category"])
	assert.Equal(t, "started", data["msg"])
}

func TestZapProvider(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggingBuilder().
		SetMinimumLevel(LogLevelTrace).
		AddZap(zap.New(core)).
		Build().
		CreateLogger("di")

	logger.Trace("instance reused", Field{Key: "type", Value: "*app.Mailer"})
	logger.Info("container reset")
	logger.WithFields(Field{Key: "error", Value: errors.New("boom")}).Error("resolution failed")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "di", entries[0].LoggerName)
	assert.Equal(t, true, entries[0].ContextMap()["trace"])
	assert.Equal(t, "*app.Mailer", entries[0].ContextMap()["type"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "container reset", entries[1].Message)

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestZapWithCategoryKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	provider := NewZapLoggerProvider(zap.New(core))

	logger := provider.CreateLogger("di").
		WithFields(Field{Key: "request", Value: "r-1"}).
		WithCategory("cron").
		WithFields(Field{Key: "job", Value: "sync"})
	logger.Info("tick")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cron", entries[0].LoggerName)
	assert.Equal(t, "r-1", entries[0].ContextMap()["request"])
	assert.Equal(t, "sync", entries[0].ContextMap()["job"])
}

func TestZapProviderRespectsMinimumLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	provider := NewZapLoggerProvider(zap.New(core))
	provider.SetMinimumLevel(LogLevelWarn)

	logger := provider.CreateLogger("")
	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.NoError(t, provider.Sync())
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("nothing")
	assert.Equal(t, logger, logger.WithFields(Field{Key: "k", Value: 1}).WithCategory("x"))
}

func TestConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: &buf}).
		Build().
		CreateLogger("")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("line")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 20)
}

func BenchmarkConsoleLogging(b *testing.B) {
	logger := NewLoggingBuilder().
		AddConsole(ConsoleLoggerOptions{Output: io.Discard}).
		Build().
		CreateLogger("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("Benchmark", Field{Key: "i", Value: i})
	}
}
