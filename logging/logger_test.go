package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*RengaLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: buf, Component: "test"})
	return l, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRengaLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	l.Error("shown too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "test", lines[0]["component"])
	assert.EqualValues(t, 1, lines[0]["k"])
}

func TestRengaLogger_WithContextDoesNotLeak(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	child := l.WithContext("project", "a.rnp").WithComponent("project")
	child.Info("child")
	l.Info("parent")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "a.rnp", lines[0]["project"])
	assert.Equal(t, "project", lines[0]["component"])
	_, leaked := lines[1]["project"]
	assert.False(t, leaked)
	assert.Equal(t, "test", lines[1]["component"])
}

func TestRengaLogger_LogForeignCall(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l.LogForeignCall("get", "Version", 3*time.Millisecond, nil)
	l.LogForeignCall("call", "Quit", time.Millisecond, errors.New("disconnected"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "renga.native.call", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "renga.native.call.failed", lines[1]["msg"])
	assert.Equal(t, "DEBUG", lines[1]["level"])
	assert.Equal(t, "disconnected", lines[1]["error"])

	quiet, quietBuf := newBufferLogger(LogLevelInfo)
	quiet.LogForeignCall("call", "CloseProject", time.Millisecond, errors.New("no project"))
	assert.Zero(t, quietBuf.Len())
}

func TestRengaLogger_AddSource(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: buf, AddSource: true})
	l.Info("renga.test.source")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	source, ok := lines[0]["source"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, source["file"], "logger_test.go")
	assert.Contains(t, source["function"], "TestRengaLogger_AddSource")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"debug": LogLevelDebug, "INFO": LogLevelInfo, "warning": LogLevelWarn, "error": LogLevelError, "": LogLevelInfo} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "WARN", LogLevelWarn.String())
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}

func TestTransition(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	Transition(l, "no_project", "project_open")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "renga.session.transition", lines[0]["msg"])
	assert.Equal(t, "project_open", lines[0]["to"])

	slogBuf := &bytes.Buffer{}
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(slogBuf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Transition(adapter, "ready", "closed")
	assert.Contains(t, slogBuf.String(), `"from":"ready"`)
}

func TestForeignCall_FallsBackToDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ForeignCall(adapter, "put", "Visible", time.Millisecond, nil)
	ForeignCall(adapter, "call", "Quit", time.Millisecond, errors.New("disconnected"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "renga.native.call", lines[0]["msg"])
	assert.Equal(t, "renga.native.call.failed", lines[1]["msg"])
	assert.Equal(t, "DEBUG", lines[1]["level"])

	ForeignCall(NoOpLogger{}, "get", "Version", 0, nil)
}
