package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level LogLevel) (*TurnLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
}

func TestTurnLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelWarn)

	logger.Debug("invisible")
	logger.Info("invisible")
	logger.Warn("visible warning")
	logger.Error("visible error")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "visible warning", entries[0]["msg"])
	assert.Equal(t, "visible error", entries[1]["msg"])
}

func TestTurnLogger_WithContextClones(t *testing.T) {
	base, buf := newBufferedLogger(LogLevelInfo)

	scoped := base.WithComponent("engine").WithTurn("campaign-1", "turn-9").WithContext("phase", "analysis")
	scoped.Info("phase started")
	base.Info("base unchanged")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "engine", entries[0]["component"])
	assert.Equal(t, "campaign-1", entries[0]["campaign_id"])
	assert.Equal(t, "turn-9", entries[0]["turn_id"])
	assert.Equal(t, "analysis", entries[0]["phase"])

	// The base logger never picked up the scoped attributes.
	assert.NotContains(t, entries[1], "component")
	assert.NotContains(t, entries[1], "campaign_id")
}

func TestTurnLogger_FormatArgs(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.Info("turn %d of %s", 3, "campaign-1")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "turn 3 of campaign-1", entries[0]["msg"])
}

func TestTurnLogger_LogToolCall(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.LogToolCall("roll_dice", 5*time.Millisecond, true, nil)
	logger.LogToolCall("roll_dice", time.Millisecond, false, errors.New("bad expression"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "Tool execution completed", entries[0]["msg"])
	assert.Equal(t, "roll_dice", entries[0]["tool_name"])
	assert.Equal(t, true, entries[0]["success"])
	assert.Equal(t, "Tool execution failed", entries[1]["msg"])
	assert.Equal(t, "bad expression", entries[1]["error"])
}

func TestTurnLogger_LogPhase(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.LogPhase("narrative_generation", 2, 120*time.Millisecond, true, nil)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Phase completed", entries[0]["msg"])
	assert.Equal(t, float64(2), entries[0]["attempts"])
	assert.Equal(t, true, entries[0]["fallback"])
}

func TestTurnLogger_LogMemoryWrite(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelDebug)

	logger.LogMemoryWrite("event", 5, nil)
	logger.LogMemoryWrite("event", 5, errors.New("disk full"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "Memory write completed", entries[0]["msg"])
	assert.Equal(t, "Memory write failed", entries[1]["msg"])
}

func TestNoOpLoggerImplementsLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}
	logger.Debug("nothing")
	logger.Info("nothing")
	logger.Warn("nothing")
	logger.Error("nothing")
}
