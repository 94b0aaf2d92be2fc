package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	l := NewIsolatedLogger(path)

	l.Info("orchestrator", "turn processed", map[string]interface{}{"session_id": "s-1"})
	l.Warn("websearch", "provider failed", map[string]interface{}{"kind": "FallbackUnavailable"})
	l.Error("clinical", "llm call failed", map[string]interface{}{"error": errors.New("boom")})
	require.NoError(t, l.Sync())

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// newest first
	assert.Equal(t, "llm call failed", all[0].Message)
	assert.Equal(t, "boom", all[0].Details["error"])
	assert.Equal(t, "turn processed", all[2].Message)

	assert.Equal(t, "s-1", all[2].SessionId)

	warns, err := l.GetLogs("warn", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "FallbackUnavailable", warns[0].Details["kind"])

	found, err := l.GetLogById(warns[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "provider failed", found.Message)

	page, err := l.GetLogs("", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("any", "ignored", nil)

	logs, err := l.GetLogs("", 10, 0)
	assert.NoError(t, err)
	assert.Empty(t, logs)

	_, err = l.GetLogById("missing")
	assert.ErrorIs(t, err, ErrLogNotFound)
}
