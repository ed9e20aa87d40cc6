package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLogsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l := NewIsolatedLogger(path)
	l.Info("UPLOAD", "first", nil)
	l.Warn("QUERY", "second", map[string]interface{}{"user_id": "u1"})
	l.Error("UPLOAD", "third", map[string]interface{}{"error": "boom"})
	require.NoError(t, l.Sync())

	all, err := ReadLogs(path, "", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, "first", all[2].Message)

	uploads, err := ReadLogs(path, "", "UPLOAD", 1)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "third", uploads[0].Message)

	warns, err := ReadLogs(path, "WARN", "", 10)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "u1", warns[0].Details["user_id"])
}

func TestReadLogsMissingFile(t *testing.T) {
	entries, err := ReadLogs(filepath.Join(os.TempDir(), "does-not-exist.log"), "", "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
