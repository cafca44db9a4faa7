package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()

	l := NewLogger(t.TempDir())
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	l.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return l
}

func TestLoggerAppendAndList(t *testing.T) {
	l := newTestLogger(t)

	require.NoError(t, l.LogSuccess(OpShow, SourceCLI, "web/github"))
	require.NoError(t, l.LogError(OpDelete, SourceCLI, "web/gone", "exit status 1"))

	events, err := l.ListEvents(0, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, OpShow, events[0].Operation)
	assert.Equal(t, ResultSuccess, events[0].Result)
	assert.Equal(t, "web/github", events[0].Path)
	assert.Empty(t, events[0].Error)

	assert.Equal(t, OpDelete, events[1].Operation)
	assert.Equal(t, ResultError, events[1].Result)
	assert.Equal(t, "exit status 1", events[1].Error)
}

func TestLoggerLimitKeepsMostRecent(t *testing.T) {
	l := newTestLogger(t)
	for _, path := range []string{"a", "b", "c", "d"} {
		require.NoError(t, l.LogSuccess(OpShow, SourceCLI, path))
	}

	events, err := l.ListEvents(2, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "c", events[0].Path)
	assert.Equal(t, "d", events[1].Path)
}

func TestLoggerSinceFilter(t *testing.T) {
	l := newTestLogger(t)
	require.NoError(t, l.LogSuccess(OpShow, SourceCLI, "old"))
	require.NoError(t, l.LogSuccess(OpShow, SourceCLI, "new"))

	events, err := l.ListEvents(0, time.Date(2026, 3, 1, 10, 1, 30, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Path)
}

func TestLoggerSkipsCorruptLines(t *testing.T) {
	l := newTestLogger(t)
	require.NoError(t, l.LogSuccess(OpShow, SourceCLI, "a"))

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("not json at all\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, l.LogSuccess(OpShow, SourceCLI, "b"))

	events, err := l.ListEvents(0, time.Time{})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestLoggerFilePermissions(t *testing.T) {
	l := newTestLogger(t)
	require.NoError(t, l.LogSuccess(OpShow, SourceCLI, "a"))

	info, err := os.Stat(l.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger

	assert.NoError(t, l.LogSuccess(OpShow, SourceCLI, "a"))
	assert.NoError(t, l.LogError(OpShow, SourceCLI, "a", "boom"))

	events, err := l.ListEvents(0, time.Time{})
	assert.NoError(t, err)
	assert.Nil(t, events)
}

func TestListEventsMissingFile(t *testing.T) {
	l := NewLogger(filepath.Join(t.TempDir(), "never-written"))

	events, err := l.ListEvents(10, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, events)
}
