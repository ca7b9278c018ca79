package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	el := NewEventLogger(path)
	el.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	el.Log("letter %s received", "B")
	el.Log("answer %s\nfor %s", "A", "B")
	el.Log("third")

	lines, err := el.Tail(0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-03-01T12:00:00Z - letter B received",
		"2024-03-01T12:00:00Z - answer A for B",
		"2024-03-01T12:00:00Z - third",
	}, lines)

	lines, err = el.Tail(2)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "third")
}

func TestTail_Missing(t *testing.T) {
	el := NewEventLogger(filepath.Join(t.TempDir(), "none.log"))
	_, err := el.Tail(10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEcho(t *testing.T) {
	var buf bytes.Buffer
	el := NewEventLogger(filepath.Join(t.TempDir(), "events.log"))
	el.Echo(&buf)
	el.Log("hello")
	assert.Contains(t, buf.String(), " - hello\n")

	el.Echo(nil)
	el.Log("quiet")
	assert.NotContains(t, buf.String(), "quiet")
}
