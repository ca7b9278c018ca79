package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		var buf bytes.Buffer
		err := Error(&buf, "Test Error", "This is a test error")
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
		assert.Equal(t, "Test Error\n\nThis is a test error\n", buf.String())
	})

	t.Run("single suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := Error(&buf, "Test Error", "Explanation", "Try this fix")
		require.Equal(t, "Test Error", err.Error())
		assert.Contains(t, buf.String(), "\nTry this fix\n")
		assert.NotContains(t, buf.String(), "Either:")
	})

	t.Run("multiple suggestions are numbered", func(t *testing.T) {
		var buf bytes.Buffer
		err := Error(&buf, "Test Error", "Explanation", "First option", "Second option")
		require.Equal(t, "Test Error", err.Error())
		assert.Contains(t, buf.String(), "Either:\n  1. First option\n  2. Second option\n")
	})
}

func TestSuccess(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "sent %s\n", "B")
	Success(&buf, "✓ already marked\n")
	assert.Equal(t, "✓ sent B\n✓ already marked\n", buf.String())
}
