//go:build !(linux && (arm || arm64)) || disablegpio

package hal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbraille/internal/buzzer"
	"bitbraille/internal/config"
	"bitbraille/internal/logger"
)

func TestStubBoard(t *testing.T) {
	log := logger.NewEventLogger(filepath.Join(t.TempDir(), "events.log"))
	b, err := Open(config.Default().Pins, log)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, uint16(AxisCenter), b.ReadAxis())

	b.Victory().Drive(buzzer.MustConfigFor(1000))
	b.Victory().Silence()
	b.Defeat().Silence()
	b.SetStatusLED(true)

	lines, err := log.Tail(0)
	require.NoError(t, err)
	require.Len(t, lines, 2, "silencing an idle buzzer is not logged")
	assert.Contains(t, lines[0], "buzzer GPIO21 played 1000 Hz")
	assert.Contains(t, lines[1], "status LED on=true")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	pressed := false
	require.NoError(t, b.WatchButtons(ctx, func() { pressed = true }, func() { pressed = true }))
	assert.False(t, pressed)
}
