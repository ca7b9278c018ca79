package hal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbraille/internal/buzzer"
	"bitbraille/internal/logger"
)

func TestToneWriter(t *testing.T) {
	t.Run("drive and silence do not wait for the pin", func(t *testing.T) {
		release := make(chan struct{})
		written := make(chan uint32, 8)
		w := newToneWriter("GPIO21", func(hz uint32) error {
			<-release
			written <- hz
			return nil
		}, nil)

		start := time.Now()
		w.Drive(buzzer.MustConfigFor(1000))
		w.Silence()
		w.Drive(buzzer.MustConfigFor(300))
		assert.Less(t, time.Since(start), 50*time.Millisecond)

		close(release)
		w.Close()
		close(written)
		var got []uint32
		for hz := range written {
			got = append(got, hz)
		}
		// 1000 Hz may or may not have been picked up before it was replaced
		require.GreaterOrEqual(t, len(got), 2)
		assert.LessOrEqual(t, len(got), 3)
		assert.Equal(t, []uint32{buzzer.MustConfigFor(300).Realised(), 0}, got[len(got)-2:],
			"the newest tone is written, then Close silences the pin")
	})

	t.Run("write errors are logged", func(t *testing.T) {
		log := logger.NewEventLogger(filepath.Join(t.TempDir(), "events.log"))
		w := newToneWriter("GPIO10", func(hz uint32) error {
			if hz == 0 {
				return nil
			}
			return errors.New("pin busy")
		}, log)
		w.Drive(buzzer.MustConfigFor(300))
		w.Close()

		lines, err := log.Tail(0)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "buzzer GPIO10: pin busy")
	})
}
