package joystick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		raw  uint16
		want Intent
	}{
		{0, Up},
		{999, Up},
		{1000, None},
		{1500, None},
		{2048, None},
		{2100, None},
		{2101, Down},
		{2150, Down},
		{2248, Down},
		{4095, Down},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Classify(tt.raw), "raw %d", tt.raw)
	}
}

func TestDebouncer(t *testing.T) {
	start := time.Unix(500, 0)

	t.Run("two up samples inside the interval give one move", func(t *testing.T) {
		d := NewDebouncer(DefaultConfig())
		accepted := 0
		for _, at := range []time.Duration{0, 599 * time.Millisecond} {
			if _, ok := d.Sample(100, start.Add(at)); ok {
				accepted++
			}
		}
		assert.Equal(t, 1, accepted)
	})

	t.Run("two up samples beyond the interval give two moves", func(t *testing.T) {
		d := NewDebouncer(DefaultConfig())
		accepted := 0
		for _, at := range []time.Duration{0, 601 * time.Millisecond} {
			if intent, ok := d.Sample(100, start.Add(at)); ok {
				assert.Equal(t, Up, intent)
				accepted++
			}
		}
		assert.Equal(t, 2, accepted)
	})

	t.Run("sustained tilt repeats once per interval", func(t *testing.T) {
		d := NewDebouncer(DefaultConfig())
		accepted := 0
		for ms := 0; ms < 3000; ms += 50 {
			if _, ok := d.Sample(4000, start.Add(time.Duration(ms)*time.Millisecond)); ok {
				accepted++
			}
		}
		assert.Equal(t, 5, accepted)
	})

	t.Run("neutral samples do not start the window", func(t *testing.T) {
		d := NewDebouncer(DefaultConfig())
		_, ok := d.Sample(2048, start)
		assert.False(t, ok)
		intent, ok := d.Sample(3000, start.Add(10*time.Millisecond))
		assert.True(t, ok)
		assert.Equal(t, Down, intent)
	})
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.UpThreshold = 3000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DownThreshold = 5000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Center = 2200
	assert.Error(t, cfg.Validate(), "a stick at rest must not move the cursor")

	cfg = DefaultConfig()
	cfg.Interval = 0
	assert.Error(t, cfg.Validate())
}
