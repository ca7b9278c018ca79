// Package joystick turns raw analog samples from one joystick axis into
// discrete up and down moves at a bounded rate.
package joystick

import (
	"fmt"
	"time"
)

// Intent is the discrete meaning of a sample.
type Intent int

const (
	None Intent = iota
	Up
	Down
)

func (i Intent) String() string {
	switch i {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "none"
}

// Config describes the axis.  Samples are 12 bit (0 to 4095).
type Config struct {
	// samples below UpThreshold mean up, above DownThreshold mean down,
	// anything in between is neutral
	UpThreshold   uint16
	DownThreshold uint16

	// reading of the stick at rest, which must fall in the neutral band
	Center uint16

	// minimum time between two accepted moves
	Interval time.Duration
}

// DefaultConfig matches the joystick module wired to the trainer board.
func DefaultConfig() Config {
	return Config{
		UpThreshold:   1000,
		DownThreshold: 2100,
		Center:        2048,
		Interval:      600 * time.Millisecond,
	}
}

// Validate checks that the thresholds leave a neutral band and that the
// interval is usable.
func (c Config) Validate() error {
	if c.UpThreshold >= c.DownThreshold {
		return fmt.Errorf("joystick up threshold (%d) must be below the down threshold (%d)", c.UpThreshold, c.DownThreshold)
	}
	if c.Center < c.UpThreshold || c.Center > c.DownThreshold {
		return fmt.Errorf("joystick centre (%d) must lie between the thresholds (%d to %d)", c.Center, c.UpThreshold, c.DownThreshold)
	}
	if c.DownThreshold > 4095 {
		return fmt.Errorf("joystick down threshold (%d) is outside the 12 bit range", c.DownThreshold)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("joystick interval must be positive")
	}
	return nil
}

// Classify maps a raw sample onto an intent, ignoring timing.
func (c Config) Classify(raw uint16) Intent {
	switch {
	case raw < c.UpThreshold:
		return Up
	case raw > c.DownThreshold:
		return Down
	}
	return None
}

// Debouncer rate limits moves.  A tilt held past a threshold produces one
// move per interval rather than one per sample.  It is not safe for
// concurrent use and is owned by the main loop.
type Debouncer struct {
	cfg   Config
	last  time.Time
	moved bool
}

// NewDebouncer returns a debouncer that will accept its first move
// immediately.
func NewDebouncer(cfg Config) *Debouncer {
	return &Debouncer{cfg: cfg}
}

// Sample classifies raw and reports whether it should be acted on.  Samples
// arriving within the interval of the last accepted move are discarded,
// whatever their value.
func (d *Debouncer) Sample(raw uint16, now time.Time) (Intent, bool) {
	if d.moved && now.Sub(d.last) < d.cfg.Interval {
		return None, false
	}
	intent := d.cfg.Classify(raw)
	if intent == None {
		return None, false
	}
	d.last = now
	d.moved = true
	return intent, true
}
