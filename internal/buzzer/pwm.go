package buzzer

import "fmt"

const (
	// SystemClock is the PWM source clock in Hz.
	SystemClock = 125000000

	// Divider is the fixed clock divider applied to every tone.
	Divider = 100

	// MaxWrap is the largest counter top a 16 bit PWM slice can hold.
	MaxWrap = 0xffff
)

// PWMConfig is a realised tone: the counter wraps every Wrap+1 divided clock
// ticks and the output is high for the first Level of them.
type PWMConfig struct {
	Frequency uint32 // requested frequency in Hz
	Divider   uint32
	Wrap      uint32
	Level     uint32
}

// Realised returns the frequency the hardware actually produces, which
// differs from the requested one by the integer rounding of Wrap.
func (c PWMConfig) Realised() uint32 {
	if c.Divider == 0 {
		return 0
	}
	return SystemClock / (c.Divider * (c.Wrap + 1))
}

// ConfigFor computes the divider, wrap and 50% duty level for freq.  The
// period must be a whole number of ticks that fits the 16 bit counter;
// frequencies outside that window return an error.
func ConfigFor(freq uint32) (PWMConfig, error) {
	if freq == 0 {
		return PWMConfig{}, fmt.Errorf("tone frequency must be above zero")
	}
	ticks := uint64(SystemClock) / (uint64(Divider) * uint64(freq))
	if ticks < 2 {
		return PWMConfig{}, fmt.Errorf("tone frequency %d Hz is too high for the PWM clock", freq)
	}
	wrap := ticks - 1
	if wrap > MaxWrap {
		return PWMConfig{}, fmt.Errorf("tone frequency %d Hz is too low for the PWM counter", freq)
	}
	return PWMConfig{
		Frequency: freq,
		Divider:   Divider,
		Wrap:      uint32(wrap),
		Level:     uint32(wrap / 2),
	}, nil
}

// MustConfigFor is like ConfigFor but panics on error.  Tone frequencies are
// constants so a failure here is a programming error.
func MustConfigFor(freq uint32) PWMConfig {
	cfg, err := ConfigFor(freq)
	if err != nil {
		panic(err)
	}
	return cfg
}
