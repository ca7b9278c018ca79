// Package buzzer schedules timed tones on a PWM driven buzzer without ever
// blocking.  A tone is armed with a duration and silenced by a later call to
// Tick once its deadline has passed.
package buzzer

import (
	"fmt"
	"time"
)

// Output is the physical channel a Buzzer drives.  Drive starts a tone and
// Silence sets the output level to zero.  Neither may block.
type Output interface {
	Drive(cfg PWMConfig)
	Silence()
}

// Buzzer is the state of one physical buzzer.  It is not safe for
// concurrent use; the owner serialises calls to Arm and Tick.
type Buzzer struct {
	name     string
	out      Output
	armed    bool
	deadline time.Time
}

// New returns an idle buzzer driving out.  name identifies it in panics.
// The output is silenced so that the idle state and the physical level
// agree from the start.
func New(name string, out Output) *Buzzer {
	out.Silence()
	return &Buzzer{name: name, out: out}
}

// Arm starts a tone that lasts for d from now.  Arming an armed buzzer
// replaces the running tone and deadline.
func (b *Buzzer) Arm(tone PWMConfig, d time.Duration, now time.Time) {
	if d <= 0 {
		panic(fmt.Sprintf("buzzer %s: tone duration must be positive (%v)", b.name, d))
	}
	b.deadline = now.Add(d)
	b.armed = true
	b.out.Drive(tone)
}

// Tick silences the buzzer once its deadline has been reached.  It returns
// true on the call that did the silencing and false otherwise.
func (b *Buzzer) Tick(now time.Time) bool {
	if !b.armed || now.Before(b.deadline) {
		return false
	}
	b.out.Silence()
	b.armed = false
	return true
}

// Armed reports whether a tone is playing.
func (b *Buzzer) Armed() bool {
	return b.armed
}
