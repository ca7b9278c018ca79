// Package hal is the hardware abstraction layer for the trainer board: two
// push buttons, two PWM buzzers, an analog joystick and a status LED.
//
// Open is implemented twice.  hal_rpi.go drives real GPIO through periph.io
// on a Raspberry Pi.  hal_stub.go is used everywhere else (and with the
// build tag "disablegpio") so that the trainer can run and be tested on a
// desktop machine without hardware.
package hal

import (
	"context"

	"bitbraille/internal/buzzer"
)

// Board is the hardware the trainer runs on.
type Board interface {
	// WatchButtons calls primary on each press of button A and secondary on
	// each press of button B until ctx is done.  Callbacks run on the
	// board's own goroutines and must not block.
	WatchButtons(ctx context.Context, primary, secondary func()) error

	// Victory and Defeat are the two buzzer channels.
	Victory() buzzer.Output
	Defeat() buzzer.Output

	// ReadAxis samples the joystick's selection axis, 12 bit.
	ReadAxis() uint16

	// SetStatusLED shows whether the network transport is up.
	SetStatusLED(on bool)

	Close() error
}

// AxisCenter is the reading of a joystick at rest.
const AxisCenter = 2048
