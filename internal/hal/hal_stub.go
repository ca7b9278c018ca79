//go:build !(linux && (arm || arm64)) || disablegpio

package hal

import (
	"context"
	"sync/atomic"

	"bitbraille/internal/buzzer"
	"bitbraille/internal/config"
	"bitbraille/internal/logger"
)

// stubBoard has no hardware behind it.  The buttons never fire, the
// joystick rests at its centre and buzzer and LED changes are written to the
// event log.  Use the test input endpoint to drive the trainer instead.
type stubBoard struct {
	victory *logOutput
	defeat  *logOutput
	log     *logger.EventLogger
}

// Open returns the desktop stand-in for the board.  It never fails.
func Open(pins config.Pins, log *logger.EventLogger) (Board, error) {
	b := &stubBoard{
		victory: &logOutput{pin: pins.BuzzerA, log: log},
		defeat:  &logOutput{pin: pins.BuzzerB, log: log},
		log:     log,
	}
	return b, nil
}

func (b *stubBoard) WatchButtons(ctx context.Context, primary, secondary func()) error {
	<-ctx.Done()
	return nil
}

func (b *stubBoard) Victory() buzzer.Output { return b.victory }
func (b *stubBoard) Defeat() buzzer.Output  { return b.defeat }

func (b *stubBoard) ReadAxis() uint16 {
	return AxisCenter
}

func (b *stubBoard) SetStatusLED(on bool) {
	b.log.Log("status LED on=%t", on)
}

func (b *stubBoard) Close() error {
	return nil
}

// logOutput records tones instead of playing them.  Drive is called from
// button handlers, so it only counts; the tone is logged by Silence.
type logOutput struct {
	pin    int
	log    *logger.EventLogger
	driven atomic.Uint32
	freq   atomic.Uint32
}

func (o *logOutput) Drive(cfg buzzer.PWMConfig) {
	o.driven.Add(1)
	o.freq.Store(cfg.Realised())
}

func (o *logOutput) Silence() {
	if f := o.freq.Swap(0); f != 0 {
		o.log.Log("buzzer GPIO%d played %d Hz", o.pin, f)
	}
}
