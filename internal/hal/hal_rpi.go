//go:build linux && (arm || arm64) && !disablegpio

package hal

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"bitbraille/internal/buzzer"
	"bitbraille/internal/config"
	"bitbraille/internal/logger"
)

// edgeWait bounds each wait for a button edge so that WatchButtons notices
// cancellation.
const edgeWait = 100 * time.Millisecond

type piBoard struct {
	buttonA  gpio.PinIO
	buttonB  gpio.PinIO
	led      gpio.PinIO
	victory  *toneWriter
	defeat   *toneWriter
	bus      i2c.BusCloser
	adc      *ads1115
	lastAxis atomic.Uint32
	log      *logger.EventLogger
}

// pinByNumber looks a GPIO up by its BCM number.
func pinByNumber(n int) (gpio.PinIO, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if p == nil {
		return nil, fmt.Errorf("GPIO%d not found", n)
	}
	return p, nil
}

// Open initialises periph host state and claims the board's pins.  The
// buttons are pulled up and report falling edges, so a press pulls them low.
func Open(pins config.Pins, log *logger.EventLogger) (Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialising periph host: %w", err)
	}

	b := &piBoard{log: log}
	var err error
	if b.buttonA, err = pinByNumber(pins.ButtonA); err != nil {
		return nil, err
	}
	if b.buttonB, err = pinByNumber(pins.ButtonB); err != nil {
		return nil, err
	}
	for _, p := range []gpio.PinIO{b.buttonA, b.buttonB} {
		if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("configuring button %s: %w", p, err)
		}
	}

	if b.led, err = pinByNumber(pins.StatusLED); err != nil {
		return nil, err
	}
	if err := b.led.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configuring status LED: %w", err)
	}

	buzzerA, err := pinByNumber(pins.BuzzerA)
	if err != nil {
		return nil, err
	}
	buzzerB, err := pinByNumber(pins.BuzzerB)
	if err != nil {
		return nil, err
	}

	if b.bus, err = i2creg.Open(pins.I2CBus); err != nil {
		return nil, fmt.Errorf("opening I2C bus %q: %w", pins.I2CBus, err)
	}
	adc, err := newADS1115(&i2c.Dev{Bus: b.bus, Addr: pins.ADCAddress}, pins.JoystickChannel)
	if err != nil {
		b.bus.Close()
		return nil, err
	}
	if err := adc.configure(); err != nil {
		b.bus.Close()
		return nil, err
	}
	b.adc = adc
	b.lastAxis.Store(AxisCenter)
	b.victory = newToneWriter(buzzerA.String(), pwmTone(buzzerA), log)
	b.defeat = newToneWriter(buzzerB.String(), pwmTone(buzzerB), log)
	return b, nil
}

// WatchButtons waits for edges on both buttons.  An edge only counts if the
// pin still reads low, which drops most of the bounce on release.
func (b *piBoard) WatchButtons(ctx context.Context, primary, secondary func()) error {
	var wg sync.WaitGroup
	watch := func(p gpio.PinIO, fn func()) {
		defer wg.Done()
		for ctx.Err() == nil {
			if p.WaitForEdge(edgeWait) && p.Read() == gpio.Low {
				fn()
			}
		}
	}
	wg.Add(2)
	go watch(b.buttonA, primary)
	go watch(b.buttonB, secondary)
	wg.Wait()
	return nil
}

func (b *piBoard) Victory() buzzer.Output { return b.victory }
func (b *piBoard) Defeat() buzzer.Output  { return b.defeat }

// ReadAxis returns the last good sample if the converter cannot be read.
func (b *piBoard) ReadAxis() uint16 {
	v, err := b.adc.read()
	if err != nil {
		b.log.Log("joystick: %v", err)
		return uint16(b.lastAxis.Load())
	}
	b.lastAxis.Store(uint32(v))
	return v
}

func (b *piBoard) SetStatusLED(on bool) {
	if err := b.led.Out(gpio.Level(on)); err != nil {
		b.log.Log("status LED: %v", err)
	}
}

// Close silences both buzzers, turns the LED off and releases the bus.
func (b *piBoard) Close() error {
	b.victory.Close()
	b.defeat.Close()
	b.SetStatusLED(false)
	for _, p := range []gpio.PinIO{b.buttonA, b.buttonB} {
		_ = p.Halt()
	}
	return b.bus.Close()
}

// pwmTone returns the pin write behind a buzzer: a square wave at hz, or
// low when hz is 0.
func pwmTone(pin gpio.PinIO) func(hz uint32) error {
	return func(hz uint32) error {
		if hz == 0 {
			return pin.Out(gpio.Low)
		}
		return pin.PWM(gpio.DutyHalf, physic.Frequency(hz)*physic.Hertz)
	}
}
