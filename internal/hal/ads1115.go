package hal

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3"
)

// The Pi has no analog inputs, so the joystick is read through an ADS1115
// converter on the I2C bus.
const (
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsPGA4096     = 1 << 9 // +/-4.096 V full scale
	adsRate128     = 4 << 5 // 128 samples per second
	adsCompDisable = 0x0003

	// counts read at 3.3 V, the joystick supply, with the 4.096 V scale
	adsCountsAtSupply = 26400
)

type ads1115 struct {
	dev     conn.Conn
	channel int
}

func newADS1115(dev conn.Conn, channel int) (*ads1115, error) {
	if channel < 0 || channel > 3 {
		return nil, fmt.Errorf("ads1115: channel %d does not exist", channel)
	}
	return &ads1115{dev: dev, channel: channel}, nil
}

// configure puts the converter in continuous mode on the joystick channel,
// so that each read is a single register fetch with no conversion wait.
func (a *ads1115) configure() error {
	cfg := uint16(4+a.channel)<<12 | adsPGA4096 | adsRate128 | adsCompDisable
	if err := a.dev.Tx([]byte{adsRegConfig, byte(cfg >> 8), byte(cfg)}, nil); err != nil {
		return fmt.Errorf("ads1115: writing config: %w", err)
	}
	return nil
}

// read returns the latest conversion scaled to 12 bits.
func (a *ads1115) read() (uint16, error) {
	var buf [2]byte
	if err := a.dev.Tx([]byte{adsRegConversion}, buf[:]); err != nil {
		return 0, fmt.Errorf("ads1115: reading conversion: %w", err)
	}
	return scale12(int16(binary.BigEndian.Uint16(buf[:]))), nil
}

func scale12(raw int16) uint16 {
	if raw <= 0 {
		return 0
	}
	v := uint32(raw) * 4095 / adsCountsAtSupply
	if v > 4095 {
		v = 4095
	}
	return uint16(v)
}
