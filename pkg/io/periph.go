package io

import (
	"fmt"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus talks to the chip through a periph.io I2C bus.
type PeriphBus struct {
	bus    i2c.Bus
	dev    *i2c.Dev
	closer i2c.BusCloser
}

// OpenPeriph initialises the periph host drivers and opens the named bus.
// An empty name picks the first bus found. Most Raspberry Pi boards use I2C1.
func OpenPeriph(name string, addr uint16) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise periph host: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	p := NewPeriph(b, addr)
	p.closer = b
	return p, nil
}

// NewPeriph wraps an already open bus. The caller keeps ownership of bus.
func NewPeriph(bus i2c.Bus, addr uint16) *PeriphBus {
	return &PeriphBus{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}
}

func (p *PeriphBus) ReadRegister(addr uint8) (uint8, error) {
	r := make([]byte, 1)
	if err := p.dev.Tx([]byte{addr}, r); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (p *PeriphBus) WriteRegister(addr uint8, value uint8) error {
	return p.dev.Tx([]byte{addr, value}, nil)
}

// SoftwareReset sends SWRST on the general call address. Every PCA9685 on
// the bus resets, not just this one.
func (p *PeriphBus) SoftwareReset() error {
	gc := &i2c.Dev{Bus: p.bus, Addr: pca9685.GeneralCallAddress}
	return gc.Tx([]byte{pca9685.SoftwareResetData}, nil)
}

func (p *PeriphBus) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *PeriphBus) String() string {
	return fmt.Sprintf("%s@0x%02X", p.bus, p.dev.Addr)
}
