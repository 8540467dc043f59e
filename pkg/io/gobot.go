package io

import (
	"fmt"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"
)

// GobotBus talks to the chip through a gobot i2c connection, which is
// what the Raspberry Pi adaptor hands out.
type GobotBus struct {
	connector i2c.Connector
	conn      i2c.Connection
	bus       int
	addr      int
}

// OpenGobot opens the chip on a Raspberry Pi. A negative bus number uses
// the adaptor's default bus.
func OpenGobot(bus int, addr uint16) (*GobotBus, error) {
	return NewGobot(raspi.NewAdaptor(), bus, addr)
}

func NewGobot(connector i2c.Connector, bus int, addr uint16) (*GobotBus, error) {
	if bus < 0 {
		bus = connector.GetDefaultBus()
	}
	conn, err := connector.GetConnection(int(addr), bus)
	if err != nil {
		return nil, fmt.Errorf("failed to get i2c connection bus=%d addr=0x%02X: %w", bus, addr, err)
	}
	return &GobotBus{
		connector: connector,
		conn:      conn,
		bus:       bus,
		addr:      int(addr),
	}, nil
}

func (g *GobotBus) ReadRegister(addr uint8) (uint8, error) {
	return g.conn.ReadByteData(addr)
}

func (g *GobotBus) WriteRegister(addr uint8, value uint8) error {
	return g.conn.WriteByteData(addr, value)
}

// SoftwareReset sends SWRST on the general call address of the same bus.
func (g *GobotBus) SoftwareReset() error {
	gc, err := g.connector.GetConnection(int(pca9685.GeneralCallAddress), g.bus)
	if err != nil {
		return fmt.Errorf("failed to get general call connection: %w", err)
	}
	return gc.WriteByte(pca9685.SoftwareResetData)
}

func (g *GobotBus) Close() error {
	return g.conn.Close()
}

func (g *GobotBus) String() string {
	return fmt.Sprintf("gobot i2c-%d@0x%02X", g.bus, g.addr)
}
