package pca9685

import "fmt"

// Bus reads and writes single byte registers of one device. Errors are
// passed through the driver untouched.
type Bus interface {
	ReadRegister(addr uint8) (uint8, error)
	WriteRegister(addr uint8, value uint8) error
}

// Resetter is implemented by buses able to send the SWRST general call.
type Resetter interface {
	SoftwareReset() error
}

// Index is a channel number in [0,15].
type Index uint8

// NewIndex validates n as a channel index.
func NewIndex(n int) (Index, error) {
	if n < 0 || n >= NumChannels {
		return 0, newRangeError("channel index", 0, NumChannels-1, float64(n))
	}
	return Index(n), nil
}

// RegisterQuad holds the four register addresses of one channel.
type RegisterQuad struct {
	OnLow   uint8
	OnHigh  uint8
	OffLow  uint8
	OffHigh uint8
}

func (q RegisterQuad) OnAddrs() (uint8, uint8)  { return q.OnLow, q.OnHigh }
func (q RegisterQuad) OffAddrs() (uint8, uint8) { return q.OffLow, q.OffHigh }
func (q RegisterQuad) BaseAddress() uint8       { return q.OnLow }

// Addrs returns the addresses in bus order.
func (q RegisterQuad) Addrs() [4]uint8 {
	return [4]uint8{q.OnLow, q.OnHigh, q.OffLow, q.OffHigh}
}

func (q RegisterQuad) String() string {
	return fmt.Sprintf("ON_L: %#x, ON_H: %#x, OFF_L: %#x, OFF_H: %#x",
		q.OnLow, q.OnHigh, q.OffLow, q.OffHigh)
}

// Channel is one PWM output. LedChannel and ServoChannel share the
// addressing through an embedded value and differ only in what they do
// with ticks.
type Channel interface {
	ChannelIndex() Index
	Registers() RegisterQuad
	ReadChannel(bus Bus) ([4]byte, error)
	WriteChannel(bus Bus, data [4]byte) error
}

type addressing struct {
	index Index
}

func (a addressing) ChannelIndex() Index { return a.index }

// RegisterOffset returns base shifted to this channel.
func (a addressing) RegisterOffset(base uint8) uint8 {
	return base + 4*uint8(a.index)
}

func (a addressing) OnLow() uint8   { return a.RegisterOffset(BaseLedOnLow) }
func (a addressing) OnHigh() uint8  { return a.RegisterOffset(BaseLedOnHigh) }
func (a addressing) OffLow() uint8  { return a.RegisterOffset(BaseLedOffLow) }
func (a addressing) OffHigh() uint8 { return a.RegisterOffset(BaseLedOffHigh) }

func (a addressing) OnAddrs() (uint8, uint8)  { return a.OnLow(), a.OnHigh() }
func (a addressing) OffAddrs() (uint8, uint8) { return a.OffLow(), a.OffHigh() }

// BaseAddress is the first register of the channel, LEDn_ON_L.
func (a addressing) BaseAddress() uint8 { return a.OnLow() }

func (a addressing) Registers() RegisterQuad {
	return RegisterQuad{
		OnLow:   a.OnLow(),
		OnHigh:  a.OnHigh(),
		OffLow:  a.OffLow(),
		OffHigh: a.OffHigh(),
	}
}

// ReadChannel reads ON_L, ON_H, OFF_L and OFF_H in that order. The first
// failing read aborts and its error is returned as is.
func (a addressing) ReadChannel(bus Bus) ([4]byte, error) {
	var out [4]byte
	for i, reg := range a.Registers().Addrs() {
		v, err := bus.ReadRegister(reg)
		if err != nil {
			return [4]byte{}, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteChannel writes data to ON_L, ON_H, OFF_L and OFF_H in that order.
//
// The write is not atomic. If a write fails the registers written before
// it keep their new value and nothing is rolled back.
func (a addressing) WriteChannel(bus Bus, data [4]byte) error {
	_, err := writeRegisters(bus, a.Registers().Addrs(), data)
	return err
}

// writeRegisters returns how many registers were written before a failure.
func writeRegisters(bus Bus, addrs [4]uint8, data [4]byte) (int, error) {
	for i, reg := range addrs {
		if err := bus.WriteRegister(reg, data[i]); err != nil {
			return i, err
		}
	}
	return len(addrs), nil
}

// splitTicks lays out on and off low byte first.
func splitTicks(on, off uint16) [4]byte {
	return [4]byte{
		byte(on & 0xFF),
		byte(on >> 8),
		byte(off & 0xFF),
		byte(off >> 8),
	}
}

func joinTicks(data [4]byte) (on, off uint16) {
	on = uint16(data[0]) | uint16(data[1])<<8
	off = uint16(data[2]) | uint16(data[3])<<8
	return on, off
}
