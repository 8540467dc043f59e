package pca9685

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"periph.io/x/conn/v3/physic"
)

// CalculatePrescaleValue returns the PRE_SCALE value for an output
// frequency of updateRateHz, following the datasheet formula
// round(osc / (4096 * rate)) - 1. Results outside a byte saturate to 0 or
// 255. Rates that are not positive and finite are rejected.
func CalculatePrescaleValue(updateRateHz float64) (uint8, error) {
	if math.IsNaN(updateRateHz) || math.IsInf(updateRateHz, 0) || updateRateHz <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidUpdateRate, updateRateHz)
	}
	v := math.Round(OscillatorFreq/(Steps*updateRateHz)) - 1
	switch {
	case v < 0:
		return 0, nil
	case v > math.MaxUint8:
		return math.MaxUint8, nil
	}
	return uint8(v), nil
}

// PrescaleFor is CalculatePrescaleValue for a periph frequency.
func PrescaleFor(f physic.Frequency) (uint8, error) {
	return CalculatePrescaleValue(float64(f) / float64(physic.Hertz))
}

// Controller drives one PCA9685. It owns its Bus for its whole life and is
// not safe for concurrent use; callers sharing a Controller must serialize.
// No chip state is cached, every query goes to the bus.
type Controller struct {
	bus   Bus
	log   *slog.Logger
	delay func(time.Duration)
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDelay replaces time.Sleep for the oscillator waits.
func WithDelay(delay func(time.Duration)) Option {
	return func(c *Controller) {
		if delay != nil {
			c.delay = delay
		}
	}
}

// New takes over bus and puts the chip into a known state: outputs in
// totem pole mode, All Call enabled and the oscillator running. Any bus
// error aborts construction.
func New(bus Bus, opts ...Option) (*Controller, error) {
	c := &Controller{
		bus:   bus,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		delay: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.setUp(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) setUp() error {
	if err := c.bus.WriteRegister(Mode2, OutDrv); err != nil {
		return err
	}
	if err := c.bus.WriteRegister(Mode1, AllCall); err != nil {
		return err
	}
	c.delay(OscillatorSettle)

	mode1, err := c.bus.ReadRegister(Mode1)
	if err != nil {
		return err
	}
	mode1 &^= Sleep
	if err := c.bus.WriteRegister(Mode1, mode1); err != nil {
		return err
	}
	c.delay(OscillatorSettle)

	c.log.Debug("controller initialised", "mode1", hex(mode1), "mode2", hex(OutDrv))
	return nil
}

// SetPWMRate writes prescale to PRE_SCALE. The chip only accepts a new
// prescaler while asleep, so MODE_1 is put to sleep, restored, and after
// the oscillator settles the RESTART bit is set so channel values survive
// later sleeps.
//
// A failure part way leaves the chip in whatever state the completed
// writes produced; in the worst case asleep.
func (c *Controller) SetPWMRate(prescale uint8) error {
	oldMode, err := c.bus.ReadRegister(Mode1)
	if err != nil {
		return err
	}
	c.log.Debug("MODE_1 before sleep", "mode1", hex(oldMode))

	// 0x7F keeps EXTCLK, AI, SUBx and ALLCALL and drops RESTART.
	newMode := (oldMode & 0x7F) | Sleep
	if err := c.bus.WriteRegister(Mode1, newMode); err != nil {
		return err
	}
	c.log.Debug("wrote MODE_1", "mode1", hex(newMode))

	if err := c.bus.WriteRegister(PreScale, prescale); err != nil {
		return err
	}
	c.log.Debug("set output modulation frequency", "prescale", prescale)

	if err := c.bus.WriteRegister(Mode1, oldMode); err != nil {
		return err
	}
	c.log.Debug("restored MODE_1", "mode1", hex(oldMode))

	// RESTART must not be written before the oscillator is stable.
	c.delay(OscillatorSettle)

	restartMode := oldMode | Restart
	if err := c.bus.WriteRegister(Mode1, restartMode); err != nil {
		return err
	}
	c.log.Debug("enabled restart mode", "mode1", hex(restartMode))
	return nil
}

// SetPWMFrequency computes the prescaler for f and applies it.
func (c *Controller) SetPWMFrequency(f physic.Frequency) error {
	prescale, err := PrescaleFor(f)
	if err != nil {
		return err
	}
	return c.SetPWMRate(prescale)
}

func (c *Controller) Mode1() (uint8, error)    { return c.bus.ReadRegister(Mode1) }
func (c *Controller) Mode2() (uint8, error)    { return c.bus.ReadRegister(Mode2) }
func (c *Controller) Prescale() (uint8, error) { return c.bus.ReadRegister(PreScale) }

// SetChannel writes on and off ticks into ch's registers, low byte first.
// See Channel.WriteChannel for what a failed write leaves behind.
func (c *Controller) SetChannel(ch Channel, on, off uint16) error {
	err := ch.WriteChannel(c.bus, splitTicks(on, off))
	if err != nil {
		c.log.Warn("channel write aborted, registers may be partially updated",
			"channel", ch.ChannelIndex(), "registers", ch.Registers().String(), "error", err)
	}
	return err
}

// SetAllChannels writes the ALL_LED registers, overriding every channel.
func (c *Controller) SetAllChannels(on, off uint16) error {
	addrs := [4]uint8{AllLedOnLow, AllLedOnHigh, AllLedOffLow, AllLedOffHigh}
	n, err := writeRegisters(c.bus, addrs, splitTicks(on, off))
	if err != nil {
		c.log.Warn("all channel write aborted", "written", n, "error", err)
	}
	return err
}

// ChannelTicks reads back ch's on and off tick values.
func (c *Controller) ChannelTicks(ch Channel) (on, off uint16, err error) {
	data, err := ch.ReadChannel(c.bus)
	if err != nil {
		return 0, 0, err
	}
	on, off = joinTicks(data)
	return on, off, nil
}

// SetServoAngle moves ch to angle degrees, pulses start at tick 0.
func (c *Controller) SetServoAngle(ch ServoChannel, angle float64) error {
	pulse, err := ch.DegreesToPulseTime(angle)
	if err != nil {
		return err
	}
	return c.SetChannel(ch, 0, pulse)
}

// SetFullOn drives ch permanently high.
func (c *Controller) SetFullOn(ch Channel) error {
	return c.SetChannel(ch, uint16(FullBit)<<8, 0)
}

// SetFullOff drives ch permanently low. Full off wins over full on.
func (c *Controller) SetFullOff(ch Channel) error {
	return c.SetChannel(ch, 0, uint16(FullBit)<<8)
}

// SoftwareReset sends the SWRST general call, which returns every PCA9685
// on the bus to its power-on state, and then reinitialises this chip.
func (c *Controller) SoftwareReset() error {
	r, ok := c.bus.(Resetter)
	if !ok {
		return ErrResetUnsupported
	}
	if err := r.SoftwareReset(); err != nil {
		return err
	}
	c.log.Debug("software reset sent")
	return c.setUp()
}

func hex(v uint8) string { return fmt.Sprintf("0x%02X", v) }
