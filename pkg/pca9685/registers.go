// Package pca9685 drives the NXP PCA9685 16-channel, 12-bit PWM controller
// over a single-register read/write bus.
//
// The package only knows the chip's register layout. Moving bytes on a real
// I2C bus is left to a Bus implementation (see pkg/io).
package pca9685

import (
	"time"

	periphpca "periph.io/x/devices/v3/pca9685"
)

// DefaultAddress is the I2C address of a PCA9685 with all address pins low.
const DefaultAddress = periphpca.I2CAddr

const (
	// OscillatorFreq is the internal oscillator frequency in Hz.
	OscillatorFreq = 25000000.0
	// Steps is the number of ticks in one PWM period.
	Steps = 4096.0
	// MaxTick is the largest 12-bit tick value.
	MaxTick = 4095
	// NumChannels is the number of PWM outputs.
	NumChannels = 16
)

// Registers.
const (
	Mode1      uint8 = 0x00
	Mode2      uint8 = 0x01
	SubAddr1   uint8 = 0x02
	SubAddr2   uint8 = 0x03
	SubAddr3   uint8 = 0x04
	AllCallAdr uint8 = 0x05

	// Per channel registers; add 4*index.
	BaseLedOnLow   uint8 = 0x06
	BaseLedOnHigh  uint8 = 0x07
	BaseLedOffLow  uint8 = 0x08
	BaseLedOffHigh uint8 = 0x09

	AllLedOnLow   uint8 = 0xFA
	AllLedOnHigh  uint8 = 0xFB
	AllLedOffLow  uint8 = 0xFC
	AllLedOffHigh uint8 = 0xFD

	PreScale uint8 = 0xFE
)

// Command bits.
const (
	// Restart keeps channel values across SLEEP (MODE_1 bit 7).
	Restart uint8 = 0x80
	// Sleep turns the oscillator off (MODE_1 bit 4).
	Sleep uint8 = 0x10
	// OutputChange selects output change on ACK instead of STOP (MODE_2).
	OutputChange uint8 = 0x0C
	// AllCall makes the chip answer the LED All Call address (MODE_1 bit 0).
	AllCall uint8 = 0x01
	// Invrt inverts the output logic (MODE_2 bit 4).
	Invrt uint8 = 0x10
	// OutDrv configures totem pole outputs (MODE_2 bit 2).
	OutDrv uint8 = 0x04

	// FullBit is bit 4 of LEDn_ON_H (full on) or LEDn_OFF_H (full off).
	FullBit uint8 = 0x10
)

// Software reset is a general call to address 0x00 carrying a single 0x06.
const (
	GeneralCallAddress uint16 = 0x00
	SoftwareResetData  byte   = 0x06
)

// OscillatorSettle is how long the oscillator needs after waking up.
const OscillatorSettle = 5 * time.Millisecond
