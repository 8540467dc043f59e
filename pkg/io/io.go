// Package io provides the hardware a PCA9685 controller talks through:
// register buses over periph.io or gobot, an in-memory bus for tests and
// dry runs, and GPIO lines for the chip's output enable pin and a stop
// button.
package io

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
)

const (
	KindPeriph = "periph"
	KindGobot  = "gobot"
	KindMock   = "mock"
)

// Transport is a register bus that has to be closed when done.
type Transport interface {
	pca9685.Bus
	Close() error
}

type Config struct {
	// Kind selects the transport: periph, gobot or mock.
	Kind string
	// Bus is the periph bus name, e.g. "I2C1" or "/dev/i2c-1".
	Bus string
	// BusNumber is the gobot bus number; -1 uses the adaptor's default.
	BusNumber int
	Address   uint16
}

// Open returns the transport described by cfg.
func Open(cfg Config) (Transport, error) {
	addr := cfg.Address
	if addr == 0 {
		addr = pca9685.DefaultAddress
	}
	switch strings.ToLower(cfg.Kind) {
	case KindPeriph, "":
		return OpenPeriph(cfg.Bus, addr)
	case KindGobot:
		return OpenGobot(cfg.BusNumber, addr)
	case KindMock:
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Kind)
	}
}

// ParseAddress accepts "0x40" style hex, or bare hex digits like "40".
func ParseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if v > 0x7F {
		return 0, fmt.Errorf("address 0x%02X is not a 7-bit I2C address", v)
	}
	return uint16(v), nil
}
