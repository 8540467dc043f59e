package io

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/warthog618/go-gpiocdev/device/rpi"
)

// DefaultChip is the GPIO chip of the Raspberry Pi header.
const DefaultChip = "gpiochip0"

// ParseLine resolves a GPIO line given as an offset ("17"), a BCM name
// ("GPIO17") or a header pin ("J8p11").
func ParseLine(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty line")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("invalid line offset %d", n)
		}
		return n, nil
	}
	n, err := rpi.Pin(s)
	if err != nil {
		return 0, fmt.Errorf("unknown line %q: %w", s, err)
	}
	return n, nil
}
