package io

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// OutputEnable drives the chip's OE pin. The pin is active low: holding it
// high tri-states or blanks every output regardless of channel registers.
type OutputEnable struct {
	line *gpiocdev.Line
}

// OpenOutputEnable requests offset on chip as an output with outputs
// disabled until Enable is called.
func OpenOutputEnable(chip string, offset int) (*OutputEnable, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.WithConsumer("pwmhat-oe"),
		gpiocdev.AsActiveLow,
		gpiocdev.AsOutput(0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request OE line %s:%d: %w", chip, offset, err)
	}
	return &OutputEnable{line: l}, nil
}

func (o *OutputEnable) Enable() error  { return o.set(true) }
func (o *OutputEnable) Disable() error { return o.set(false) }

func (o *OutputEnable) set(enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return o.line.SetValue(v)
}

// Close disables the outputs and releases the line as an input.
func (o *OutputEnable) Close() error {
	_ = o.line.SetValue(0)
	_ = o.line.Reconfigure(gpiocdev.AsInput)
	return o.line.Close()
}
