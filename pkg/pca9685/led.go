package pca9685

import "fmt"

// LedChannel is a channel whose ticks are raw on/off times.
type LedChannel struct {
	addressing
}

func NewLedChannel(n int) (LedChannel, error) {
	idx, err := NewIndex(n)
	if err != nil {
		return LedChannel{}, err
	}
	return LedChannel{addressing{index: idx}}, nil
}

func (c LedChannel) String() string {
	return fmt.Sprintf("LedChannel<%s>", c.Registers())
}
