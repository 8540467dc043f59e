package pca9685

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrOutOfRange matches every *RangeError through errors.Is.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidUpdateRate is returned for a non-positive or non-finite PWM rate.
	ErrInvalidUpdateRate = errors.New("update rate must be a positive finite frequency")
	// ErrResetUnsupported is returned when the bus cannot issue a general call.
	ErrResetUnsupported = errors.New("bus does not support software reset")
)

// RangeError reports a value that fell outside its allowed bounds.
type RangeError struct {
	Quantity string
	Min      float64
	Max      float64
	Value    float64
}

func newRangeError(quantity string, lo, hi, value float64) *RangeError {
	return &RangeError{Quantity: quantity, Min: lo, Max: hi, Value: value}
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s out of range (%s..%s)",
		e.Quantity, formatBound(e.Value), formatBound(e.Min), formatBound(e.Max))
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

func formatBound(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
