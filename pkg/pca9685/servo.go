package pca9685

import (
	"fmt"
	"math"
)

const (
	MinAngle = -90.0
	MaxAngle = 90.0

	angleSpan = MaxAngle - MinAngle
)

// ServoSettings is the tick range a servo's travel is mapped onto. The
// logical angle range is always [-90, 90].
type ServoSettings struct {
	Min uint16 `yaml:"min" json:"min"`
	Max uint16 `yaml:"max" json:"max"`
}

// NewServoSettings requires min <= max <= 4095.
func NewServoSettings(lo, hi uint16) (ServoSettings, error) {
	s := ServoSettings{Min: lo, Max: hi}
	if err := s.Validate(); err != nil {
		return ServoSettings{}, err
	}
	return s, nil
}

// DefaultServoSettings spans the whole tick range. That is rarely safe for a
// real servo; most want something around 1ms..2ms of a 20ms period.
func DefaultServoSettings() ServoSettings {
	return ServoSettings{Min: 0, Max: MaxTick}
}

func (s ServoSettings) Validate() error {
	if s.Max > MaxTick {
		return newRangeError("servo maximum", 0, MaxTick, float64(s.Max))
	}
	if s.Min > s.Max {
		return newRangeError("servo minimum", 0, float64(s.Max), float64(s.Min))
	}
	return nil
}

func (s ServoSettings) Range() (uint16, uint16) { return s.Min, s.Max }

// ServoChannel is a channel driving a hobby servo.
type ServoChannel struct {
	addressing
	settings ServoSettings
}

// NewServoChannel uses DefaultServoSettings.
func NewServoChannel(n int) (ServoChannel, error) {
	return NewServoChannelWithSettings(n, DefaultServoSettings())
}

func NewServoChannelWithSettings(n int, settings ServoSettings) (ServoChannel, error) {
	idx, err := NewIndex(n)
	if err != nil {
		return ServoChannel{}, err
	}
	if err := settings.Validate(); err != nil {
		return ServoChannel{}, err
	}
	return ServoChannel{addressing: addressing{index: idx}, settings: settings}, nil
}

func (c ServoChannel) Settings() ServoSettings { return c.settings }
func (c ServoChannel) MinimumValue() uint16    { return c.settings.Min }
func (c ServoChannel) MaximumValue() uint16    { return c.settings.Max }

// Neutral is the tick value halfway through the servo range.
func (c ServoChannel) Neutral() uint16 {
	return c.settings.Max - (c.settings.Max-c.settings.Min)/2
}

// DegreesToPulseTime maps an angle in [-90, 90] onto the servo's tick range.
// The result is truncated towards the minimum tick.
func (c ServoChannel) DegreesToPulseTime(angle float64) (uint16, error) {
	if math.IsNaN(angle) || angle < MinAngle || angle > MaxAngle {
		return 0, newRangeError("angle", MinAngle, MaxAngle, angle)
	}
	lo, hi := c.settings.Range()
	scale := float64(hi-lo) / angleSpan
	normalized := angle - MinAngle
	return lo + uint16(math.Floor(normalized*scale)), nil
}

// PulseTimeToDegrees maps a tick value in [min, max] back to an angle,
// rounded to the nearest whole degree. It is not an exact inverse of
// DegreesToPulseTime; a round trip may be off by one degree.
func (c ServoChannel) PulseTimeToDegrees(ticks uint16) (float64, error) {
	lo, hi := c.settings.Range()
	if ticks < lo || ticks > hi {
		return 0, newRangeError("pulse", float64(lo), float64(hi), float64(ticks))
	}
	if lo == hi {
		return MinAngle, nil
	}
	fraction := float64(ticks-lo) / float64(hi-lo)
	return math.Round(fraction*angleSpan) + MinAngle, nil
}

func (c ServoChannel) String() string {
	return fmt.Sprintf("ServoChannel<%s>", c.Registers())
}
