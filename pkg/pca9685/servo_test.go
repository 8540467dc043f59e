package pca9685_test

import (
	"math"
	"testing"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServoChannelNewOverMax(t *testing.T) {
	_, err := pca9685.NewServoChannel(16)
	require.ErrorIs(t, err, pca9685.ErrOutOfRange)
}

func TestServoChannelNewWithSettings(t *testing.T) {
	settings, err := pca9685.NewServoSettings(510, 2300)
	require.NoError(t, err)
	ch, err := pca9685.NewServoChannelWithSettings(1, settings)
	require.NoError(t, err)

	assert.Equal(t, uint16(510), ch.MinimumValue())
	assert.Equal(t, uint16(2300), ch.MaximumValue())
	assert.Equal(t, pca9685.Index(1), ch.ChannelIndex())
}

func TestServoSettingsValidation(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint16
		quantity string
	}{
		{"max above 12 bits", 0, 4096, "servo maximum"},
		{"min above max", 600, 500, "servo minimum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pca9685.NewServoSettings(tt.min, tt.max)
			var rangeErr *pca9685.RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.quantity, rangeErr.Quantity)

			_, err = pca9685.NewServoChannelWithSettings(0, pca9685.ServoSettings{Min: tt.min, Max: tt.max})
			assert.ErrorIs(t, err, pca9685.ErrOutOfRange)
		})
	}

	s, err := pca9685.NewServoSettings(300, 300)
	require.NoError(t, err)
	assert.Equal(t, pca9685.ServoSettings{Min: 300, Max: 300}, s)
}

func TestDegreesToPulseTime(t *testing.T) {
	narrow, err := pca9685.NewServoChannelWithSettings(0, pca9685.ServoSettings{Min: 150, Max: 600})
	require.NoError(t, err)
	full, err := pca9685.NewServoChannel(0)
	require.NoError(t, err)

	tests := []struct {
		ch    pca9685.ServoChannel
		angle float64
		want  uint16
	}{
		{full, -90, 0},
		{full, 0, 2047},
		{full, 45, 3071},
		{full, 90, 4095},
		{full, -77, 295},
		{narrow, -90, 150},
		{narrow, 0, 375},
		{narrow, 45, 487},
		{narrow, 90, 600},
	}
	for _, tt := range tests {
		got, err := tt.ch.DegreesToPulseTime(tt.angle)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "angle %v with %+v", tt.angle, tt.ch.Settings())
	}
}

func TestPulseTimeToDegrees(t *testing.T) {
	narrow, err := pca9685.NewServoChannelWithSettings(0, pca9685.ServoSettings{Min: 150, Max: 600})
	require.NoError(t, err)

	tests := []struct {
		pulse uint16
		want  float64
	}{
		{150, -90},
		{375, 0},
		{487, 45},
		{600, 90},
		{152, -89},
	}
	for _, tt := range tests {
		got, err := narrow.PulseTimeToDegrees(tt.pulse)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "pulse %d", tt.pulse)
	}
}

func TestDegreePulseRoundTrip(t *testing.T) {
	ch, err := pca9685.NewServoChannel(1)
	require.NoError(t, err)

	for _, angle := range []float64{-90, -77, 0, 45, 90} {
		pulse, err := ch.DegreesToPulseTime(angle)
		require.NoError(t, err)
		degrees, err := ch.PulseTimeToDegrees(pulse)
		require.NoError(t, err)
		assert.InDelta(t, angle, degrees, 1, "angle %v -> pulse %d -> %v", angle, pulse, degrees)
	}
}

func TestPulseDegreeRoundTrip(t *testing.T) {
	ch, err := pca9685.NewServoChannelWithSettings(2, pca9685.ServoSettings{Min: 510, Max: 2300})
	require.NoError(t, err)

	for pulse := uint16(510); pulse <= 2300; pulse += 179 {
		degrees, err := ch.PulseTimeToDegrees(pulse)
		require.NoError(t, err)
		back, err := ch.DegreesToPulseTime(degrees)
		require.NoError(t, err)
		// One degree is about ten ticks on this range.
		assert.InDelta(t, float64(pulse), float64(back), 10, "pulse %d -> %v -> %d", pulse, degrees, back)
	}
}

func TestDegreesOutOfRange(t *testing.T) {
	ch, err := pca9685.NewServoChannel(0)
	require.NoError(t, err)

	for _, angle := range []float64{91, -90.5, math.Inf(1), math.NaN()} {
		_, err := ch.DegreesToPulseTime(angle)
		require.ErrorIs(t, err, pca9685.ErrOutOfRange, "angle %v", angle)
	}

	_, err = ch.DegreesToPulseTime(91)
	var rangeErr *pca9685.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, pca9685.RangeError{Quantity: "angle", Min: -90, Max: 90, Value: 91}, *rangeErr)
	assert.EqualError(t, err, "angle 91 out of range (-90..90)")
}

func TestPulseOutOfRange(t *testing.T) {
	ch, err := pca9685.NewServoChannelWithSettings(0, pca9685.ServoSettings{Min: 510, Max: 2300})
	require.NoError(t, err)

	_, err = ch.PulseTimeToDegrees(ch.MinimumValue() - 1)
	var rangeErr *pca9685.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, pca9685.RangeError{Quantity: "pulse", Min: 510, Max: 2300, Value: 509}, *rangeErr)

	_, err = ch.PulseTimeToDegrees(ch.MaximumValue() + 1)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 2301.0, rangeErr.Value)
}

func TestZeroWidthServoRange(t *testing.T) {
	ch, err := pca9685.NewServoChannelWithSettings(0, pca9685.ServoSettings{Min: 300, Max: 300})
	require.NoError(t, err)

	for _, angle := range []float64{-90, 0, 90} {
		pulse, err := ch.DegreesToPulseTime(angle)
		require.NoError(t, err)
		assert.Equal(t, uint16(300), pulse)
	}
	degrees, err := ch.PulseTimeToDegrees(300)
	require.NoError(t, err)
	assert.Equal(t, -90.0, degrees)
}

func TestNeutral(t *testing.T) {
	full, err := pca9685.NewServoChannel(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(2048), full.Neutral())

	narrow, err := pca9685.NewServoChannelWithSettings(0, pca9685.ServoSettings{Min: 150, Max: 600})
	require.NoError(t, err)
	assert.Equal(t, uint16(375), narrow.Neutral())
}
