package pca9685_test

import (
	"errors"
	"testing"

	"github.com/Seann-Moser/pwmhat/pkg/io"
	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedChannelNewOverMax(t *testing.T) {
	_, err := pca9685.NewLedChannel(16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pca9685.ErrOutOfRange))
	assert.EqualError(t, err, "channel index 16 out of range (0..15)")
}

func TestLedChannelRawTicks(t *testing.T) {
	ctrl, bus := newController(t)
	ch, err := pca9685.NewLedChannel(9)
	require.NoError(t, err)

	// LED ticks go to the chip untouched, including values a servo range
	// would refuse.
	require.NoError(t, ctrl.SetChannel(ch, 4095, 0))
	got, err := ch.ReadChannel(bus)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0xff, 0x0f, 0x00, 0x00}, got)
}

func TestLedChannelString(t *testing.T) {
	ch, err := pca9685.NewLedChannel(1)
	require.NoError(t, err)
	assert.Equal(t, "LedChannel<ON_L: 0xa, ON_H: 0xb, OFF_L: 0xc, OFF_H: 0xd>", ch.String())

	servo, err := pca9685.NewServoChannel(0)
	require.NoError(t, err)
	assert.Equal(t, "ServoChannel<ON_L: 0x6, ON_H: 0x7, OFF_L: 0x8, OFF_H: 0x9>", servo.String())
}

func TestRangeErrorFormatsFractions(t *testing.T) {
	ch, err := pca9685.NewServoChannel(0)
	require.NoError(t, err)
	_, err = ch.DegreesToPulseTime(90.25)
	assert.EqualError(t, err, "angle 90.2500 out of range (-90..90)")
}

var _ pca9685.Channel = pca9685.LedChannel{}
var _ pca9685.Channel = pca9685.ServoChannel{}
var _ pca9685.Resetter = (*io.Mock)(nil)
