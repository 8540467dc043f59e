package io

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocdev"
)

func press(b *Button, at, release time.Duration) {
	b.eventHandler(gpiocdev.LineEvent{Type: gpiocdev.LineEventFallingEdge, Timestamp: at})
	b.eventHandler(gpiocdev.LineEvent{Type: gpiocdev.LineEventRisingEdge, Timestamp: release})
}

func TestButtonPress(t *testing.T) {
	b := newButton()
	press(b, time.Second, time.Second+250*time.Millisecond)

	select {
	case evt := <-b.Event:
		assert.Equal(t, 250*time.Millisecond, evt.Duration)
	default:
		t.Fatal("no event")
	}
}

func TestButtonDebounce(t *testing.T) {
	b := newButton()
	press(b, time.Second, time.Second+2*time.Millisecond)
	assert.Empty(t, b.Event)
}

func TestButtonBounceDuringPress(t *testing.T) {
	b := newButton()
	b.eventHandler(gpiocdev.LineEvent{Type: gpiocdev.LineEventFallingEdge, Timestamp: 0})
	// A second falling edge does not restart the press.
	b.eventHandler(gpiocdev.LineEvent{Type: gpiocdev.LineEventFallingEdge, Timestamp: 5 * time.Millisecond})
	b.eventHandler(gpiocdev.LineEvent{Type: gpiocdev.LineEventRisingEdge, Timestamp: 40 * time.Millisecond})

	require.Len(t, b.Event, 1)
	assert.Equal(t, 40*time.Millisecond, (<-b.Event).Duration)
}

func TestButtonReleaseWithoutPress(t *testing.T) {
	b := newButton()
	b.eventHandler(gpiocdev.LineEvent{Type: gpiocdev.LineEventRisingEdge, Timestamp: time.Second})
	assert.Empty(t, b.Event)
}

func TestButtonDropsWhenFull(t *testing.T) {
	b := newButton()
	press(b, 0, 100*time.Millisecond)
	press(b, time.Second, 2*time.Second)

	require.Len(t, b.Event, 1)
	assert.Equal(t, 100*time.Millisecond, (<-b.Event).Duration)
	assert.NoError(t, b.Close())
}
