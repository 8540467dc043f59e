package io

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// DebounceDuration is the shortest press a Button reports.
const DebounceDuration = 10 * time.Millisecond

// Button is a push button on a pulled-up input, pressed when low.
type Button struct {
	line    *gpiocdev.Line
	mu      sync.Mutex
	pressed bool
	start   time.Duration
	Event   chan ButtonEvent
}

// ButtonEvent is sent when the button is released.
type ButtonEvent struct {
	Duration time.Duration
}

func newButton() *Button {
	return &Button{Event: make(chan ButtonEvent, 1)}
}

// eventHandler works on the kernel timestamps so bursts are measured the
// way the line saw them, not when the handler got scheduled.
func (b *Button) eventHandler(evt gpiocdev.LineEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Falling edge on a pulled-up line is a press.
	if evt.Type == gpiocdev.LineEventFallingEdge {
		if !b.pressed {
			b.pressed = true
			b.start = evt.Timestamp
		}
		return
	}
	if !b.pressed {
		return
	}
	b.pressed = false
	d := evt.Timestamp - b.start
	if d < DebounceDuration {
		return
	}
	select {
	case b.Event <- ButtonEvent{Duration: d}:
	default:
	}
}

// WatchButton requests offset on chip as a pulled-up input watching both
// edges.
func WatchButton(chip string, offset int) (*Button, error) {
	b := newButton()
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.WithConsumer("pwmhat-button"),
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(b.eventHandler),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line: %w", err)
	}
	b.line = line
	return b, nil
}

func (b *Button) Close() error {
	if b.line == nil {
		return nil
	}
	return b.line.Close()
}
