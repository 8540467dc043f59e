package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
)

// Sweeper swings one servo between -90 and 90 degrees.
type Sweeper struct {
	Controller *pca9685.Controller
	Channel    pca9685.ServoChannel
	// Step is the angle increment in degrees; its sign is ignored.
	Step float64
	// Continuous keeps sweeping until the context is cancelled.
	Continuous bool
	// Delay is the pause after each position.
	Delay time.Duration
	Log   *slog.Logger
}

// Run sweeps up and back down, once or until ctx is done, then parks the
// servo in the middle of its range. Cancellation is only checked between
// channel writes. A cancelled sweep is not an error.
func (s *Sweeper) Run(ctx context.Context) error {
	step := math.Abs(s.Step)
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return fmt.Errorf("invalid step size %v", s.Step)
	}
	if s.Log == nil {
		s.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for {
		if err := s.sweepFrom(ctx, pca9685.MinAngle, pca9685.MaxAngle, step); err != nil {
			return err
		}
		if err := s.sweepFrom(ctx, pca9685.MaxAngle, pca9685.MinAngle, -step); err != nil {
			return err
		}
		if !s.Continuous || ctx.Err() != nil {
			break
		}
	}

	neutral := s.Channel.Neutral()
	s.Log.Info("returning servo to neutral", "channel", s.Channel.ChannelIndex(), "pulse", neutral)
	return s.Controller.SetChannel(s.Channel, 0, neutral)
}

// sweepFrom stops short of end, the return sweep starts there.
func (s *Sweeper) sweepFrom(ctx context.Context, start, end, step float64) error {
	for position := start; (start < end && position < end) || (start > end && position > end); position += step {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		pulse, err := s.Channel.DegreesToPulseTime(position)
		if err != nil {
			return err
		}
		if err := s.Controller.SetChannel(s.Channel, 0, pulse); err != nil {
			return fmt.Errorf("failed to move channel %d to %.2f: %w", s.Channel.ChannelIndex(), position, err)
		}
		s.Log.Debug("moved", "angle", position, "pulse", pulse)
		if s.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.Delay):
			}
		}
	}
	return nil
}
