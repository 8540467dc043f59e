/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Seann-Moser/pwmhat/pkg/controller"
	"github.com/Seann-Moser/pwmhat/pkg/io"
	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"github.com/spf13/cobra"
)

var (
	sweepRate       float64
	sweepChannel    int
	sweepMin        uint16
	sweepMax        uint16
	sweepStep       float64
	sweepContinuous bool
	sweepDelay      time.Duration
	sweepMock       bool
	sweepOELine     string
	sweepStopLine   string
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep a servo from -90 to 90 degrees and back",
	Long: `Sweep a servo across its range, once or continuously, and leave it at
the middle of its range. Ctrl-C or the optional stop button ends the sweep
between two moves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		config, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if sweepMock {
			config.Transport = io.KindMock
		}
		if flags.Changed("pwm-rate") {
			config.PWMRate = sweepRate
		}
		channel, err := config.Servo(sweepChannel)
		if err != nil {
			return err
		}
		if flags.Changed("servo-min") || flags.Changed("servo-max") {
			settings := channel.Settings()
			if flags.Changed("servo-min") {
				settings.Min = sweepMin
			}
			if flags.Changed("servo-max") {
				settings.Max = sweepMax
			}
			if channel, err = pca9685.NewServoChannelWithSettings(sweepChannel, settings); err != nil {
				return err
			}
		}
		if config.Transport != io.KindMock {
			log.Warn("using real i2c device", "address", config.Address)
		}

		ctrl, bus, err := openController(config, log)
		if err != nil {
			return err
		}
		defer bus.Close()

		prescale, err := pca9685.CalculatePrescaleValue(config.PWMRate)
		if err != nil {
			return err
		}
		if err := ctrl.SetPWMRate(prescale); err != nil {
			return fmt.Errorf("failed to set pwm rate: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
		go func() {
			select {
			case <-sigs:
				cancel()
			case <-ctx.Done():
			}
		}()

		if line := lineConfig(sweepOELine, config.OutputEnable); line != nil {
			chip, offset, err := line.Resolve()
			if err != nil {
				return err
			}
			oe, err := io.OpenOutputEnable(chip, offset)
			if err != nil {
				return err
			}
			defer oe.Close()
			if err := oe.Enable(); err != nil {
				return err
			}
		}
		if line := lineConfig(sweepStopLine, config.StopButton); line != nil {
			chip, offset, err := line.Resolve()
			if err != nil {
				return err
			}
			button, err := io.WatchButton(chip, offset)
			if err != nil {
				return err
			}
			defer button.Close()
			go func() {
				select {
				case evt := <-button.Event:
					log.Info("stop button pressed", "duration", evt.Duration)
					cancel()
				case <-ctx.Done():
				}
			}()
		}

		sweeper := &controller.Sweeper{
			Controller: ctrl,
			Channel:    channel,
			Step:       sweepStep,
			Continuous: sweepContinuous,
			Delay:      sweepDelay,
			Log:        log,
		}
		if err := sweeper.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sweep finished")
		return nil
	},
}

// lineConfig prefers the flag value over the config file.
func lineConfig(flag string, fromConfig *controller.LineConfig) *controller.LineConfig {
	if flag != "" {
		return &controller.LineConfig{Line: flag}
	}
	return fromConfig
}

func init() {
	f := sweepCmd.Flags()
	f.Float64VarP(&sweepRate, "pwm-rate", "p", 60, "PWM controller oscillation rate in Hz")
	f.IntVarP(&sweepChannel, "channel", "c", 0, "servo channel to sweep")
	f.Uint16VarP(&sweepMin, "servo-min", "m", 0, "servo pulse minimum value")
	f.Uint16VarP(&sweepMax, "servo-max", "x", pca9685.MaxTick, "servo pulse maximum value")
	f.Float64VarP(&sweepStep, "step-size", "z", 1.0, "angle step size")
	f.BoolVarP(&sweepContinuous, "continuous", "C", false, "continuously sweep servo")
	f.DurationVar(&sweepDelay, "delay", 10*time.Millisecond, "pause after each step")
	f.BoolVarP(&sweepMock, "mock", "M", false, "use the in-memory bus instead of a real device")
	f.StringVar(&sweepOELine, "oe-line", "", "GPIO line wired to the OE pin, e.g. GPIO17")
	f.StringVar(&sweepStopLine, "stop-line", "", "GPIO line of a stop button, e.g. GPIO26")
	rootCmd.AddCommand(sweepCmd)
}
