package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Send a software reset and reinitialise the controller",
	Long: `Send the SWRST general call. Every PCA9685 on the bus returns to its
power-on state, then this controller is initialised again and its PWM
rate restored from the configuration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		config, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}
		ctrl, bus, err := openController(config, log)
		if err != nil {
			return err
		}
		defer bus.Close()

		if err := ctrl.SoftwareReset(); err != nil {
			return fmt.Errorf("software reset failed: %w", err)
		}
		if err := ctrl.SetPWMFrequency(hertz(config.PWMRate)); err != nil {
			return fmt.Errorf("failed to set pwm rate: %w", err)
		}
		mode1, err := ctrl.Mode1()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "controller reset, MODE_1=0x%02X\n", mode1)
		return nil
	},
}

func hertz(f float64) physic.Frequency {
	return physic.Frequency(f * float64(physic.Hertz))
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
