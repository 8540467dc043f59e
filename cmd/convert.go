package cmd

import (
	"fmt"
	"strconv"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"github.com/spf13/cobra"
)

var (
	servoMin uint16
	servoMax uint16
)

var deg2pwCmd = &cobra.Command{
	Use:   "deg2pw ANGLE",
	Short: "Convert an angle in degrees to a servo pulse in ticks",
	Long: `Convert an angle in [-90, 90] degrees to the pulse tick value for a servo
with the given range. Put negative angles after "--":

  pwmhat deg2pw -m 150 -x 600 -- -45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		angle, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid angle %q: %w", args[0], err)
		}
		channel, err := converterChannel()
		if err != nil {
			return err
		}
		pulse, err := channel.DegreesToPulseTime(angle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "angle %v° -> pulse %d ticks\n", angle, pulse)
		return nil
	},
}

var pw2degCmd = &cobra.Command{
	Use:   "pw2deg PULSE",
	Short: "Convert a servo pulse in ticks to an angle in degrees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pulse, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid pulse %q: %w", args[0], err)
		}
		channel, err := converterChannel()
		if err != nil {
			return err
		}
		angle, err := channel.PulseTimeToDegrees(uint16(pulse))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pulse %d ticks -> angle %v°\n", pulse, angle)
		return nil
	},
}

// converterChannel is channel 0; conversions do not depend on the index.
func converterChannel() (pca9685.ServoChannel, error) {
	settings, err := pca9685.NewServoSettings(servoMin, servoMax)
	if err != nil {
		return pca9685.ServoChannel{}, err
	}
	return pca9685.NewServoChannelWithSettings(0, settings)
}

func init() {
	for _, c := range []*cobra.Command{deg2pwCmd, pw2degCmd} {
		c.Flags().Uint16VarP(&servoMin, "servo-min", "m", 0, "servo pulse minimum value")
		c.Flags().Uint16VarP(&servoMax, "servo-max", "x", pca9685.MaxTick, "servo pulse maximum value")
		rootCmd.AddCommand(c)
	}
}
