/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Seann-Moser/pwmhat/pkg/controller"
	"github.com/Seann-Moser/pwmhat/pkg/io"
	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"github.com/spf13/cobra"
)

var (
	configFile string
	transport  string
	busName    string
	busNumber  int
	address    string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pwmhat",
	Short: "Drive servos and LEDs on a PCA9685 PWM controller",
	Long: `pwmhat talks to a PCA9685 16-channel PWM controller over I2C.

It converts between servo angles and pulse ticks, sweeps a servo across
its range, resets the chip and serves channel control over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", controller.DefaultConfigFile, "config file")
	pf.StringVarP(&transport, "transport", "t", io.KindPeriph, "bus transport: periph, gobot or mock")
	pf.StringVarP(&busName, "bus", "d", "", "periph I2C bus name, e.g. I2C1 or /dev/i2c-1")
	pf.IntVar(&busNumber, "bus-number", -1, "gobot I2C bus number")
	pf.StringVarP(&address, "address", "s", fmt.Sprintf("0x%02X", pca9685.DefaultAddress), "I2C address (hex) of the PCA9685")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfiguration reads the config file and lets flags that were set on
// the command line win.
func loadConfiguration(cmd *cobra.Command) (controller.Configuration, error) {
	config, err := controller.LoadConfiguration(configFile)
	if err != nil {
		return config, err
	}
	flags := cmd.Flags()
	if flags.Changed("transport") {
		config.Transport = transport
	}
	if flags.Changed("bus") {
		config.Bus = busName
	}
	if flags.Changed("bus-number") {
		config.BusNumber = busNumber
	}
	if flags.Changed("address") {
		config.Address = address
	}
	return config, config.Validate()
}

// openController opens the configured transport and initialises the chip.
// The returned transport must be closed by the caller.
func openController(config controller.Configuration, log *slog.Logger) (*pca9685.Controller, io.Transport, error) {
	ioConfig, err := config.IOConfig()
	if err != nil {
		return nil, nil, err
	}
	bus, err := io.Open(ioConfig)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("opened transport", "transport", ioConfig.Kind, "bus", bus, "address", fmt.Sprintf("0x%02X", ioConfig.Address))

	ctrl, err := pca9685.New(bus, pca9685.WithLogger(log))
	if err != nil {
		_ = bus.Close()
		return nil, nil, fmt.Errorf("failed to initialise controller: %w", err)
	}
	return ctrl, bus, nil
}
