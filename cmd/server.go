package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Seann-Moser/pwmhat/pkg/controller"
	"github.com/spf13/cobra"
)

var listenAddr string

// serverCmd represents the serve command
var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve channel control over HTTP",
	Long: `Serve the controller over HTTP:

  GET  /api/status            MODE_1, MODE_2 and PRE_SCALE
  GET  /api/channel?index=N   channel registers and ticks
  POST /api/channel           {"index":N,"on":T,"off":T}
  POST /api/servo             {"index":N,"angle":A}
  POST /api/all               {"on":T,"off":T}
  POST /api/rate              {"hz":F}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		config, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			config.Listen = listenAddr
		}

		ctrl, bus, err := openController(config, log)
		if err != nil {
			return err
		}
		defer bus.Close()
		if err := ctrl.SetPWMFrequency(hertz(config.PWMRate)); err != nil {
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

		if err := controller.NewServer(ctrl, config, log).StartServer(ctx, config.Listen); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "server stopped")
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVar(&listenAddr, "listen", "0.0.0.0:8080", "address to listen on")
	rootCmd.AddCommand(serverCmd)
}
