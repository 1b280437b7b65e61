package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var interval time.Duration

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Runs scheduling passes at a fixed interval",
	Long: `Runs a scheduling pass immediately and then at the configured interval until
interrupted. Triggers that arrive while a run is executing are rejected - the
next interval picks up the changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(options.url) == "" {
			return fmt.Errorf("--url is a required option")
		}

		if strings.TrimSpace(options.area) == "" {
			return fmt.Errorf("--range is a required option")
		}

		if interval < time.Minute {
			return fmt.Errorf("invalid interval %v - expected at least 1m", interval)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		reconciler, bot, err := open(ctx)
		if err != nil {
			return err
		}

		runner := NewRunner(reconciler, bot)

		infof("scheduling runs every %v", interval)

		trigger := func(name string) {
			if _, err := runner.Trigger(ctx, name); err != nil && !errors.Is(err, ErrRunInProgress) {
				errorf("%v", err)
			}
		}

		trigger("startup")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				infof("terminated")
				return nil

			case <-ticker.C:
				trigger("interval")
			}
		}
	},
}

func init() {
	daemonCmd.Flags().DurationVar(&interval, "interval", 15*time.Minute, "Interval between scheduling runs")

	rootCmd.AddCommand(daemonCmd)
}
