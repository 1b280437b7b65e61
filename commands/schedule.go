package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dryRun bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs a single scheduling pass over the worksheet",
	Long: `Reads the webinar roster from the worksheet, creates or updates the flagged
webinars and writes the results back. Runs once and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(options.url) == "" {
			return fmt.Errorf("--url is a required option")
		}

		if strings.TrimSpace(options.area) == "" {
			return fmt.Errorf("--range is a required option")
		}

		ctx := cmd.Context()

		reconciler, bot, err := open(ctx)
		if err != nil {
			return err
		}

		reconciler.DryRun = dryRun

		runner := NewRunner(reconciler, bot)

		summary, err := runner.Trigger(ctx, "manual")
		if err != nil {
			return err
		}

		if len(summary.Failed) > 0 {
			return fmt.Errorf("%v row(s) could not be scheduled", len(summary.Failed))
		}

		if summary.WriteBack != nil {
			return summary.WriteBack
		}

		return nil
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Logs the changes that would be made without making them")

	rootCmd.AddCommand(scheduleCmd)
}
