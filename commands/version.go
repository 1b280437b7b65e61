package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", APP, VERSION)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
