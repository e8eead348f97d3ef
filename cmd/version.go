package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is injected from main at startup.
var version = "dev"

// SetVersion records the build version printed by 'parley version'.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the parley version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "parley %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
