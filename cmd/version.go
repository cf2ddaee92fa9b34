package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Version: %s\n", appVersion)
		fmt.Fprintf(out, "Git Commit: %s\n", appGitCommit)
		fmt.Fprintf(out, "Build Time: %s\n", appBuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
