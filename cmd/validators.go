package cmd

import (
	"github.com/spf13/cobra"
)

// validatorsCmd groups validator provisioning commands
var validatorsCmd = &cobra.Command{
	Use:   "validators",
	Short: "Provision validators",
}

func init() {
	rootCmd.AddCommand(validatorsCmd)
}
