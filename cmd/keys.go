package cmd

import (
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage keys",
	Long: `Manage signing keys in the local keyring.
Keys are derived on the Ethereum path m/44'/60'/0'/0/0.
This command provides subcommands for adding, recovering, and listing keys.`,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
