package cmd

import (
	"github.com/LumeraProtocol/stakesign/pkg/provision"
	"github.com/spf13/cobra"
)

// signCmd signs an arbitrary transaction hash offline
var signCmd = &cobra.Command{
	Use:   "sign [hash]",
	Short: "Sign a transaction hash with the local key",
	Long: `Sign a 32-byte hex transaction hash with the configured key. No network
calls are made.

Example:
  stakesign sign 0x8d1a...e5f6`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd, "sign")

		s, err := loadSigner(ctx, appConfig)
		if err != nil {
			return err
		}

		_, err = provision.New(nil, s, provision.WithOutput(cmd.OutOrStdout())).SignHash(ctx, args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
}
