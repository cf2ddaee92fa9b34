package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/stakesign/pkg/keyring"
)

var keysListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List keys and their Ethereum addresses",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kr, err := openKeyring(appConfig)
		if err != nil {
			return err
		}

		records, err := kr.List()
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No keys found.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tADDRESS")
		for _, rec := range records {
			addr, err := keyring.RecordAddress(rec)
			if err != nil {
				fmt.Fprintf(tw, "%s\t<%v>\n", rec.Name, err)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\n", rec.Name, addr.Hex())
		}
		return tw.Flush()
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the Ethereum address of a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyName := appConfig.Keyring.KeyName
		if len(args) > 0 {
			keyName = args[0]
		}
		if keyName == "" {
			return fmt.Errorf("key name is required")
		}

		kr, err := openKeyring(appConfig)
		if err != nil {
			return err
		}

		addr, err := keyring.EthereumAddress(kr, keyName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr.Hex())
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysShowCmd)
}
