package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/stakesign/pkg/keyring"
	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
)

// keysAddCmd represents the add command for creating a new key
var keysAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new key",
	Long: `Add a new key with the given name.
This command will generate a new mnemonic and derive a key pair from it.
The generated key pair will be stored in the keyring.

Example:
  stakesign keys add operator`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd, "keys-add")

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

		mnemonic, info, err := keyring.CreateNewAccount(kr, keyName, keyring.DefaultEntropySize)
		if err != nil {
			logtrace.Error(ctx, "Failed to create new account", logtrace.Fields{
				logtrace.FieldModule:  logtrace.ValueKeyring,
				logtrace.FieldKeyName: keyName,
				logtrace.FieldError:   err.Error(),
			})
			return err
		}

		address, err := keyring.RecordAddress(info)
		if err != nil {
			return err
		}

		logtrace.Info(ctx, "Key generated successfully", logtrace.Fields{
			logtrace.FieldModule:  logtrace.ValueKeyring,
			logtrace.FieldKeyName: info.Name,
			logtrace.FieldAddress: address.Hex(),
		})

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Key generated successfully!")
		fmt.Fprintf(out, "- Name: %s\n", info.Name)
		fmt.Fprintf(out, "- Address: %s\n", address.Hex())
		fmt.Fprintf(out, "- Mnemonic: %s\n", mnemonic)
		fmt.Fprintln(out, "\nIMPORTANT: Write down the mnemonic and keep it in a safe place.")
		fmt.Fprintln(out, "The mnemonic is the only way to recover your account if you lose the keyring.")

		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysAddCmd)
}
