package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/stakesign/pkg/keyring"
	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
)

// keysRecoverCmd represents the recover command for recovering a key from mnemonic
var keysRecoverCmd = &cobra.Command{
	Use:   "recover [name]",
	Short: "Recover a key using a mnemonic",
	Long: `Recover a key using a BIP39 mnemonic.
This command will derive a key pair from the provided mnemonic and store it in the keyring.

Example:
  stakesign keys recover operator`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd, "keys-recover")

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

		var mnemonic string
		prompt := &survey.Password{
			Message: "Enter your mnemonic phrase:",
			Help:    "Space-separated words (typically 12 or 24 words)",
		}
		if err := survey.AskOne(prompt, &mnemonic, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("failed to read mnemonic: %w", err)
		}

		info, err := keyring.RecoverAccountFromMnemonic(kr, keyName, mnemonic)
		if err != nil {
			logtrace.Error(ctx, "Failed to recover account from mnemonic", logtrace.Fields{
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

		logtrace.Info(ctx, "Key recovered successfully", logtrace.Fields{
			logtrace.FieldModule:  logtrace.ValueKeyring,
			logtrace.FieldKeyName: info.Name,
			logtrace.FieldAddress: address.Hex(),
		})

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Key recovered successfully!")
		fmt.Fprintf(out, "- Name: %s\n", info.Name)
		fmt.Fprintf(out, "- Address: %s\n", address.Hex())

		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysRecoverCmd)
}
