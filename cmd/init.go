package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/stakesign/pkg/config"
	"github.com/LumeraProtocol/stakesign/pkg/keyring"
)

var (
	forceInit bool
	skipKey   bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stakesign configuration",
	Long: `Initialize stakesign by creating a configuration file and setting up a signing key.

This command will guide you through an interactive setup process to:
1. Choose the Ethereum network and provisioning region
2. Configure the staking API endpoint
3. Select keyring backend (test, file, or os)
4. Create a new key or recover one from a mnemonic

The API key is read from STAKESIGN_API_KEY at run time and is not stored.

Example:
  stakesign init
  stakesign init --force  # Override existing configuration`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := NormalizePath(cfgFile)
		if err != nil {
			return err
		}
		if path == "" || path == "." {
			path = config.DefaultConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("configuration already exists at %s\nUse --force to overwrite", path)
		}

		cfg := config.DefaultConfig()
		if err := promptNetworkConfig(cfg); err != nil {
			return fmt.Errorf("failed to configure network settings: %w", err)
		}

		backend, keyName, err := promptKeyringConfig()
		if err != nil {
			return fmt.Errorf("failed to configure keyring: %w", err)
		}
		cfg.Keyring.Backend = backend
		cfg.Keyring.KeyName = keyName

		if err := cfg.Validate(); err != nil {
			return err
		}

		if !skipKey && keyName != "" {
			address, err := setupKey(cmd, cfg, filepath.Dir(path))
			if err != nil {
				return err
			}
			if err := promptAddresses(cfg, address); err != nil {
				return fmt.Errorf("failed to configure addresses: %w", err)
			}
		}

		if err := config.SaveConfig(cfg, path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nConfiguration saved to %s\n", path)
		fmt.Fprintln(out, "Export your staking API key and create validators with:")
		fmt.Fprintln(out, "  export STAKESIGN_API_KEY=<key>")
		fmt.Fprintln(out, "  stakesign validators create")
		return nil
	},
}

// setupKey creates or recovers the signing key in a keyring rooted next to
// the config file and returns its address.
func setupKey(cmd *cobra.Command, cfg *config.Config, baseDir string) (common.Address, error) {
	dir := cfg.Keyring.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}

	if forceInit {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			return common.Address{}, fmt.Errorf("failed to remove existing keys directory: %w", err)
		}
	}

	kr, err := keyring.InitKeyring(cfg.Keyring.Backend, dir)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to initialize keyring: %w", err)
	}

	var recoverKey bool
	if err := survey.AskOne(&survey.Confirm{
		Message: "Recover an existing key from mnemonic?",
		Default: false,
	}, &recoverKey); err != nil {
		return common.Address{}, err
	}

	out := cmd.OutOrStdout()
	if recoverKey {
		var mnemonic string
		if err := survey.AskOne(&survey.Password{
			Message: "Enter your mnemonic phrase:",
			Help:    "Space-separated words (typically 12 or 24 words)",
		}, &mnemonic, survey.WithValidator(survey.Required)); err != nil {
			return common.Address{}, err
		}

		info, err := keyring.RecoverAccountFromMnemonic(kr, cfg.Keyring.KeyName, mnemonic)
		if err != nil {
			return common.Address{}, err
		}
		address, err := keyring.RecordAddress(info)
		if err != nil {
			return common.Address{}, err
		}
		fmt.Fprintf(out, "Key recovered successfully! Name: %s, Address: %s\n", info.Name, address.Hex())
		return address, nil
	}

	mnemonic, info, err := keyring.CreateNewAccount(kr, cfg.Keyring.KeyName, keyring.DefaultEntropySize)
	if err != nil {
		return common.Address{}, err
	}
	address, err := keyring.RecordAddress(info)
	if err != nil {
		return common.Address{}, err
	}
	fmt.Fprintf(out, "Key generated successfully! Name: %s, Address: %s, Mnemonic: %s\n", info.Name, address.Hex(), mnemonic)
	fmt.Fprintln(out, "\nIMPORTANT: Write down the mnemonic and keep it in a safe place.")
	fmt.Fprintln(out, "Fund this address before broadcasting a staking transaction.")
	return address, nil
}

func promptNetworkConfig(cfg *config.Config) error {
	if err := survey.AskOne(&survey.Select{
		Message: "Choose Ethereum network:",
		Options: config.SupportedNetworks,
		Default: cfg.Network,
	}, &cfg.Network); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Provisioning region:",
		Default: cfg.Region,
	}, &cfg.Region, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	var count string
	if err := survey.AskOne(&survey.Input{
		Message: "Default number of validators:",
		Default: strconv.Itoa(cfg.ValidatorsCount),
	}, &count, survey.WithValidator(func(ans interface{}) error {
		n, err := strconv.Atoi(ans.(string))
		if err != nil || n < 1 {
			return fmt.Errorf("enter a positive integer")
		}
		return nil
	})); err != nil {
		return err
	}
	cfg.ValidatorsCount, _ = strconv.Atoi(count)

	return survey.AskOne(&survey.Input{
		Message: "Staking API base URL:",
		Default: cfg.StakingAPI.BaseURL,
	}, &cfg.StakingAPI.BaseURL, survey.WithValidator(survey.Required))
}

func promptKeyringConfig() (string, string, error) {
	var backend string
	if err := survey.AskOne(&survey.Select{
		Message: "Choose keyring backend:",
		Options: []string{"test", "file", "os"},
		Default: config.DefaultKeyringBackend,
		Help:    "test: unencrypted on disk (development only); file: encrypted on disk; os: system keychain",
	}, &backend); err != nil {
		return "", "", err
	}

	var keyName string
	if err := survey.AskOne(&survey.Input{
		Message: "Enter key name:",
		Default: "operator",
	}, &keyName, survey.WithValidator(survey.Required)); err != nil {
		return "", "", err
	}
	return backend, keyName, nil
}

// promptAddresses fills the default withdrawal, funding and fee recipient
// addresses, offering the signing address for each.
func promptAddresses(cfg *config.Config, self common.Address) error {
	validator := func(ans interface{}) error {
		if s, _ := ans.(string); !common.IsHexAddress(s) {
			return fmt.Errorf("%q is not a valid Ethereum address", s)
		}
		return nil
	}

	for _, q := range []struct {
		msg string
		dst *string
	}{
		{"Withdrawal address:", &cfg.Addresses.Withdrawal},
		{"Funding address:", &cfg.Addresses.Funding},
		{"Fee recipient address:", &cfg.Addresses.FeeRecipient},
	} {
		if err := survey.AskOne(&survey.Input{
			Message: q.msg,
			Default: self.Hex(),
		}, q.dst, survey.WithValidator(validator)); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Override existing configuration and keys")
	initCmd.Flags().BoolVar(&skipKey, "skip-key", false, "Do not create or recover a key")
}
