package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/LumeraProtocol/stakesign/pkg/config"
	"github.com/LumeraProtocol/stakesign/pkg/keyring"
	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
	"github.com/LumeraProtocol/stakesign/pkg/provision"
	"github.com/LumeraProtocol/stakesign/pkg/signer"
	"github.com/LumeraProtocol/stakesign/pkg/staking"
	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/spf13/cobra"
)

// NormalizePath expands environment variables and a leading ~.
func NormalizePath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Clean(path), nil
}

// commandContext returns the command context tagged for log correlation.
func commandContext(cmd *cobra.Command, origin string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logtrace.CtxWithOrigin(logtrace.CtxWithCorrelationID(ctx, ""), origin)
}

func openKeyring(cfg *config.Config) (sdkkeyring.Keyring, error) {
	kr, err := keyring.InitKeyring(cfg.Keyring.Backend, cfg.Keyring.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyring: %w", err)
	}
	return kr, nil
}

// loadSigner returns the signing key. A configured private key wins over the
// keyring entry.
func loadSigner(ctx context.Context, cfg *config.Config) (*signer.Signer, error) {
	if cfg.Signer.PrivateKey != "" {
		s, err := signer.FromHex(cfg.Signer.PrivateKey)
		if err != nil {
			return nil, err
		}
		logtrace.Debug(ctx, "Using private key from configuration", logtrace.Fields{
			logtrace.FieldAddress: s.Address().Hex(),
		})
		return s, nil
	}

	if cfg.Keyring.KeyName == "" {
		return nil, fmt.Errorf("no signing key configured: set STAKESIGN_PRIVATE_KEY or keyring.key_name")
	}

	kr, err := openKeyring(cfg)
	if err != nil {
		return nil, err
	}
	s, err := signer.FromKeyring(kr, cfg.Keyring.KeyName)
	if err != nil {
		return nil, err
	}
	logtrace.Debug(ctx, "Using keyring key", logtrace.Fields{
		logtrace.FieldKeyName: cfg.Keyring.KeyName,
		logtrace.FieldAddress: s.Address().Hex(),
	})
	return s, nil
}

func newStakingClient(cfg *config.Config) (*staking.Client, error) {
	return staking.NewClient(staking.Config{
		BaseURL: cfg.StakingAPI.BaseURL,
		APIKey:  cfg.StakingAPI.APIKey,
		Timeout: time.Duration(cfg.StakingAPI.Timeout) * time.Second,
	})
}

// confirmBroadcast asks on the terminal before anything is submitted on chain.
func confirmBroadcast(network string) provision.ConfirmFunc {
	return func(ctx context.Context, res *provision.Result) (bool, error) {
		ok := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Broadcast the signed transaction on %s?", network),
			Default: false,
		}
		if err := survey.AskOne(prompt, &ok); err != nil {
			return false, err
		}
		return ok, nil
	}
}
