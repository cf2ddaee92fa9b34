package cmd

import (
	"fmt"
	"os"

	"github.com/LumeraProtocol/stakesign/pkg/config"
	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
	"github.com/spf13/cobra"
)

var (
	// Version info passed from main
	appVersion   string
	appGitCommit string
	appBuildTime string

	cfgFile   string
	debug     bool
	appConfig *config.Config
)

// skipConfig lists commands that run without loading the config file.
var skipConfig = map[string]bool{
	"init":    true,
	"version": true,
	"help":    true,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stakesign",
	Short: "Create Ethereum validators through a staking API and sign locally",
	Long: `stakesign requests new validators from a staking provider, extracts the
unsigned staking transaction from the response and signs its hash with a
locally held key. The signed transaction can optionally be broadcast.

Keys can come from a hex private key (STAKESIGN_PRIVATE_KEY) or from a local
keyring managed with 'stakesign keys'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute(ver, commit, built string) {
	appVersion = ver
	appGitCommit = commit
	appBuildTime = built

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if skipConfig[cmd.Name()] {
		setupLogging(config.DefaultConfig())
		return nil
	}

	path, err := NormalizePath(cfgFile)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	setupLogging(cfg)
	return nil
}

func setupLogging(cfg *config.Config) {
	level := logtrace.ParseLevel(cfg.Log.Level)
	if debug {
		level = logtrace.ParseLevel("debug")
	}
	logtrace.Setup("stakesign", cfg.Log.Format, level)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
