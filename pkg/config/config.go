package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the YAML configuration structure
type Config struct {
	Network         string `yaml:"network"`
	ValidatorsCount int    `yaml:"validators_count"`
	Region          string `yaml:"region"`

	Addresses struct {
		Withdrawal   string `yaml:"withdrawal"`
		Funding      string `yaml:"funding"`
		FeeRecipient string `yaml:"fee_recipient"`
	} `yaml:"addresses"`

	StakingAPI struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key,omitempty"`
		Timeout int    `yaml:"timeout"` // seconds
	} `yaml:"staking_api"`

	Keyring struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
		KeyName string `yaml:"key_name"`
	} `yaml:"keyring"`

	Signer struct {
		// PrivateKey is a hex secp256k1 key. When set it takes precedence over
		// the keyring entry.
		PrivateKey string `yaml:"private_key,omitempty"`
	} `yaml:"signer"`

	Explorer struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"explorer"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration populated with defaults only.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults(context.Background(), false)
	return cfg
}

// DefaultConfigPath returns ~/.stakesign/config.yml, falling back to the
// working directory when the home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
}

// LoadConfig loads the configuration from a file, applies defaults and
// environment overrides, and validates the result.
func LoadConfig(filename string) (*Config, error) {
	ctx := logtrace.CtxWithOrigin(context.Background(), logtrace.ValueConfig)

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("error getting absolute path for config file: %w", err)
	}

	logtrace.Debug(ctx, "Loading configuration", logtrace.Fields{
		"path": absPath,
	})

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s does not exist", absPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	config.applyDefaults(ctx, true)
	if err := config.ApplyEnv(nil); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.resolveKeyringDir(absPath)

	logtrace.Debug(ctx, "Configuration loaded successfully", logtrace.Fields{
		logtrace.FieldNetwork: config.Network,
	})
	return &config, nil
}

// LoadOrDefault behaves like LoadConfig but tolerates a missing file, in which
// case defaults plus environment overrides are used.
func LoadOrDefault(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(nil); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if absPath, err := filepath.Abs(filename); err == nil {
			cfg.resolveKeyringDir(absPath)
		}
		return cfg, nil
	}
	return LoadConfig(filename)
}

// SaveConfig writes configuration to a file. Secrets are written only if they
// are already part of the struct; callers decide whether to clear them.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// envBindings maps config keys to the environment variables read for them,
// in order of precedence.
var envBindings = [][]string{
	{"api_key", "STAKESIGN_API_KEY", "FIGMENT_API_KEY"},
	{"private_key", "STAKESIGN_PRIVATE_KEY"},
	{"network", "STAKESIGN_NETWORK"},
	{"api_base_url", "STAKESIGN_API_URL"},
	{"key_name", "STAKESIGN_KEY_NAME"},
}

// ApplyEnv overlays environment variables onto the config. A nil viper
// instance means a fresh one bound to the process environment.
func (c *Config) ApplyEnv(v *viper.Viper) error {
	if v == nil {
		v = viper.New()
	}
	for _, b := range envBindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", b[0], err)
		}
	}

	if s := strings.TrimSpace(v.GetString("api_key")); s != "" {
		c.StakingAPI.APIKey = s
	}
	if s := strings.TrimSpace(v.GetString("private_key")); s != "" {
		c.Signer.PrivateKey = s
	}
	if s := strings.TrimSpace(v.GetString("network")); s != "" {
		c.Network = s
	}
	if s := strings.TrimSpace(v.GetString("api_base_url")); s != "" {
		c.StakingAPI.BaseURL = s
	}
	if s := strings.TrimSpace(v.GetString("key_name")); s != "" {
		c.Keyring.KeyName = s
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(SupportedNetworks, c.Network) {
		return fmt.Errorf("network %q is not supported (expected one of %s)", c.Network, strings.Join(SupportedNetworks, ", "))
	}

	if c.ValidatorsCount < 1 {
		return fmt.Errorf("validators_count must be at least 1")
	}

	u, err := url.Parse(c.StakingAPI.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("staking_api.base_url %q is not a valid URL", c.StakingAPI.BaseURL)
	}

	if c.StakingAPI.Timeout <= 0 {
		return fmt.Errorf("staking_api.timeout must be positive")
	}

	if !slices.Contains(SupportedKeyringBackends, c.Keyring.Backend) {
		return fmt.Errorf("keyring.backend %q is not supported", c.Keyring.Backend)
	}

	return nil
}

func (c *Config) applyDefaults(ctx context.Context, verbose bool) {
	set := func(dst *string, def, what string) {
		if *dst != "" {
			return
		}
		*dst = def
		if verbose {
			logtrace.Debug(ctx, "Using default "+what, logtrace.Fields{"value": def})
		}
	}

	set(&c.Network, DefaultNetwork, "network")
	set(&c.Region, DefaultRegion, "region")
	set(&c.StakingAPI.BaseURL, DefaultAPIBaseURL, "staking API base URL")
	set(&c.Keyring.Backend, DefaultKeyringBackend, "keyring backend")
	set(&c.Keyring.Dir, DefaultKeyringDir, "keyring directory")
	set(&c.Log.Level, DefaultLogLevel, "log level")
	set(&c.Log.Format, DefaultLogFormat, "log format")

	if c.ValidatorsCount == 0 {
		c.ValidatorsCount = DefaultValidatorCount
	}
	if c.StakingAPI.Timeout == 0 {
		c.StakingAPI.Timeout = DefaultAPITimeout
	}
}

// resolveKeyringDir makes a relative keyring dir relative to the config file.
func (c *Config) resolveKeyringDir(configPath string) {
	if c.Keyring.Dir != "" && !filepath.IsAbs(c.Keyring.Dir) {
		c.Keyring.Dir = filepath.Join(filepath.Dir(configPath), c.Keyring.Dir)
	}
}
