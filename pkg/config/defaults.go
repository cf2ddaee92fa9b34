package config

// Centralized default values for configuration

const (
	DefaultBaseDir        = ".stakesign"
	DefaultConfigFile     = "config.yml"
	DefaultNetwork        = "holesky"
	DefaultValidatorCount = 1
	DefaultRegion         = "ca-central-1"
	DefaultAPIBaseURL     = "https://api.figment.io"
	DefaultAPITimeout     = 30
	DefaultKeyringBackend = "test"
	DefaultKeyringDir     = "keys"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "dev"
)

// SupportedNetworks lists the Ethereum networks the staking API provisions on.
var SupportedNetworks = []string{"mainnet", "holesky", "hoodi"}

// SupportedKeyringBackends lists the keyring backends accepted in config.
var SupportedKeyringBackends = []string{"os", "file", "test", "memory"}
