// Package config loads verifier settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"github.com/kernel-auth/sigverify/mechanisms/evm"
)

// Environment variables that override file values
const (
	EnvRPCURL  = "SIGVERIFY_RPC_URL"
	EnvNetwork = "SIGVERIFY_NETWORK"
	EnvFactory = "SIGVERIFY_FACTORY"
)

// Defaults
const (
	DefaultNetwork       = "eip155:137"
	DefaultTimeout       = 15 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultListenAddress = ":8090"
)

// Config holds everything needed to build a verifier and serve it
type Config struct {
	Network          string        `yaml:"network" validate:"required"`
	RPCURL           string        `yaml:"rpc_url" validate:"required,url"`
	FactoryAddress   string        `yaml:"factory_address" validate:"omitempty,eth_addr"`
	SaltSuffix       string        `yaml:"salt_suffix"`
	Simulation       string        `yaml:"simulation" validate:"oneof=deployless validator"`
	ValidatorAddress string        `yaml:"validator_address" validate:"omitempty,eth_addr"`
	Timeout          time.Duration `yaml:"timeout" validate:"gte=0"`
	LogLevel         string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat        string        `yaml:"log_format" validate:"oneof=console json"`
	ListenAddress    string        `yaml:"listen_address"`
	ExistenceCache   CacheConfig   `yaml:"existence_cache"`
}

// CacheConfig controls the positive account-existence cache
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	LifeWindow time.Duration `yaml:"life_window" validate:"gte=0"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Network:       DefaultNetwork,
		Simulation:    evm.SimulationDeployless,
		Timeout:       DefaultTimeout,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		ListenAddress: DefaultListenAddress,
		ExistenceCache: CacheConfig{
			Enabled: true,
		},
	}
}

// Override mutates a loaded config before network defaults are resolved
type Override func(*Config)

// Load reads path (optional), a .env file in the working directory (optional), the
// environment and overrides, in increasing order of precedence, then validates the result
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// A missing .env is fine; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRPCURL); v != "" {
		c.RPCURL = v
	}
	if v := os.Getenv(EnvNetwork); v != "" {
		c.Network = v
	}
	if v := os.Getenv(EnvFactory); v != "" {
		c.FactoryAddress = v
	}
}

// Resolve fills network defaults for the RPC URL and factory address
func (c *Config) Resolve() error {
	network, err := evm.GetNetworkConfig(c.Network)
	if err != nil {
		// Unknown networks are allowed as long as everything is given explicitly
		if c.RPCURL == "" || c.FactoryAddress == "" {
			return fmt.Errorf("network %q has no defaults, set rpc_url and factory_address: %w", c.Network, err)
		}
		return nil
	}
	if c.RPCURL == "" {
		c.RPCURL = network.DefaultRPC
	}
	if c.FactoryAddress == "" {
		if network.FactoryAddress == "" {
			return fmt.Errorf("no known account factory on %s, set factory_address", c.Network)
		}
		c.FactoryAddress = network.FactoryAddress
	}
	return nil
}

// Validate checks field formats and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			})
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Simulation == evm.SimulationValidator && c.ValidatorAddress == "" {
		return fmt.Errorf("invalid config: validator_address is required when simulation is %q", evm.SimulationValidator)
	}
	return nil
}

// ChainID returns the chain ID the configured network is expected to report
func (c *Config) ChainID() (int64, error) {
	id, err := evm.GetEvmChainId(c.Network)
	if err != nil {
		return 0, err
	}
	return id.Int64(), nil
}
