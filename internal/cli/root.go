package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kernel-auth/sigverify/config"
)

// Exit codes
const (
	ExitValid          = 0
	ExitInvalid        = 1
	ExitInfrastructure = 2
	ExitUsage          = 3
)

// exitError carries a process exit code through cobra
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: ExitUsage, err: err}
}

func infraError(err error) error {
	return &exitError{code: ExitInfrastructure, err: err}
}

// errInvalid reports a checked and rejected signature; nothing is printed for it
var errInvalid = &exitError{code: ExitInvalid}

var (
	configPath string
	rpcURL     string
	network    string
	factory    string
	logLevel   string
	logFormat  string
	timeout    time.Duration

	rootCmd = &cobra.Command{
		Use:   "sigverify",
		Short: "Verify signatures for Kernel smart accounts",
		Long: `Verify signatures for Kernel smart accounts that may not be deployed yet.

An identity such as "email:alice@example.com" maps to a counterfactual account through the
Kernel factory. Signatures are checked with ECDSA recovery, ERC-1271 or ERC-6492 depending
on the account's state.

Exit codes: 0 valid, 1 invalid, 2 chain provider failure, 3 usage or configuration error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the CLI and returns the process exit code
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitValid
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, "Error:", exitErr.err)
		}
		return exitErr.code
	}

	// Anything cobra rejects before a command runs is a usage problem
	fmt.Fprintln(os.Stderr, "Error:", err)
	return ExitUsage
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "JSON-RPC endpoint of the chain data provider (env "+config.EnvRPCURL+")")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "network name or CAIP-2 id, e.g. polygon or eip155:137 (env "+config.EnvNetwork+")")
	rootCmd.PersistentFlags().StringVar(&factory, "factory", "", "Kernel account factory address (env "+config.EnvFactory+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "bound on one verification including every provider round trip")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
}

// loadConfig merges the config file, environment and flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, func(c *config.Config) {
		if rpcURL != "" {
			c.RPCURL = rpcURL
		}
		if network != "" {
			c.Network = network
		}
		if factory != "" {
			c.FactoryAddress = factory
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		if logFormat != "" {
			c.LogFormat = logFormat
		}
		if timeout > 0 {
			c.Timeout = timeout
		}
	})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}
