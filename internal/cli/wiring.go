package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kernel-auth/sigverify"
	"github.com/kernel-auth/sigverify/config"
	"github.com/kernel-auth/sigverify/logger"
	"github.com/kernel-auth/sigverify/mechanisms/evm"
	"github.com/kernel-auth/sigverify/metrics"
	providers "github.com/kernel-auth/sigverify/providers/evm"
)

// app is everything a command needs, built from config
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	client   *providers.ChainClient
	verifier *sigverify.Verifier
}

func (r *app) Close() {
	r.client.Close()
}

// newApp dials the provider, checks it serves the configured chain and builds the verifier
func newApp(ctx context.Context, recorder metrics.Recorder) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, usageError(err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := providers.Dial(dialCtx, cfg.RPCURL)
	if err != nil {
		return nil, infraError(err)
	}

	if err := checkChainID(dialCtx, cfg, client); err != nil {
		client.Close()
		return nil, err
	}

	opts := []sigverify.VerifierOption{
		sigverify.WithFactory(cfg.FactoryAddress),
		sigverify.WithSaltSuffix(cfg.SaltSuffix),
		sigverify.WithTimeout(cfg.Timeout),
		sigverify.WithLogger(log),
		sigverify.WithMetrics(recorder),
	}
	if cfg.Simulation == evm.SimulationValidator {
		opts = append(opts, sigverify.WithSimulator(evm.NewContractSimulator(client, cfg.ValidatorAddress)))
	}
	if cfg.ExistenceCache.Enabled {
		cache, err := sigverify.NewExistenceCache(ctx, cfg.ExistenceCache.LifeWindow)
		if err != nil {
			client.Close()
			return nil, usageError(err)
		}
		opts = append(opts, sigverify.WithExistenceCache(cache))
	}

	log.Debug().
		Str("network", cfg.Network).
		Str("factory", cfg.FactoryAddress).
		Str("simulation", cfg.Simulation).
		Msg("verifier ready")

	return &app{
		cfg:      cfg,
		logger:   log,
		client:   client,
		verifier: sigverify.NewVerifier(client, opts...),
	}, nil
}

// checkChainID refuses to run against a provider serving a different chain than configured
func checkChainID(ctx context.Context, cfg *config.Config, client *providers.ChainClient) error {
	expected, err := cfg.ChainID()
	if err != nil {
		return usageError(err)
	}

	actual, err := client.ChainID(ctx)
	if err != nil {
		return infraError(sigverify.NewVerifyError(sigverify.ReasonProviderUnavailable, "", "", err))
	}
	if actual.Int64() != expected {
		return usageError(fmt.Errorf("provider serves chain %s but network %s expects %d", actual, cfg.Network, expected))
	}
	return nil
}
