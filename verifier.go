package sigverify

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/kernel-auth/sigverify/mechanisms/evm"
	"github.com/kernel-auth/sigverify/metrics"
)

// DefaultTimeout bounds one top-level operation including every provider round trip
const DefaultTimeout = 15 * time.Second

// Verification is the outcome of an identity-level verification
type Verification struct {
	evm.VerificationResult
	Identity string         `json:"identity"`
	Account  common.Address `json:"account"`
	Deployed bool           `json:"deployed"`
}

type verifierOptions struct {
	factory   evm.AccountFactoryConfig
	simulator evm.SignatureSimulator
	cache     *bigcache.BigCache
	logger    zerolog.Logger
	recorder  metrics.Recorder
	timeout   time.Duration
}

// VerifierOption configures a Verifier
type VerifierOption func(*verifierOptions)

// WithFactory sets the Kernel factory address
func WithFactory(address string) VerifierOption {
	return func(o *verifierOptions) {
		o.factory.Address = address
	}
}

// WithSaltSuffix sets the suffix hashed with identities into account salts
func WithSaltSuffix(suffix string) VerifierOption {
	return func(o *verifierOptions) {
		o.factory.SaltSuffix = suffix
	}
}

// WithSimulator replaces the deployless pre-deploy simulator
func WithSimulator(simulator evm.SignatureSimulator) VerifierOption {
	return func(o *verifierOptions) {
		o.simulator = simulator
	}
}

// WithExistenceCache remembers accounts known to be deployed
func WithExistenceCache(cache *bigcache.BigCache) VerifierOption {
	return func(o *verifierOptions) {
		o.cache = cache
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) VerifierOption {
	return func(o *verifierOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(recorder metrics.Recorder) VerifierOption {
	return func(o *verifierOptions) {
		o.recorder = recorder
	}
}

// WithTimeout bounds every top-level call; zero disables the bound
func WithTimeout(timeout time.Duration) VerifierOption {
	return func(o *verifierOptions) {
		o.timeout = timeout
	}
}

// Verifier answers "is this signature valid for the smart account of this identity"
//
// It ties the address deriver, the existence probe, the formatter and the universal verifier
// together over one ChainReader. A Verifier is safe for concurrent use.
type Verifier struct {
	factory   *evm.AccountFactory
	probe     *evm.AccountProbe
	formatter *evm.SignatureFormatter
	universal *evm.UniversalVerifier
	recorder  metrics.Recorder
	logger    zerolog.Logger
	timeout   time.Duration
}

// NewVerifier creates a Verifier reading chain state through reader
func NewVerifier(reader evm.ChainReader, opts ...VerifierOption) *Verifier {
	o := verifierOptions{
		logger:   zerolog.Nop(),
		recorder: metrics.NoopRecorder{},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	factory := evm.NewAccountFactory(reader, &o.factory)
	probe := evm.NewAccountProbe(reader, o.cache)

	return &Verifier{
		factory:   factory,
		probe:     probe,
		formatter: evm.NewSignatureFormatter(factory, probe),
		universal: evm.NewUniversalVerifier(reader, &evm.UniversalVerifierConfig{
			Simulator: o.simulator,
			Probe:     probe,
			Logger:    &o.logger,
		}),
		recorder: o.recorder,
		logger:   o.logger,
		timeout:  o.timeout,
	}
}

// Factory returns the address of the account factory in use
func (v *Verifier) Factory() common.Address {
	return v.factory.Address()
}

// Account derives the identity's account and reports whether it is deployed
func (v *Verifier) Account(ctx context.Context, identity string) (*evm.Account, bool, error) {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	account, err := v.factory.Account(ctx, identity)
	if err != nil {
		return nil, false, v.providerError(ctx, OperationDeriveAccount, ReasonAccountDerivation, identity, "", err)
	}

	deployed, err := v.probe.AccountExists(ctx, account.Address)
	if err != nil {
		return nil, false, v.providerError(ctx, OperationGetCode, ReasonProviderUnavailable, identity, account.Address.Hex(), err)
	}

	v.logger.Debug().
		Str("identity", identity).
		Str("account", account.Address.Hex()).
		Bool("deployed", deployed).
		Msg("resolved account")
	return account, deployed, nil
}

// Format produces the universal signature for identity from a raw ERC-1271 signature
func (v *Verifier) Format(ctx context.Context, identity string, raw []byte) (*evm.FormattedSignature, error) {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	formatted, err := v.formatter.Format(ctx, identity, raw)
	if err != nil {
		return nil, v.formatError(ctx, identity, err)
	}
	return formatted, nil
}

// Verify formats raw for identity and verifies it against the identity's account
//
// The returned error is always a *VerifyError and only occurs when the chain could not be
// consulted. A rejected signature is a Verification with Valid set to false.
func (v *Verifier) Verify(ctx context.Context, identity string, hash [32]byte, raw []byte) (*Verification, error) {
	started := time.Now()
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	formatted, err := v.formatter.Format(ctx, identity, raw)
	if err != nil {
		v.recorder.ObserveVerification("", metrics.OutcomeError, time.Since(started))
		return nil, v.formatError(ctx, identity, err)
	}

	result, err := v.verify(ctx, formatted.Account.Address, hash, formatted.Signature, started)
	if err != nil {
		var verr *VerifyError
		if errors.As(err, &verr) {
			verr.Identity = identity
		}
		return nil, err
	}

	v.logger.Debug().
		Str("identity", identity).
		Str("account", formatted.Account.Address.Hex()).
		Bool("deployed", formatted.Deployed).
		Bool("valid", result.Valid).
		Msg("verified identity signature")

	return &Verification{
		VerificationResult: *result,
		Identity:           identity,
		Account:            formatted.Account.Address,
		Deployed:           formatted.Deployed,
	}, nil
}

// VerifySignature verifies an already formatted universal signature for address
func (v *Verifier) VerifySignature(ctx context.Context, address common.Address, hash [32]byte, signature []byte) (*evm.VerificationResult, error) {
	started := time.Now()
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	return v.verify(ctx, address, hash, signature, started)
}

func (v *Verifier) verify(ctx context.Context, address common.Address, hash [32]byte, signature []byte, started time.Time) (*evm.VerificationResult, error) {
	result, err := v.universal.Verify(ctx, address, hash, signature)
	if err != nil {
		v.recorder.ObserveVerification("", metrics.OutcomeError, time.Since(started))
		return nil, v.providerError(ctx, OperationVerify, ReasonProviderUnavailable, "", address.Hex(), err)
	}

	outcome := metrics.OutcomeInvalid
	switch {
	case result.Valid:
		outcome = metrics.OutcomeValid
	case result.Path == evm.PathMalformed:
		outcome = metrics.OutcomeMalformed
	}
	v.recorder.ObserveVerification(string(result.Path), outcome, time.Since(started))
	return result, nil
}

func (v *Verifier) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, v.timeout)
}

// formatError maps a formatter failure onto the step that failed
func (v *Verifier) formatError(ctx context.Context, identity string, err error) error {
	if errors.Is(err, evm.ErrAccountDerivationFailed) {
		return v.providerError(ctx, OperationDeriveAccount, ReasonAccountDerivation, identity, "", err)
	}
	return v.providerError(ctx, OperationGetCode, ReasonProviderUnavailable, identity, "", err)
}

func (v *Verifier) providerError(ctx context.Context, op string, reason string, identity string, account string, err error) error {
	reason = classifyError(ctx, reason, err)
	v.recorder.IncProviderError(op)
	v.logger.Error().
		Err(err).
		Str("operation", op).
		Str("reason", reason).
		Str("identity", identity).
		Str("account", account).
		Msg("chain provider failure")
	return NewVerifyError(reason, identity, account, err)
}
