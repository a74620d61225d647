package evm

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// UniversalVerifierConfig holds configuration for the UniversalVerifier
type UniversalVerifierConfig struct {
	// Simulator runs pre-deploy verification, defaults to a DeploylessSimulator
	Simulator SignatureSimulator
	// Probe answers code-existence questions, defaults to an uncached AccountProbe
	Probe *AccountProbe
	// Logger defaults to zerolog.Nop()
	Logger *zerolog.Logger
}

// UniversalVerifier verifies signatures from EOA, EIP-1271, and ERC-6492 sources
type UniversalVerifier struct {
	reader    ChainReader
	probe     *AccountProbe
	simulator SignatureSimulator
	logger    zerolog.Logger
}

// NewUniversalVerifier creates a new UniversalVerifier
// Args:
//
//	reader: Read-only chain access
//	config: Optional configuration (nil uses defaults)
//
// Returns:
//
//	Configured UniversalVerifier instance
func NewUniversalVerifier(reader ChainReader, config *UniversalVerifierConfig) *UniversalVerifier {
	cfg := UniversalVerifierConfig{}
	if config != nil {
		cfg = *config
	}

	v := &UniversalVerifier{
		reader:    reader,
		probe:     cfg.Probe,
		simulator: cfg.Simulator,
		logger:    zerolog.Nop(),
	}
	if v.probe == nil {
		v.probe = NewAccountProbe(reader, nil)
	}
	if v.simulator == nil {
		v.simulator = NewDeploylessSimulator(reader)
	}
	if cfg.Logger != nil {
		v.logger = cfg.Logger.With().Str("component", "universal_verifier").Logger()
	}
	return v
}

// Verify decides whether signature is valid for signer over hash
//
// The verification flow:
// 1. Decode the signature into Direct or PreDeploy (suffix match AND ABI-decodable)
// 2. PreDeploy: deploy-then-validate in one state-reverting simulation
// 3. Direct with code at signer: EIP-1271 isValidSignature
// 4. Direct without code and exactly 65 bytes: ECDSA recovery
// 5. Anything else: invalid
//
// Returns an error only when the chain could not be consulted. Malformed envelopes and
// rejected signatures are reported through VerificationResult.
func (v *UniversalVerifier) Verify(
	ctx context.Context,
	signer common.Address,
	hash [32]byte,
	signature []byte,
) (*VerificationResult, error) {
	log := v.logger.With().Str("signer", signer.Hex()).Int("signature_len", len(signature)).Logger()

	sig, err := DecodeUniversalSignature(signature)
	if err != nil {
		if errors.Is(err, ErrMalformedEnvelope) {
			log.Warn().Err(err).Str("path", string(PathMalformed)).Msg("rejecting malformed universal signature")
			return &VerificationResult{Valid: false, Path: PathMalformed, Reason: ErrMalformedSignature}, nil
		}
		return nil, err
	}

	if sig.Kind == SignaturePreDeploy {
		// The simulator receives the full envelope; it performs the deployment itself
		valid, err := v.simulator.Simulate(ctx, signer, hash, signature)
		if err != nil {
			log.Error().Err(err).Str("path", string(PathERC6492)).Msg("pre-deploy simulation failed")
			return nil, err
		}
		log.Debug().Bool("valid", valid).Str("factory", sig.Factory.Hex()).Str("path", string(PathERC6492)).Msg("verified pre-deploy signature")
		return newResult(valid, PathERC6492), nil
	}

	deployed, err := v.probe.AccountExists(ctx, signer)
	if err != nil {
		log.Error().Err(err).Msg("code lookup failed")
		return nil, err
	}

	if deployed {
		valid, err := VerifyEIP1271Signature(ctx, v.reader, signer.Hex(), hash, sig.Signature)
		if err != nil {
			log.Error().Err(err).Str("path", string(PathERC1271)).Msg("isValidSignature call failed")
			return nil, err
		}
		log.Debug().Bool("valid", valid).Str("path", string(PathERC1271)).Msg("verified contract signature")
		return newResult(valid, PathERC1271), nil
	}

	if len(sig.Signature) == EOASignatureLength {
		valid, err := VerifyEOASignature(hash[:], sig.Signature, signer)
		if err != nil {
			// Unrecoverable r, s, v is a bad signature, not an outage
			log.Debug().Err(err).Str("path", string(PathEOA)).Msg("ECDSA recovery failed")
			return &VerificationResult{Valid: false, Path: PathEOA, Reason: ErrInvalidSignature}, nil
		}
		log.Debug().Bool("valid", valid).Str("path", string(PathEOA)).Msg("verified EOA signature")
		return newResult(valid, PathEOA), nil
	}

	log.Debug().Str("path", string(PathUndeployed)).Msg("no code at signer and no deployment data")
	return &VerificationResult{Valid: false, Path: PathUndeployed, Reason: ErrUndeployedSmartWallet}, nil
}

// IsValid is Verify reduced to the boolean contract
func (v *UniversalVerifier) IsValid(ctx context.Context, signer common.Address, hash [32]byte, signature []byte) (bool, error) {
	result, err := v.Verify(ctx, signer, hash, signature)
	if err != nil {
		return false, err
	}
	return result.Valid, nil
}

func newResult(valid bool, path VerificationPath) *VerificationResult {
	result := &VerificationResult{Valid: valid, Path: path}
	if !valid {
		result.Reason = ErrInvalidSignature
	}
	return result
}
