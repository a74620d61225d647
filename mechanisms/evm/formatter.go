package evm

import (
	"context"
)

// SignatureFormatter turns a raw ERC-1271 signature into the universal form for an identity
type SignatureFormatter struct {
	factory *AccountFactory
	probe   *AccountProbe
}

// NewSignatureFormatter creates a new SignatureFormatter
func NewSignatureFormatter(factory *AccountFactory, probe *AccountProbe) *SignatureFormatter {
	return &SignatureFormatter{
		factory: factory,
		probe:   probe,
	}
}

// Format resolves the identity's account and wraps raw when the account does not exist yet
//
// The flow:
// 1. Derive the account address and its creation calldata
// 2. Check whether code exists at the address
// 3. Deployed: return raw unchanged (ERC-1271 path)
// 4. Not deployed: return abi.encode(factory, creationCalldata, raw) ++ magicBytes (ERC-6492 path)
func (s *SignatureFormatter) Format(ctx context.Context, identity string, raw []byte) (*FormattedSignature, error) {
	account, err := s.factory.Account(ctx, identity)
	if err != nil {
		return nil, err
	}

	deployed, err := s.probe.AccountExists(ctx, account.Address)
	if err != nil {
		return nil, err
	}

	envelope := DirectSignature(raw)
	if !deployed {
		envelope = PreDeploySignature(account.Factory, account.CreationCalldata, raw)
	}

	encoded, err := envelope.Encode()
	if err != nil {
		return nil, err
	}

	return &FormattedSignature{
		Account:   account,
		Deployed:  deployed,
		Envelope:  envelope,
		Signature: encoded,
	}, nil
}
