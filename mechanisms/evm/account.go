package evm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var kernelFactoryABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(string(KernelFactoryABI)))
	if err != nil {
		panic(fmt.Errorf("invalid factory ABI: %w", err))
	}
	return parsed
}()

// DeriveSalt computes the CREATE2 salt for an identity: keccak256(identity || suffix)
//
// Identities are not validated; any string hashes deterministically.
func DeriveSalt(identity string, suffix string) [32]byte {
	return crypto.Keccak256Hash([]byte(identity + suffix))
}

// AccountFactoryConfig holds configuration for the AccountFactory
type AccountFactoryConfig struct {
	// Address of the Kernel factory, defaults to KernelFactoryPolygon
	Address string
	// SaltSuffix is the domain suffix hashed with the identity, defaults to AccountSaltSuffix
	SaltSuffix string
}

// AccountFactory maps identities to Kernel smart accounts through a CREATE2 factory
type AccountFactory struct {
	reader  ChainReader
	address common.Address
	suffix  string
}

// NewAccountFactory creates a new AccountFactory
// Args:
//
//	reader: Read-only chain access used for getAccountAddress
//	config: Optional configuration (nil uses defaults)
//
// Returns:
//
//	Configured AccountFactory instance
func NewAccountFactory(reader ChainReader, config *AccountFactoryConfig) *AccountFactory {
	cfg := AccountFactoryConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.Address == "" {
		cfg.Address = KernelFactoryPolygon
	}
	if cfg.SaltSuffix == "" {
		cfg.SaltSuffix = AccountSaltSuffix
	}
	return &AccountFactory{
		reader:  reader,
		address: common.HexToAddress(cfg.Address),
		suffix:  cfg.SaltSuffix,
	}
}

// Address returns the factory address
func (f *AccountFactory) Address() common.Address {
	return f.address
}

// Salt returns the salt for an identity under this factory's suffix
func (f *AccountFactory) Salt(identity string) [32]byte {
	return DeriveSalt(identity, f.suffix)
}

// DeriveAccount asks the factory for the address the identity's account has, or will have
//
// getAccountAddress is a pure function of the factory code and salt, so the answer is the
// same before and after deployment.
func (f *AccountFactory) DeriveAccount(ctx context.Context, identity string) (common.Address, error) {
	result, err := f.reader.ReadContract(
		ctx,
		f.address.Hex(),
		KernelFactoryABI,
		FunctionGetAccountAddress,
		f.Salt(identity),
	)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: failed to read account address: %w", ErrAccountDerivationFailed, err)
	}

	address, ok := result.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: invalid return type from %s: %T", ErrAccountDerivationFailed, FunctionGetAccountAddress, result)
	}
	return address, nil
}

// BuildCreationCalldata encodes createAccount(salt) for the identity
func (f *AccountFactory) BuildCreationCalldata(identity string) ([]byte, error) {
	calldata, err := kernelFactoryABI.Pack(FunctionCreateAccount, f.Salt(identity))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to pack %s: %w", ErrAccountDerivationFailed, FunctionCreateAccount, err)
	}
	return calldata, nil
}

// Account resolves everything known about an identity's account without touching its state
func (f *AccountFactory) Account(ctx context.Context, identity string) (*Account, error) {
	address, err := f.DeriveAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	calldata, err := f.BuildCreationCalldata(identity)
	if err != nil {
		return nil, err
	}

	return &Account{
		Identity:         identity,
		Salt:             f.Salt(identity),
		Address:          address,
		Factory:          f.address,
		CreationCalldata: calldata,
	}, nil
}
