package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrMalformedEnvelope is returned when a signature carries the ERC-6492 suffix but its
// payload does not decode as (address, bytes, bytes)
var ErrMalformedEnvelope = errors.New(ErrMalformedSignature)

// ErrAccountDerivationFailed is wrapped by every failure to resolve an identity's account address
var ErrAccountDerivationFailed = errors.New(ErrAccountDerivation)

// ChainReader defines the read-only view of the chain this package needs
// All methods must be safe for concurrent use
type ChainReader interface {
	// GetCode returns the bytecode at the given address
	// Returns empty slice if address is an EOA or doesn't exist
	GetCode(ctx context.Context, address string) ([]byte, error)

	// ReadContract packs a call with the given ABI, executes it with eth_call and
	// unpacks the result. Single return values are returned unwrapped.
	ReadContract(ctx context.Context, address string, abi []byte, functionName string, args ...interface{}) (interface{}, error)

	// Call executes raw calldata with eth_call against the latest state
	// An empty to runs data as creation code (deployless call)
	Call(ctx context.Context, to string, data []byte) ([]byte, error)
}

// RevertError reports that a call executed but reverted
// Implementations of ChainReader return it so callers can tell a rejection from an outage
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("execution reverted: %s (data %s)", e.Reason, hexutil.Encode(e.Data))
	}
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

// IsRevert reports whether err (or anything it wraps) is a *RevertError
func IsRevert(err error) bool {
	var re *RevertError
	return errors.As(err, &re)
}

// NetworkConfig contains network-specific configuration
type NetworkConfig struct {
	ChainID        *big.Int
	FactoryAddress string // Kernel factory, empty when none is known for the network
	DefaultRPC     string
}

// Account is the Kernel smart account an identity maps to
type Account struct {
	Identity         string         `json:"identity"`
	Salt             common.Hash    `json:"salt"`
	Address          common.Address `json:"address"`
	Factory          common.Address `json:"factory"`
	CreationCalldata hexutil.Bytes  `json:"creationCalldata"`
}

// FormattedSignature is the output of SignatureFormatter.Format
type FormattedSignature struct {
	Account   *Account
	Deployed  bool
	Envelope  UniversalSignature
	Signature []byte // Envelope.Encode(), what gets handed to the verifier
}

// VerificationPath identifies which branch decided a verification
type VerificationPath string

const (
	PathEOA        VerificationPath = "eoa"
	PathERC1271    VerificationPath = "erc1271"
	PathERC6492    VerificationPath = "erc6492"
	PathMalformed  VerificationPath = "malformed"
	PathUndeployed VerificationPath = "undeployed"
)

// VerificationResult is the outcome of a completed verification
// Infrastructure failures are never represented here; they are returned as errors
type VerificationResult struct {
	Valid  bool             `json:"isValid"`
	Path   VerificationPath `json:"path"`
	Reason string           `json:"reason,omitempty"`
}
