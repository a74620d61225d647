package evm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// SignatureSimulator runs the ERC-6492 deploy-then-validate sequence inside a single
// state-reverting call
//
// Implementations must not persist any state: when signer has no code the factory call in the
// envelope runs only in the simulation, then isValidSignature is called on the result.
// A rejected signature is (false, nil); an error means the simulation could not be run.
type SignatureSimulator interface {
	Simulate(ctx context.Context, signer common.Address, hash [32]byte, signature []byte) (bool, error)
}

// validatorArguments describes the ValidateSigOffchain constructor: (address signer, bytes32 hash, bytes signature)
var validatorArguments = func() abi.Arguments {
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid address type: %w", err))
	}
	bytes32Ty, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid bytes32 type: %w", err))
	}
	bytesTy, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid bytes type: %w", err))
	}
	return abi.Arguments{
		{Type: addressTy, Name: "signer"},
		{Type: bytes32Ty, Name: "hash"},
		{Type: bytesTy, Name: "signature"},
	}
}()

// DeploylessSimulator verifies through a deployless eth_call of the ValidateSigOffchain
// creation code, so no validator contract needs to exist on the target chain
type DeploylessSimulator struct {
	reader   ChainReader
	bytecode []byte
}

// NewDeploylessSimulator creates a DeploylessSimulator
func NewDeploylessSimulator(reader ChainReader) *DeploylessSimulator {
	return &DeploylessSimulator{
		reader:   reader,
		bytecode: common.FromHex(validateSigOffchainBytecode),
	}
}

// Simulate runs the validator constructor with (signer, hash, signature)
//
// The constructor returns a single byte: 0x01 when the signature is valid.
func (s *DeploylessSimulator) Simulate(ctx context.Context, signer common.Address, hash [32]byte, signature []byte) (bool, error) {
	args, err := validatorArguments.Pack(signer, hash, signature)
	if err != nil {
		return false, fmt.Errorf("failed to pack validator arguments: %w", err)
	}

	data := make([]byte, 0, len(s.bytecode)+len(args))
	data = append(data, s.bytecode...)
	data = append(data, args...)

	result, err := s.reader.Call(ctx, "", data)
	if err != nil {
		if IsRevert(err) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(result, []byte{0x01}), nil
}

// ContractSimulator verifies by calling isValidSig on a deployed UniversalSigValidator
// isValidSig is non-view, but through eth_call its side effects are discarded
type ContractSimulator struct {
	reader    ChainReader
	validator string
}

// NewContractSimulator creates a ContractSimulator for the validator deployed at address
func NewContractSimulator(reader ChainReader, address string) *ContractSimulator {
	return &ContractSimulator{
		reader:    reader,
		validator: address,
	}
}

// Simulate calls isValidSig(signer, hash, signature)
func (s *ContractSimulator) Simulate(ctx context.Context, signer common.Address, hash [32]byte, signature []byte) (bool, error) {
	result, err := s.reader.ReadContract(
		ctx,
		s.validator,
		UniversalSigValidatorABI,
		FunctionIsValidSig,
		signer,
		hash,
		signature,
	)
	if err != nil {
		if IsRevert(err) {
			return false, nil
		}
		return false, err
	}
	valid, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("invalid return type from %s: %T", FunctionIsValidSig, result)
	}
	return valid, nil
}
