package evm

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// eip1271ABI is the minimal ABI for EIP-1271's isValidSignature function
const eip1271ABI = `[{
	"inputs": [
		{"type": "bytes32", "name": "hash"},
		{"type": "bytes", "name": "signature"}
	],
	"name": "isValidSignature",
	"outputs": [{"type": "bytes4", "name": "magicValue"}],
	"stateMutability": "view",
	"type": "function"
}]`

var parsedEIP1271ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(eip1271ABI))
	if err != nil {
		panic(fmt.Errorf("invalid EIP-1271 ABI: %w", err))
	}
	return parsed
}()

// eip1271MagicValue is the bytes4 magic value returned by isValidSignature on success
// This is bytes4(keccak256("isValidSignature(bytes32,bytes)"))
var eip1271MagicValue = common.FromHex(EIP1271MagicValue)

// PackIsValidSignature encodes isValidSignature(hash, signature)
func PackIsValidSignature(hash [32]byte, signature []byte) ([]byte, error) {
	return parsedEIP1271ABI.Pack(FunctionIsValidSignature, hash, signature)
}

// VerifyEIP1271Signature calls isValidSignature(hash, signature) on a deployed wallet
//
// Returns true only if the wallet returns a word starting with the magic value 0x1626ba7e.
// A revert, short return data or any other value means the wallet rejected the signature and
// yields false without an error. Failures to reach the provider are returned as errors.
func VerifyEIP1271Signature(
	ctx context.Context,
	reader ChainReader,
	wallet string,
	hash [32]byte,
	signature []byte,
) (bool, error) {
	calldata, err := PackIsValidSignature(hash, signature)
	if err != nil {
		return false, fmt.Errorf("failed to pack %s: %w", FunctionIsValidSignature, err)
	}

	result, err := reader.Call(ctx, wallet, calldata)
	if err != nil {
		if IsRevert(err) {
			return false, nil
		}
		return false, err
	}

	// bytes4 is returned left-aligned in a 32-byte word
	if len(result) < 32 {
		return false, nil
	}
	return bytes.Equal(result[:4], eip1271MagicValue), nil
}
