package evm

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// HashTypedDataJSON hashes an eth_signTypedData_v4 style JSON document
// {"types": ..., "primaryType": ..., "domain": ..., "message": ...}
func HashTypedDataJSON(data []byte) ([32]byte, error) {
	var hash [32]byte

	var typedData apitypes.TypedData
	if err := json.Unmarshal(data, &typedData); err != nil {
		return hash, fmt.Errorf("failed to parse typed data: %w", err)
	}

	digest, err := hashTypedData(typedData)
	if err != nil {
		return hash, err
	}
	copy(hash[:], digest)
	return hash, nil
}

func hashTypedData(typedData apitypes.TypedData) ([]byte, error) {
	dataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash struct: %w", err)
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	// Create EIP-712 digest: 0x19 0x01 <domainSeparator> <dataHash>
	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, dataHash...)
	return crypto.Keccak256(rawData), nil
}
