package evm

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
)

// normalizeNetwork maps friendly names onto CAIP-2 identifiers
func normalizeNetwork(network string) string {
	switch strings.ToLower(network) {
	case "polygon", "matic", "polygon-mainnet":
		return "eip155:137"
	case "amoy", "polygon-amoy":
		return "eip155:80002"
	case "ethereum", "mainnet":
		return "eip155:1"
	}
	return network
}

// GetEvmChainId returns the chain ID for a given network
func GetEvmChainId(network string) (*big.Int, error) {
	networkStr := normalizeNetwork(network)

	if config, ok := NetworkConfigs[networkStr]; ok {
		return config.ChainID, nil
	}

	// Try to parse from CAIP-2 format (eip155:chainId)
	if strings.HasPrefix(networkStr, "eip155:") {
		chainIdStr := strings.TrimPrefix(networkStr, "eip155:")
		chainId, ok := new(big.Int).SetString(chainIdStr, 10)
		if ok {
			return chainId, nil
		}
	}

	return nil, fmt.Errorf("unsupported network: %s", network)
}

// GetNetworkConfig returns the configuration for a network
func GetNetworkConfig(network string) (*NetworkConfig, error) {
	if config, ok := NetworkConfigs[normalizeNetwork(network)]; ok {
		return &config, nil
	}
	return nil, fmt.Errorf("unsupported network: %s", network)
}

// IsValidAddress checks if a string is a valid Ethereum address
func IsValidAddress(address string) bool {
	addr := strings.TrimPrefix(address, "0x")
	if len(addr) != 40 {
		return false
	}
	_, err := hex.DecodeString(addr)
	return err == nil
}

// HexToBytes converts a hex string to bytes
func HexToBytes(hexStr string) ([]byte, error) {
	cleaned := strings.TrimPrefix(hexStr, "0x")
	return hex.DecodeString(cleaned)
}

// ParseHash decodes a 32-byte hex digest
func ParseHash(hexStr string) ([32]byte, error) {
	var hash [32]byte
	raw, err := HexToBytes(hexStr)
	if err != nil {
		return hash, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(raw) != len(hash) {
		return hash, fmt.Errorf("invalid hash length: expected 32 bytes, got %d", len(raw))
	}
	copy(hash[:], raw)
	return hash, nil
}

// HashPersonalMessage returns the EIP-191 digest of message
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message)
func HashPersonalMessage(message []byte) [32]byte {
	var hash [32]byte
	copy(hash[:], accounts.TextHash(message))
	return hash
}
