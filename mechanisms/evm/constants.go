package evm

import (
	"math/big"
)

const (
	// AccountSaltSuffix is appended to an identity before hashing it into a Kernel account salt
	AccountSaltSuffix = ":kernel-account"

	// EOASignatureLength is the length of a raw r || s || v ECDSA signature
	EOASignatureLength = 65

	// ERC-6492 magic value (last 32 bytes of wrapped signature)
	// 0x6492 repeated to fill a word
	ERC6492MagicValue = "0x6492649264926492649264926492649264926492649264926492649264926492"

	// EIP-1271 magic value (returned by isValidSignature on success)
	EIP1271MagicValue = "0x1626ba7e"

	// Factory function names
	FunctionGetAccountAddress = "getAccountAddress"
	FunctionCreateAccount     = "createAccount"

	// Validation function names
	FunctionIsValidSignature = "isValidSignature"
	FunctionIsValidSig       = "isValidSig"

	// Simulation modes
	SimulationDeployless = "deployless"
	SimulationValidator  = "validator"

	// Error codes
	ErrInvalidSignature      = "invalid_signature"
	ErrMalformedSignature    = "malformed_universal_signature"
	ErrUndeployedSmartWallet = "undeployed_smart_wallet_without_deployment_data"
	ErrProviderUnavailable   = "provider_unavailable"
	ErrAccountDerivation     = "account_derivation_failed"
)

// KernelFactoryABI is the minimal ABI of the Kernel CREATE2 account factory
var KernelFactoryABI = []byte(`[
	{
		"inputs": [{"name": "salt", "type": "bytes32"}],
		"name": "getAccountAddress",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "salt", "type": "bytes32"}],
		"name": "createAccount",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`)

// UniversalSigValidatorABI is the ABI of a deployed ERC-6492 UniversalSigValidator
var UniversalSigValidatorABI = []byte(`[
	{
		"inputs": [
			{"name": "_signer", "type": "address"},
			{"name": "_hash", "type": "bytes32"},
			{"name": "_signature", "type": "bytes"}
		],
		"name": "isValidSig",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`)

var (
	// Network chain IDs
	ChainIDMainnet = big.NewInt(1)
	ChainIDPolygon = big.NewInt(137)
	ChainIDAmoy    = big.NewInt(80002)

	// KernelFactoryPolygon is the Kernel account factory deployed on Polygon PoS
	KernelFactoryPolygon = "0x33DDF684dcc6937FfE59D8405aA80c41fB518C5c"

	// Network configurations
	NetworkConfigs = map[string]NetworkConfig{
		"eip155:137": {
			ChainID:        ChainIDPolygon,
			FactoryAddress: KernelFactoryPolygon,
			DefaultRPC:     "https://polygon-rpc.com",
		},
		"eip155:80002": {
			ChainID:    ChainIDAmoy,
			DefaultRPC: "https://rpc-amoy.polygon.technology",
		},
		"eip155:1": {
			ChainID:    ChainIDMainnet,
			DefaultRPC: "https://ethereum-rpc.publicnode.com",
		},
	}
)
