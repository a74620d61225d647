package sigverify

import (
	"github.com/kernel-auth/sigverify/mechanisms/evm"
)

// Version constants
const (
	// Version is the module version reported by the CLI and the HTTP server
	Version = "1.0.0"

	// DefaultNetwork is used when no network is configured
	DefaultNetwork = "eip155:137"
)

// Verification paths, re-exported for callers that only import the root package
const (
	PathEOA        = evm.PathEOA
	PathERC1271    = evm.PathERC1271
	PathERC6492    = evm.PathERC6492
	PathMalformed  = evm.PathMalformed
	PathUndeployed = evm.PathUndeployed
)

// Provider operations, used as metrics labels and in log lines
const (
	OperationDeriveAccount = "derive_account"
	OperationGetCode       = "get_code"
	OperationVerify        = "verify"
	OperationChainID       = "chain_id"
)
