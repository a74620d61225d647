// Package http exposes a verifier over HTTP.
// This includes the gin server and a resty client for talking to it.
package http

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kernel-auth/sigverify"
	"github.com/kernel-auth/sigverify/mechanisms/evm"
)

// Routes
const (
	RouteHealth  = "/healthz"
	RouteAccount = "/v1/accounts/:identity"
	RouteFormat  = "/v1/format"
	RouteVerify  = "/v1/verify"
	RouteMetrics = "/metrics"
)

// DefaultRequestTimeout bounds one request's work on the server side
const DefaultRequestTimeout = 30 * time.Second

// Service is the verifier surface the server needs; *sigverify.Verifier implements it
type Service interface {
	Factory() common.Address
	Account(ctx context.Context, identity string) (*evm.Account, bool, error)
	Format(ctx context.Context, identity string, raw []byte) (*evm.FormattedSignature, error)
	Verify(ctx context.Context, identity string, hash [32]byte, raw []byte) (*sigverify.Verification, error)
	VerifySignature(ctx context.Context, address common.Address, hash [32]byte, signature []byte) (*evm.VerificationResult, error)
}

var _ Service = (*sigverify.Verifier)(nil)
