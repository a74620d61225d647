package sigverify

import (
	"context"
	"errors"
	"fmt"

	"github.com/kernel-auth/sigverify/mechanisms/evm"
)

// Infrastructure error reasons
const (
	ReasonProviderUnavailable = evm.ErrProviderUnavailable
	ReasonAccountDerivation   = evm.ErrAccountDerivation
	ReasonTimeout             = "timeout"
)

// VerifyError reports that a verdict could not be produced
//
// It is never used for a signature that was checked and rejected; those come back as a
// result with Valid set to false.
type VerifyError struct {
	Reason   string `json:"reason"`
	Identity string `json:"identity,omitempty"`
	Account  string `json:"account,omitempty"`
	Err      error  `json:"-"`
}

func (e *VerifyError) Error() string {
	subject := e.Identity
	if subject == "" {
		subject = e.Account
	}
	if subject == "" {
		subject = "unknown"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Reason, subject, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Reason, subject)
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}

// NewVerifyError creates a new VerifyError
func NewVerifyError(reason string, identity string, account string, err error) *VerifyError {
	return &VerifyError{
		Reason:   reason,
		Identity: identity,
		Account:  account,
		Err:      err,
	}
}

// IsInfrastructureError reports whether err means the chain could not be consulted
func IsInfrastructureError(err error) bool {
	var verr *VerifyError
	return errors.As(err, &verr)
}

// classifyError picks the reason for a failed provider round trip
// Deadline overruns win over the operation-specific reason
func classifyError(ctx context.Context, fallback string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return fallback
}
