package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kernel-auth/sigverify/mechanisms/evm"
)

// Digest computes the 32-byte digest the request selects
func (r *VerifyRequest) Digest() ([32]byte, error) {
	var sources int
	for _, set := range []bool{r.Hash != "", r.Message != "", len(r.TypedData) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return [32]byte{}, errors.New("exactly one of hash, message or typedData is required")
	}

	switch {
	case r.Hash != "":
		return evm.ParseHash(r.Hash)
	case r.Message != "":
		return evm.HashPersonalMessage([]byte(r.Message)), nil
	default:
		return evm.HashTypedDataJSON(r.TypedData)
	}
}

// SignatureBytes decodes the hex signature
func (r *VerifyRequest) SignatureBytes() ([]byte, error) {
	return DecodeHex("signature", r.Signature)
}

// SignatureBytes decodes the hex signature
func (r *FormatRequest) SignatureBytes() ([]byte, error) {
	return DecodeHex("signature", r.Signature)
}

// DecodeHex decodes a 0x-prefixed hex field, naming the field in the error
func DecodeHex(field string, value string) ([]byte, error) {
	decoded, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return decoded, nil
}

// NewAccountResponse builds the response for an account lookup
func NewAccountResponse(account *evm.Account, deployed bool) AccountResponse {
	return AccountResponse{
		Identity:         account.Identity,
		Account:          account.Address.Hex(),
		Salt:             account.Salt.Hex(),
		Factory:          account.Factory.Hex(),
		CreationCalldata: account.CreationCalldata.String(),
		Deployed:         deployed,
	}
}

// NewFormatResponse builds the response for a format request
func NewFormatResponse(formatted *evm.FormattedSignature) FormatResponse {
	return FormatResponse{
		Identity:  formatted.Account.Identity,
		Account:   formatted.Account.Address.Hex(),
		Factory:   formatted.Account.Factory.Hex(),
		Deployed:  formatted.Deployed,
		Kind:      formatted.Envelope.Kind.String(),
		Signature: hexutil.Encode(formatted.Signature),
	}
}

// NewVerifyResponse builds the response for a verification of a pre-formatted signature
func NewVerifyResponse(result *evm.VerificationResult, account common.Address, digest [32]byte) VerifyResponse {
	return VerifyResponse{
		IsValid: result.Valid,
		Path:    string(result.Path),
		Reason:  result.Reason,
		Account: account.Hex(),
		Digest:  hexutil.Encode(digest[:]),
	}
}
