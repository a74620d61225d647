package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifyEOASignature recovers the signer of a 65-byte r || s || v signature and compares it
// with expectedAddress
//
// v may be 0/1 or 27/28. Any other v is rejected with an error, as is any other length.
func VerifyEOASignature(
	hash []byte,
	signature []byte,
	expectedAddress common.Address,
) (bool, error) {
	if len(signature) != EOASignatureLength {
		return false, fmt.Errorf("invalid EOA signature length: expected %d bytes, got %d", EOASignatureLength, len(signature))
	}

	// Work on a copy, the caller's signature must stay untouched
	sig := make([]byte, EOASignatureLength)
	copy(sig, signature)

	switch v := sig[64]; v {
	case 0, 1:
	case 27, 28:
		sig[64] = v - 27
	default:
		return false, fmt.Errorf("invalid EOA signature v value: %d", v)
	}

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return false, err
	}

	return crypto.PubkeyToAddress(*pubKey) == expectedAddress, nil
}
