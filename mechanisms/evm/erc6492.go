package evm

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// erc6492MagicBytes is the 32-byte magic value suffix for ERC-6492 signatures
var erc6492MagicBytes = common.FromHex(ERC6492MagicValue)

// erc6492Arguments describes the envelope payload: (address factory, bytes factoryCalldata, bytes signature)
var erc6492Arguments = func() abi.Arguments {
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid address type: %w", err))
	}
	bytesTy, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid bytes type: %w", err))
	}
	return abi.Arguments{
		{Type: addressTy, Name: "create2Factory"},
		{Type: bytesTy, Name: "factoryCalldata"},
		{Type: bytesTy, Name: "signature"},
	}
}()

// SignatureKind discriminates the two shapes of a universal signature
type SignatureKind int

const (
	// SignatureDirect is a plain ERC-1271 or ECDSA signature for an account that already exists
	SignatureDirect SignatureKind = iota
	// SignaturePreDeploy is an ERC-6492 envelope: deploy through the factory first, then validate
	SignaturePreDeploy
)

func (k SignatureKind) String() string {
	switch k {
	case SignatureDirect:
		return "direct"
	case SignaturePreDeploy:
		return "pre-deploy"
	default:
		return fmt.Sprintf("SignatureKind(%d)", int(k))
	}
}

// UniversalSignature is either Direct(signature) or PreDeploy(factory, calldata, signature)
//
// Factory and FactoryCalldata are only meaningful for SignaturePreDeploy.
type UniversalSignature struct {
	Kind            SignatureKind
	Factory         common.Address
	FactoryCalldata []byte
	Signature       []byte
}

// DirectSignature wraps a signature that is passed through unchanged
func DirectSignature(sig []byte) UniversalSignature {
	return UniversalSignature{Kind: SignatureDirect, Signature: sig}
}

// PreDeploySignature wraps a signature with the data needed to deploy its account first
func PreDeploySignature(factory common.Address, factoryCalldata []byte, sig []byte) UniversalSignature {
	return UniversalSignature{
		Kind:            SignaturePreDeploy,
		Factory:         factory,
		FactoryCalldata: factoryCalldata,
		Signature:       sig,
	}
}

// Encode returns the wire form
//
// Direct signatures encode to themselves. Pre-deploy signatures encode as
//
//	abi.encode(address factory, bytes factoryCalldata, bytes signature) ++ magicBytes
func (u UniversalSignature) Encode() ([]byte, error) {
	switch u.Kind {
	case SignatureDirect:
		return u.Signature, nil
	case SignaturePreDeploy:
		packed, err := erc6492Arguments.Pack(u.Factory, u.FactoryCalldata, u.Signature)
		if err != nil {
			return nil, fmt.Errorf("failed to pack ERC-6492 signature: %w", err)
		}
		return append(packed, erc6492MagicBytes...), nil
	default:
		return nil, fmt.Errorf("unknown signature kind: %s", u.Kind)
	}
}

// IsERC6492Signature checks if a signature has the ERC-6492 magic suffix
//
// A suffix match alone does not make a signature an envelope; see DecodeUniversalSignature.
func IsERC6492Signature(sig []byte) bool {
	if len(sig) < len(erc6492MagicBytes) {
		return false
	}
	return bytes.Equal(sig[len(sig)-len(erc6492MagicBytes):], erc6492MagicBytes)
}

// DecodeUniversalSignature classifies a wire signature
//
// A signature is PreDeploy only if it ends with the magic suffix AND the remaining payload
// ABI-decodes as (address, bytes, bytes). A 65-byte signature is always Direct, since no
// envelope can be that short. Any other signature ending in the suffix that fails to decode
// yields ErrMalformedEnvelope.
func DecodeUniversalSignature(sig []byte) (UniversalSignature, error) {
	if !IsERC6492Signature(sig) || len(sig) == EOASignatureLength {
		return DirectSignature(sig), nil
	}

	// Strip magic value
	payload := sig[:len(sig)-len(erc6492MagicBytes)]

	unpacked, err := erc6492Arguments.Unpack(payload)
	if err != nil {
		return UniversalSignature{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(unpacked) != 3 {
		return UniversalSignature{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedEnvelope, len(unpacked))
	}

	factory, ok := unpacked[0].(common.Address)
	if !ok {
		return UniversalSignature{}, fmt.Errorf("%w: factory is not an address", ErrMalformedEnvelope)
	}
	factoryCalldata, ok := unpacked[1].([]byte)
	if !ok {
		return UniversalSignature{}, fmt.Errorf("%w: factoryCalldata is not bytes", ErrMalformedEnvelope)
	}
	innerSignature, ok := unpacked[2].([]byte)
	if !ok {
		return UniversalSignature{}, fmt.Errorf("%w: signature is not bytes", ErrMalformedEnvelope)
	}

	return PreDeploySignature(factory, factoryCalldata, innerSignature), nil
}
