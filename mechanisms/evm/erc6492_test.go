package evm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// TestIsERC6492Signature tests ERC-6492 suffix detection
func TestIsERC6492Signature(t *testing.T) {
	tests := []struct {
		name string
		sig  []byte
		want bool
	}{
		{
			name: "valid ERC-6492 suffix",
			sig:  append(make([]byte, 100), erc6492MagicBytes...),
			want: true,
		},
		{
			name: "EOA signature (65 bytes)",
			sig:  make([]byte, 65),
			want: false,
		},
		{
			name: "short signature",
			sig:  make([]byte, 10),
			want: false,
		},
		{
			name: "empty signature",
			sig:  []byte{},
			want: false,
		},
		{
			name: "signature with wrong magic",
			sig:  append(make([]byte, 100), make([]byte, 32)...),
			want: false,
		},
		{
			name: "only the magic",
			sig:  erc6492MagicBytes,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsERC6492Signature(tt.sig)
			if got != tt.want {
				t.Errorf("IsERC6492Signature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMagicBytesLength(t *testing.T) {
	if len(erc6492MagicBytes) != 32 {
		t.Fatalf("expected 32-byte magic, got %d", len(erc6492MagicBytes))
	}
	for i := 0; i < len(erc6492MagicBytes); i += 2 {
		if erc6492MagicBytes[i] != 0x64 || erc6492MagicBytes[i+1] != 0x92 {
			t.Fatalf("unexpected magic byte pair at %d: %x", i, erc6492MagicBytes[i:i+2])
		}
	}
}

func TestUniversalSignatureEncode(t *testing.T) {
	factory := common.HexToAddress("0x33DDF684dcc6937FfE59D8405aA80c41fB518C5c")
	calldata := []byte{0x5f, 0xbf, 0xb9, 0xcf, 0x01, 0x02}
	inner := bytes.Repeat([]byte{0xab}, 97)

	t.Run("direct encodes to itself", func(t *testing.T) {
		encoded, err := DirectSignature(inner).Encode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(encoded, inner) {
			t.Error("direct signature must pass through unchanged")
		}
	})

	t.Run("pre-deploy ends with magic and decodes back", func(t *testing.T) {
		encoded, err := PreDeploySignature(factory, calldata, inner).Encode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !IsERC6492Signature(encoded) {
			t.Fatal("expected magic suffix")
		}

		decoded, err := DecodeUniversalSignature(encoded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded.Kind != SignaturePreDeploy {
			t.Fatalf("expected pre-deploy, got %s", decoded.Kind)
		}
		if decoded.Factory != factory {
			t.Errorf("factory = %s, want %s", decoded.Factory.Hex(), factory.Hex())
		}
		if !bytes.Equal(decoded.FactoryCalldata, calldata) {
			t.Errorf("factory calldata = %x, want %x", decoded.FactoryCalldata, calldata)
		}
		if !bytes.Equal(decoded.Signature, inner) {
			t.Errorf("inner signature = %x, want %x", decoded.Signature, inner)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := UniversalSignature{Kind: SignatureKind(7)}.Encode()
		if err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})
}

func TestDecodeUniversalSignature(t *testing.T) {
	t.Run("plain signature is direct", func(t *testing.T) {
		sig := bytes.Repeat([]byte{0x11}, 130)
		decoded, err := DecodeUniversalSignature(sig)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded.Kind != SignatureDirect || !bytes.Equal(decoded.Signature, sig) {
			t.Error("expected unchanged direct signature")
		}
	})

	t.Run("65 bytes ending in magic is still direct", func(t *testing.T) {
		sig := append(bytes.Repeat([]byte{0x22}, 33), erc6492MagicBytes...)
		if len(sig) != EOASignatureLength {
			t.Fatalf("test setup: expected 65 bytes, got %d", len(sig))
		}
		decoded, err := DecodeUniversalSignature(sig)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded.Kind != SignatureDirect {
			t.Errorf("expected direct, got %s", decoded.Kind)
		}
	})

	t.Run("undecodable payload is malformed", func(t *testing.T) {
		// Offsets point far past the end of the payload
		sig := append(bytes.Repeat([]byte{0xff}, 96), erc6492MagicBytes...)
		_, err := DecodeUniversalSignature(sig)
		if !errors.Is(err, ErrMalformedEnvelope) {
			t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
		}
	})

	t.Run("truncated payload is malformed", func(t *testing.T) {
		sig := append(make([]byte, 10), erc6492MagicBytes...)
		_, err := DecodeUniversalSignature(sig)
		if !errors.Is(err, ErrMalformedEnvelope) {
			t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
		}
	})
}

func TestSignatureKindString(t *testing.T) {
	if SignatureDirect.String() != "direct" {
		t.Errorf("unexpected %q", SignatureDirect.String())
	}
	if SignaturePreDeploy.String() != "pre-deploy" {
		t.Errorf("unexpected %q", SignaturePreDeploy.String())
	}
	if SignatureKind(9).String() != "SignatureKind(9)" {
		t.Errorf("unexpected %q", SignatureKind(9).String())
	}
}
