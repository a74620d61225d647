package evm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestUniversalVerifier_EOA(t *testing.T) {
	ctx := context.Background()

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	var hash [32]byte
	copy(hash[:], crypto.Keccak256([]byte("test message")))

	sig, err := crypto.Sign(hash[:], privateKey)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	sig[64] += 27

	mock := newMockChainReader()
	simulator := &mockSimulator{}
	verifier := NewUniversalVerifier(mock, &UniversalVerifierConfig{Simulator: simulator})

	t.Run("valid EOA signature", func(t *testing.T) {
		result, err := verifier.Verify(ctx, address, hash, sig)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid || result.Path != PathEOA {
			t.Errorf("got %+v, want valid via eoa", result)
		}
	})

	t.Run("wrong address", func(t *testing.T) {
		result, err := verifier.Verify(ctx, common.HexToAddress("0x01"), hash, sig)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid || result.Path != PathEOA || result.Reason != ErrInvalidSignature {
			t.Errorf("got %+v, want invalid via eoa", result)
		}
	})

	t.Run("unrecoverable signature is invalid, not an error", func(t *testing.T) {
		bad := make([]byte, 65)
		bad[64] = 99
		result, err := verifier.Verify(ctx, address, hash, bad)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid {
			t.Error("expected invalid")
		}
	})

	if simulator.calls != 0 {
		t.Errorf("65-byte signatures must never reach the simulator, got %d calls", simulator.calls)
	}
}

func TestUniversalVerifier_EIP1271(t *testing.T) {
	ctx := context.Background()
	wallet := common.HexToAddress("0x1234567890123456789012345678901234567890")
	hash := [32]byte{1, 2, 3}
	signature := make([]byte, 100)

	tests := []struct {
		name      string
		signature []byte
		callFn    func(string, []byte) ([]byte, error)
		want      bool
		wantErr   bool
	}{
		{
			name:      "wallet accepts",
			signature: signature,
			callFn:    func(string, []byte) ([]byte, error) { return magicWord(), nil },
			want:      true,
		},
		{
			name:      "wallet rejects",
			signature: signature,
			callFn:    func(string, []byte) ([]byte, error) { return make([]byte, 32), nil },
			want:      false,
		},
		{
			name:      "wallet reverts",
			signature: signature,
			callFn:    func(string, []byte) ([]byte, error) { return nil, &RevertError{Reason: "nope"} },
			want:      false,
		},
		{
			name:      "65-byte signature on a deployed wallet uses ERC-1271",
			signature: make([]byte, 65),
			callFn:    func(string, []byte) ([]byte, error) { return magicWord(), nil },
			want:      true,
		},
		{
			name:      "provider failure",
			signature: signature,
			callFn:    func(string, []byte) ([]byte, error) { return nil, errors.New("503") },
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockChainReader()
			mock.setCode(wallet, []byte{0x60, 0x80})
			mock.callFn = tt.callFn

			result, err := NewUniversalVerifier(mock, nil).Verify(ctx, wallet, hash, tt.signature)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Valid != tt.want || result.Path != PathERC1271 {
				t.Errorf("got %+v, want valid=%v via erc1271", result, tt.want)
			}
		})
	}
}

func TestUniversalVerifier_ERC6492(t *testing.T) {
	ctx := context.Background()
	wallet := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	hash := [32]byte{0x42}
	inner := bytes.Repeat([]byte{0x07}, 100)

	envelope, err := PreDeploySignature(common.HexToAddress(KernelFactoryPolygon), []byte{0x5f, 0xbf}, inner).Encode()
	if err != nil {
		t.Fatalf("failed to encode envelope: %v", err)
	}

	t.Run("simulation accepts", func(t *testing.T) {
		mock := newMockChainReader()
		simulator := &mockSimulator{valid: true}
		verifier := NewUniversalVerifier(mock, &UniversalVerifierConfig{Simulator: simulator})

		result, err := verifier.Verify(ctx, wallet, hash, envelope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid || result.Path != PathERC6492 {
			t.Errorf("got %+v, want valid via erc6492", result)
		}
		if simulator.calls != 1 || simulator.signer != wallet || simulator.hash != hash {
			t.Errorf("simulator called %d times with %s %x", simulator.calls, simulator.signer.Hex(), simulator.hash)
		}
		if !bytes.Equal(simulator.signature, envelope) {
			t.Error("simulator must receive the full envelope")
		}
		if mock.callCalls != 0 {
			t.Error("pre-deploy signatures must not call the wallet directly")
		}
	})

	t.Run("simulation rejects", func(t *testing.T) {
		verifier := NewUniversalVerifier(newMockChainReader(), &UniversalVerifierConfig{Simulator: &mockSimulator{valid: false}})
		result, err := verifier.Verify(ctx, wallet, hash, envelope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid || result.Path != PathERC6492 {
			t.Errorf("got %+v, want invalid via erc6492", result)
		}
	})

	t.Run("simulation cannot run", func(t *testing.T) {
		verifier := NewUniversalVerifier(newMockChainReader(), &UniversalVerifierConfig{
			Simulator: &mockSimulator{err: errors.New("connection refused")},
		})
		if _, err := verifier.Verify(ctx, wallet, hash, envelope); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("default simulator is deployless", func(t *testing.T) {
		mock := newMockChainReader()
		mock.deploylessFn = func([]byte) ([]byte, error) { return []byte{0x01}, nil }

		result, err := NewUniversalVerifier(mock, nil).Verify(ctx, wallet, hash, envelope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid {
			t.Error("expected valid")
		}
		if mock.deploylessCalls != 1 {
			t.Errorf("expected one deployless call, got %d", mock.deploylessCalls)
		}
	})
}

func TestUniversalVerifier_Rejections(t *testing.T) {
	ctx := context.Background()
	wallet := common.HexToAddress("0x00000000000000000000000000000000deadbeef")
	hash := [32]byte{0x42}

	t.Run("malformed envelope", func(t *testing.T) {
		simulator := &mockSimulator{valid: true}
		verifier := NewUniversalVerifier(newMockChainReader(), &UniversalVerifierConfig{Simulator: simulator})

		sig := append(bytes.Repeat([]byte{0xff}, 96), erc6492MagicBytes...)
		result, err := verifier.Verify(ctx, wallet, hash, sig)
		if err != nil {
			t.Fatalf("malformed envelopes are not infrastructure errors: %v", err)
		}
		if result.Valid || result.Path != PathMalformed || result.Reason != ErrMalformedSignature {
			t.Errorf("got %+v, want malformed", result)
		}
		if simulator.calls != 0 {
			t.Error("malformed envelopes must not be simulated")
		}
	})

	t.Run("undeployed without deployment data", func(t *testing.T) {
		result, err := NewUniversalVerifier(newMockChainReader(), nil).Verify(ctx, wallet, hash, make([]byte, 100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid || result.Path != PathUndeployed || result.Reason != ErrUndeployedSmartWallet {
			t.Errorf("got %+v, want undeployed", result)
		}
	})

	t.Run("code lookup fails", func(t *testing.T) {
		mock := newMockChainReader()
		mock.getCodeError = errors.New("connection refused")
		if _, err := NewUniversalVerifier(mock, nil).Verify(ctx, wallet, hash, make([]byte, 65)); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUniversalVerifier_IsValid(t *testing.T) {
	wallet := common.HexToAddress("0x1234567890123456789012345678901234567890")
	mock := newMockChainReader()
	mock.setCode(wallet, []byte{0x60, 0x80})
	mock.callFn = func(string, []byte) ([]byte, error) { return magicWord(), nil }

	valid, err := NewUniversalVerifier(mock, nil).IsValid(context.Background(), wallet, [32]byte{}, []byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid")
	}
}
