package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
)

func TestGetEvmChainId(t *testing.T) {
	tests := []struct {
		network string
		want    int64
		wantErr bool
	}{
		{network: "eip155:137", want: 137},
		{network: "polygon", want: 137},
		{network: "Amoy", want: 80002},
		{network: "mainnet", want: 1},
		{network: "eip155:31337", want: 31337},
		{network: "solana:mainnet", wantErr: true},
		{network: "eip155:abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			got, err := GetEvmChainId(tt.network)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Int64() != tt.want {
				t.Errorf("GetEvmChainId(%q) = %v, want %d", tt.network, got, tt.want)
			}
		})
	}
}

func TestGetNetworkConfig(t *testing.T) {
	cfg, err := GetNetworkConfig("polygon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FactoryAddress != KernelFactoryPolygon {
		t.Errorf("factory = %s", cfg.FactoryAddress)
	}

	if _, err := GetNetworkConfig("eip155:31337"); err == nil {
		t.Error("expected error for a network without defaults")
	}
}

func TestParseHash(t *testing.T) {
	hash, err := ParseHash("0xec3608877ecbf8084c29896b7eab2a368b2b3c8d003288584d145613dfa4706c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if common.Hash(hash) != common.HexToHash("0xec3608877ecbf8084c29896b7eab2a368b2b3c8d003288584d145613dfa4706c") {
		t.Errorf("unexpected hash %x", hash)
	}

	if _, err := ParseHash("0x1234"); err == nil {
		t.Error("expected length error")
	}
	if _, err := ParseHash("0xzz"); err == nil {
		t.Error("expected hex error")
	}
}

func TestHashPersonalMessage(t *testing.T) {
	msg := []byte("hello")
	got := HashPersonalMessage(msg)
	if common.BytesToHash(accounts.TextHash(msg)) != common.Hash(got) {
		t.Errorf("HashPersonalMessage() = %x", got)
	}
}

func TestAddressHelpers(t *testing.T) {
	if !IsValidAddress("0x33DDF684dcc6937FfE59D8405aA80c41fB518C5c") {
		t.Error("expected valid address")
	}
	if IsValidAddress("0x1234") {
		t.Error("expected invalid address")
	}
}
