package evm

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// mockChainReader is a scriptable ChainReader
//
// Code is looked up per address in code. Calls with an empty to go to deploylessFn, all
// others to callFn. ReadContract goes to readContractFn.
type mockChainReader struct {
	mu sync.Mutex

	code         map[common.Address][]byte
	getCodeError error

	readContractFn func(address string, functionName string, args ...interface{}) (interface{}, error)
	callFn         func(to string, data []byte) ([]byte, error)
	deploylessFn   func(data []byte) ([]byte, error)

	getCodeCalls      int
	readContractCalls int
	callCalls         int
	deploylessCalls   int
}

func newMockChainReader() *mockChainReader {
	return &mockChainReader{code: map[common.Address][]byte{}}
}

func (m *mockChainReader) setCode(address common.Address, code []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code[address] = code
}

func (m *mockChainReader) GetCode(ctx context.Context, address string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCodeCalls++
	if m.getCodeError != nil {
		return nil, m.getCodeError
	}
	return m.code[common.HexToAddress(address)], nil
}

func (m *mockChainReader) ReadContract(
	ctx context.Context,
	address string,
	abi []byte,
	functionName string,
	args ...interface{},
) (interface{}, error) {
	m.mu.Lock()
	m.readContractCalls++
	fn := m.readContractFn
	m.mu.Unlock()

	if fn == nil {
		return nil, &RevertError{Reason: "no contract"}
	}
	return fn(address, functionName, args...)
}

func (m *mockChainReader) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	m.mu.Lock()
	callFn, deploylessFn := m.callFn, m.deploylessFn
	if to == "" {
		m.deploylessCalls++
	} else {
		m.callCalls++
	}
	m.mu.Unlock()

	if to == "" {
		if deploylessFn == nil {
			return nil, &RevertError{Reason: "no validator"}
		}
		return deploylessFn(data)
	}
	if callFn == nil {
		return nil, &RevertError{Reason: "no contract"}
	}
	return callFn(to, data)
}

// magicWord is isValidSignature's success return, left-aligned in a word
func magicWord() []byte {
	word := make([]byte, 32)
	copy(word, eip1271MagicValue)
	return word
}

// mockSimulator records what it was asked to simulate
type mockSimulator struct {
	valid bool
	err   error

	calls     int
	signer    common.Address
	hash      [32]byte
	signature []byte
}

func (s *mockSimulator) Simulate(ctx context.Context, signer common.Address, hash [32]byte, signature []byte) (bool, error) {
	s.calls++
	s.signer = signer
	s.hash = hash
	s.signature = signature
	return s.valid, s.err
}
