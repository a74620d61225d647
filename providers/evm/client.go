package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	sigevm "github.com/kernel-auth/sigverify/mechanisms/evm"
)

// Backend is the subset of ethclient.Client the ChainClient uses
// Both *ethclient.Client and the simulated backend's client satisfy it
type Backend interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// vmFailures are error fragments nodes use when eth_call ran but the EVM halted abnormally
var vmFailures = []string{
	"execution reverted",
	"invalid opcode",
	"invalid jump",
	"out of gas",
	"stack underflow",
	"write protection",
}

// ChainClient implements sigevm.ChainReader over a JSON-RPC endpoint.
// All reads run against the latest block and never send transactions.
type ChainClient struct {
	backend Backend
	closer  func()
}

// Dial connects to an RPC endpoint
//
// Args:
//
//	ctx: Context for the dial
//	rpcURL: HTTP(S) or WS(S) endpoint of the chain data provider
//
// Returns:
//
//	ChainClient ready for use with sigevm.NewUniversalVerifier()
//	Error if the endpoint cannot be dialed
func Dial(ctx context.Context, rpcURL string) (*ChainClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return &ChainClient{backend: client, closer: client.Close}, nil
}

// NewChainClient wraps an existing backend
func NewChainClient(backend Backend) *ChainClient {
	return &ChainClient{backend: backend}
}

// Close releases the underlying connection when the client owns it
func (c *ChainClient) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// ChainID returns the chain ID of the connected network
func (c *ChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	return c.backend.ChainID(ctx)
}

// GetCode returns the bytecode at address in the latest block
func (c *ChainClient) GetCode(ctx context.Context, address string) ([]byte, error) {
	return c.backend.CodeAt(ctx, common.HexToAddress(address), nil)
}

// Call executes calldata with eth_call; an empty to makes it a creation call
func (c *ChainClient) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{Data: data}
	if to != "" {
		addr := common.HexToAddress(to)
		msg.To = &addr
	}

	result, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, classifyCallError(err)
	}
	return result, nil
}

// ReadContract reads data from a smart contract
func (c *ChainClient) ReadContract(
	ctx context.Context,
	contractAddress string,
	abiJSON []byte,
	functionName string,
	args ...interface{},
) (interface{}, error) {
	parsedABI, err := abi.JSON(strings.NewReader(string(abiJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := parsedABI.Pack(functionName, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	resultBytes, err := c.Call(ctx, contractAddress, data)
	if err != nil {
		return nil, err
	}

	unpacked, err := parsedABI.Unpack(functionName, resultBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	if len(unpacked) == 0 {
		return nil, nil
	}
	if len(unpacked) == 1 {
		return unpacked[0], nil
	}
	return unpacked, nil
}

// classifyCallError separates "the call ran and failed" from "the node could not be asked"
func classifyCallError(err error) error {
	// Every JSON-RPC error implements DataError; only reverts carry data
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		revert := &sigevm.RevertError{Reason: err.Error()}
		if data, ok := dataErr.ErrorData().(string); ok {
			revert.Data = common.FromHex(data)
		}
		return revert
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		msg := strings.ToLower(rpcErr.Error())
		for _, fragment := range vmFailures {
			if strings.Contains(msg, fragment) {
				return &sigevm.RevertError{Reason: rpcErr.Error()}
			}
		}
	}
	return err
}
