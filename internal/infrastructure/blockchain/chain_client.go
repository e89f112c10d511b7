package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"tburn-scan.backend/pkg/tburnaddr"
)

var (
	dialChainClient  = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// ChainClient provides TBURN chain RPC interaction. The chain speaks the
// standard EVM JSON-RPC surface; addresses cross the wire as 20-byte
// payloads regardless of their native bech32m text form.
type ChainClient struct {
	client  *ethclient.Client
	chainID *big.Int
	rpcURL  string
	// testCallView allows deterministic unit tests without network sockets.
	testCallView func(ctx context.Context, to string, data []byte) ([]byte, error)
}

// NewChainClient dials the RPC endpoint and verifies it answers a chain ID
// query before returning.
func NewChainClient(rpcURL string) (*ChainClient, error) {
	client, err := dialChainClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		return nil, err
	}

	return &ChainClient{
		client:  client,
		chainID: chainID,
		rpcURL:  rpcURL,
	}, nil
}

// NewChainClientWithCallView creates a client that serves CallView from an
// injected function. Intended for unit tests where RPC sockets are
// unavailable.
func NewChainClientWithCallView(chainID *big.Int, callViewFn func(ctx context.Context, to string, data []byte) ([]byte, error)) *ChainClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &ChainClient{
		chainID:      chainID,
		testCallView: callViewFn,
	}
}

// ChainID returns the chain ID reported by the endpoint at dial time.
func (c *ChainClient) ChainID() *big.Int {
	return c.chainID
}

// BlockNumber gets the latest block number.
func (c *ChainClient) BlockNumber(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}

// EstimateGas estimates gas for a transaction.
func (c *ChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return c.client.EstimateGas(ctx, msg)
}

// SuggestGasPrice returns the node's suggested gas price.
func (c *ChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.client.SuggestGasPrice(ctx)
}

// SuggestGasTipCap returns the node's suggested priority fee.
func (c *ChainClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return c.client.SuggestGasTipCap(ctx)
}

// TransactionReceipt gets the receipt for a mined transaction.
func (c *ChainClient) TransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	hash := common.HexToHash(txHash)
	return c.client.TransactionReceipt(ctx, hash)
}

// CallView executes a read-only contract call. The target address may be
// in native bech32m or legacy hex form.
func (c *ChainClient) CallView(ctx context.Context, to string, data []byte) ([]byte, error) {
	if c.testCallView != nil {
		return c.testCallView(ctx, to, data)
	}
	addr, err := toWireAddress(to)
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	return c.client.CallContract(ctx, msg, nil)
}

// Close closes the client connection.
func (c *ChainClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// toWireAddress converts a native or legacy address string into the
// 20-byte form the RPC surface expects.
func toWireAddress(address string) (common.Address, error) {
	payload, err := tburnaddr.PayloadBytes(address)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(payload), nil
}
