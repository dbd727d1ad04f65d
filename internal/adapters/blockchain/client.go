package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// ChainClient is the subset of ethclient.Client the deployer needs
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// DialFunc opens a ChainClient for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (ChainClient, error)

// DialEthClient is the production DialFunc
func DialEthClient(ctx context.Context, rpcURL string) (ChainClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// connect dials the network and checks that the node serves the expected chain.
// A zero network.ChainID accepts whatever the node reports.
func connect(ctx context.Context, dial DialFunc, network *config.Network) (ChainClient, *big.Int, error) {
	client, err := dial(ctx, network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC %s: %w", network.RPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, nil, fmt.Errorf("chain ID mismatch on %s: expected %d, got %d", network.Name, network.ChainID, chainID.Uint64())
	}

	return client, chainID, nil
}

// Ensure ethclient satisfies ChainClient
var _ ChainClient = (*ethclient.Client)(nil)
