package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/accounts"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/artifacts"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// DefaultPollInterval is how often the deployer asks for the creation receipt
const DefaultPollInterval = 2 * time.Second

// gasHeadroomPercent is added on top of the node's gas estimate
const gasHeadroomPercent = 20

// ArtifactSource provides the compiled contract
type ArtifactSource interface {
	Load() (*artifacts.Artifact, error)
}

// SignerSource picks the signing key for a network profile
type SignerSource interface {
	SignerFor(profile domain.NetworkProfile) (*accounts.Signer, error)
}

// Deployer signs and broadcasts the Splitter creation transaction
type Deployer struct {
	networks  usecase.NetworkResolver
	signers   SignerSource
	artifacts ArtifactSource
	encoder   *ConstructorEncoder
	log       *slog.Logger

	dial         DialFunc
	pollInterval time.Duration
}

// NewDeployer creates a new deployer adapter
func NewDeployer(
	networks usecase.NetworkResolver,
	signers *accounts.LocalAccounts,
	loader *artifacts.Loader,
	encoder *ConstructorEncoder,
	log *slog.Logger,
) *Deployer {
	return &Deployer{
		networks:     networks,
		signers:      signers,
		artifacts:    loader,
		encoder:      encoder,
		log:          log.With("component", "deployer"),
		dial:         DialEthClient,
		pollInterval: DefaultPollInterval,
	}
}

// Account returns the deployer address and its current balance
func (d *Deployer) Account(ctx context.Context, profile domain.NetworkProfile) (*domain.DeployerAccount, error) {
	network, err := d.networks.ResolveNetwork(ctx, profile)
	if err != nil {
		return nil, err
	}
	signer, err := d.signers.SignerFor(profile)
	if err != nil {
		return nil, err
	}

	client, _, err := connect(ctx, d.dial, network)
	if err != nil {
		return nil, domain.NewDeploymentError("connect", err)
	}
	defer client.Close()

	balance, err := client.BalanceAt(ctx, signer.Address, nil)
	if err != nil {
		return nil, domain.NewDeploymentError("get deployer balance", err)
	}

	return &domain.DeployerAccount{Address: signer.Address.Hex(), Balance: balance}, nil
}

// Validate loads the artifact and encodes the constructor values
func (d *Deployer) Validate(variant domain.ContractVariant, positional []any) error {
	_, _, err := d.prepare(variant, positional)
	return err
}

func (d *Deployer) prepare(variant domain.ContractVariant, positional []any) (*artifacts.Artifact, []byte, error) {
	artifact, err := d.artifacts.Load()
	if err != nil {
		return nil, nil, err
	}
	args, err := d.encoder.Encode(artifact.ABI, variant, positional)
	if err != nil {
		return nil, nil, err
	}
	return artifact, args, nil
}

// Deploy sends one creation transaction and waits for its receipt.
// Validation happens before dialing so that bad input never reaches the chain.
func (d *Deployer) Deploy(ctx context.Context, profile domain.NetworkProfile, variant domain.ContractVariant, positional []any) (*domain.DeployedContract, error) {
	artifact, args, err := d.prepare(variant, positional)
	if err != nil {
		return nil, err
	}
	network, err := d.networks.ResolveNetwork(ctx, profile)
	if err != nil {
		return nil, err
	}
	signer, err := d.signers.SignerFor(profile)
	if err != nil {
		return nil, err
	}

	client, chainID, err := connect(ctx, d.dial, network)
	if err != nil {
		return nil, domain.NewDeploymentError("connect", err)
	}
	defer client.Close()

	if err := accounts.CheckChain(signer, chainID); err != nil {
		return nil, err
	}

	input := append(append([]byte(nil), artifact.Bytecode...), args...)
	tx, err := d.buildTx(ctx, client, chainID, signer.Address, input)
	if err != nil {
		return nil, domain.NewDeploymentError("prepare creation transaction", err)
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), signer.Key)
	if err != nil {
		return nil, domain.NewDeploymentError("sign creation transaction", err)
	}

	d.log.Debug("sending creation transaction",
		"network", profile,
		"chain_id", chainID,
		"from", signer.Address.Hex(),
		"nonce", signed.Nonce(),
		"gas", signed.Gas(),
		"input_bytes", len(input))

	if err := client.SendTransaction(ctx, signed); err != nil {
		return nil, domain.NewDeploymentError("send creation transaction", err)
	}

	txHash := signed.Hash()
	receipt, err := d.waitForReceipt(ctx, client, txHash)
	if err != nil {
		return nil, &domain.Error{Kind: domain.ErrKindDeployment, Op: "wait for receipt", TxHash: txHash.Hex(), Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.Error{Kind: domain.ErrKindDeployment, Op: "deploy", TxHash: txHash.Hex(), Err: errors.New("creation transaction reverted")}
	}

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = crypto.CreateAddress(signer.Address, signed.Nonce())
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}

	return &domain.DeployedContract{
		Address:     address.Hex(),
		TxHash:      txHash.Hex(),
		ChainID:     chainID.Uint64(),
		BlockNumber: block,
		Deployer:    signer.Address.Hex(),
	}, nil
}

// buildTx fills nonce, fees and gas. EIP-1559 when the head has a base fee, legacy otherwise.
func (d *Deployer) buildTx(ctx context.Context, client ChainClient, chainID *big.Int, from common.Address, input []byte) (*types.Transaction, error) {
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get latest header: %w", err)
	}

	msg := ethereum.CallMsg{From: from, Data: input, Value: big.NewInt(0)}

	if head.BaseFee == nil {
		gasPrice, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("suggest gas price: %w", err)
		}
		msg.GasPrice = gasPrice
		gas, err := estimateGas(ctx, client, msg)
		if err != nil {
			return nil, err
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			Value:    big.NewInt(0),
			Data:     input,
		}), nil
	}

	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas tip cap: %w", err)
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	msg.GasTipCap = tipCap
	msg.GasFeeCap = feeCap

	gas, err := estimateGas(ctx, client, msg)
	if err != nil {
		return nil, err
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gas,
		Value:     big.NewInt(0),
		Data:      input,
	}), nil
}

func estimateGas(ctx context.Context, client ChainClient, msg ethereum.CallMsg) (uint64, error) {
	gas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("estimate gas: %w", err)
	}
	return gas + gas*gasHeadroomPercent/100, nil
}

// waitForReceipt polls until the receipt exists or ctx is done
func (d *Deployer) waitForReceipt(ctx context.Context, client ChainClient, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			d.log.Debug("receipt lookup failed, retrying", "tx", txHash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transaction %s not mined: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Ensure the adapter implements the interface
var _ usecase.ContractDeployer = (*Deployer)(nil)
