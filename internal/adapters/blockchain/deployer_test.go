package blockchain

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/accounts"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/artifacts"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

const deployerAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

type fakeChain struct {
	mu sync.Mutex

	chainID      int64
	baseFee      *big.Int
	nonce        uint64
	balance      *big.Int
	status       uint64
	pendingPolls int
	neverMined   bool
	contract     common.Address

	sent   []*types.Transaction
	polls  int
	closed int
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) { return big.NewInt(f.chainID), nil }

func (f *fakeChain) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeChain) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: f.baseFee}, nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) { return big.NewInt(3e9), nil }

func (f *fakeChain) SuggestGasTipCap(context.Context) (*big.Int, error) { return big.NewInt(1e9), nil }

func (f *fakeChain) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.neverMined || f.polls <= f.pendingPolls {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:          f.status,
		TxHash:          hash,
		ContractAddress: f.contract,
		BlockNumber:     big.NewInt(12),
	}, nil
}

func (f *fakeChain) Close() { f.closed++ }

type stubResolver struct{}

func (stubResolver) ResolveNetwork(_ context.Context, profile domain.NetworkProfile) (*config.Network, error) {
	return &config.Network{Name: profile.String(), RPCURL: "http://node"}, nil
}

type stubArtifacts struct {
	artifact *artifacts.Artifact
}

func (s stubArtifacts) Load() (*artifacts.Artifact, error) { return s.artifact, nil }

func newTestDeployer(t *testing.T, chain *fakeChain, abiDef string, env config.Env) (*Deployer, *int) {
	t.Helper()
	signers, err := accounts.NewLocalAccounts(&config.RuntimeConfig{Env: env})
	require.NoError(t, err)

	dials := 0
	return &Deployer{
		networks:  stubResolver{},
		signers:   signers,
		artifacts: stubArtifacts{artifact: &artifacts.Artifact{ABI: mustABI(t, abiDef), Bytecode: []byte{0x00}}},
		encoder:   NewConstructorEncoder(),
		log:       slog.New(slog.DiscardHandler),
		dial: func(context.Context, string) (ChainClient, error) {
			dials++
			return chain, nil
		},
		pollInterval: time.Millisecond,
	}, &dials
}

func relayerPositional() []any {
	return []any{"50", []string{payee1, payee2}, []string{"31", "19"}}
}

func TestDeployer_Deploy(t *testing.T) {
	chain := &fakeChain{chainID: 31337, baseFee: big.NewInt(1e9), nonce: 5, status: types.ReceiptStatusSuccessful, pendingPolls: 2}
	d, _ := newTestDeployer(t, chain, relayerABI, nil)

	deployed, err := d.Deploy(context.Background(), domain.NetworkHardhat, domain.VariantRelayer, relayerPositional())
	require.NoError(t, err)

	require.Len(t, chain.sent, 1)
	tx := chain.sent[0]
	assert.Nil(t, tx.To())
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, uint64(5), tx.Nonce())
	assert.Equal(t, uint64(120_000), tx.Gas())
	assert.Equal(t, big.NewInt(3e9), tx.GasFeeCap())

	args, err := NewConstructorEncoder().Encode(mustABI(t, relayerABI), domain.VariantRelayer, relayerPositional())
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x00}, args...), tx.Data())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(31337)), tx)
	require.NoError(t, err)
	assert.Equal(t, deployerAddress, sender.Hex())

	expected := crypto.CreateAddress(common.HexToAddress(deployerAddress), 5)
	assert.Equal(t, expected.Hex(), deployed.Address)
	assert.Equal(t, tx.Hash().Hex(), deployed.TxHash)
	assert.Equal(t, uint64(31337), deployed.ChainID)
	assert.Equal(t, uint64(12), deployed.BlockNumber)
	assert.Equal(t, deployerAddress, deployed.Deployer)
	assert.Equal(t, 3, chain.polls)
	assert.Equal(t, 1, chain.closed)
}

func TestDeployer_LegacyChain(t *testing.T) {
	contract := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	chain := &fakeChain{chainID: 31337, status: types.ReceiptStatusSuccessful, contract: contract}
	d, _ := newTestDeployer(t, chain, plainABI, nil)

	deployed, err := d.Deploy(context.Background(), domain.NetworkHardhat, domain.VariantPlain,
		[]any{[]string{payee1, payee2}, []string{"1", "2"}})
	require.NoError(t, err)

	require.Len(t, chain.sent, 1)
	assert.Equal(t, uint8(types.LegacyTxType), chain.sent[0].Type())
	assert.Equal(t, big.NewInt(3e9), chain.sent[0].GasPrice())
	assert.Equal(t, contract.Hex(), deployed.Address)
}

func TestDeployer_RejectsBeforeDialing(t *testing.T) {
	tests := []struct {
		name       string
		abiDef     string
		variant    domain.ContractVariant
		positional []any
		profile    domain.NetworkProfile
		wantErr    error
	}{
		{
			name:       "variant mismatch",
			abiDef:     plainABI,
			variant:    domain.VariantRelayer,
			positional: relayerPositional(),
			profile:    domain.NetworkHardhat,
			wantErr:    domain.ErrVariantMismatch,
		},
		{
			name:       "bad payee",
			abiDef:     relayerABI,
			variant:    domain.VariantRelayer,
			positional: []any{"5", []string{"0xAA", "0xBB"}, []string{"40", "60"}},
			profile:    domain.NetworkRinkeby,
			wantErr:    domain.ErrInvalidConfig,
		},
		{
			name:       "public profile without deployer key",
			abiDef:     relayerABI,
			variant:    domain.VariantRelayer,
			positional: relayerPositional(),
			profile:    domain.NetworkRinkeby,
			wantErr:    domain.ErrMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &fakeChain{chainID: 4, status: types.ReceiptStatusSuccessful}
			d, dials := newTestDeployer(t, chain, tt.abiDef, nil)

			_, err := d.Deploy(context.Background(), tt.profile, tt.variant, tt.positional)
			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, *dials)
			assert.Empty(t, chain.sent)
		})
	}
}

func TestDeployer_RefusesProductionChainWithDevKey(t *testing.T) {
	chain := &fakeChain{chainID: 1, baseFee: big.NewInt(1)}
	d, _ := newTestDeployer(t, chain, relayerABI, nil)

	_, err := d.Deploy(context.Background(), domain.NetworkHardhat, domain.VariantRelayer, relayerPositional())
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Empty(t, chain.sent)
}

func TestDeployer_FailuresAfterBroadcastCarryTxHash(t *testing.T) {
	t.Run("reverted", func(t *testing.T) {
		chain := &fakeChain{chainID: 31337, baseFee: big.NewInt(1), status: types.ReceiptStatusFailed}
		d, _ := newTestDeployer(t, chain, relayerABI, nil)

		_, err := d.Deploy(context.Background(), domain.NetworkHardhat, domain.VariantRelayer, relayerPositional())
		require.Error(t, err)

		var derr *domain.Error
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, domain.ErrKindDeployment, derr.Kind)
		assert.Equal(t, chain.sent[0].Hash().Hex(), derr.TxHash)
	})

	t.Run("not mined before the deadline", func(t *testing.T) {
		chain := &fakeChain{chainID: 31337, baseFee: big.NewInt(1), neverMined: true}
		d, _ := newTestDeployer(t, chain, relayerABI, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := d.Deploy(ctx, domain.NetworkHardhat, domain.VariantRelayer, relayerPositional())
		require.Error(t, err)
		assert.True(t, domain.IsDeploymentError(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), chain.sent[0].Hash().Hex())
	})
}

func TestDeployer_Account(t *testing.T) {
	chain := &fakeChain{chainID: 31337, balance: big.NewInt(42)}
	d, _ := newTestDeployer(t, chain, relayerABI, nil)

	account, err := d.Account(context.Background(), domain.NetworkHardhat)
	require.NoError(t, err)
	assert.Equal(t, deployerAddress, account.Address)
	assert.Equal(t, big.NewInt(42), account.Balance)
	assert.Equal(t, 1, chain.closed)
}

func TestDeployer_Validate(t *testing.T) {
	chain := &fakeChain{chainID: 4}
	d, dials := newTestDeployer(t, chain, relayerABI, nil)

	require.NoError(t, d.Validate(domain.VariantRelayer, relayerPositional()))

	err := d.Validate(domain.VariantRelayer, []any{"50", []string{payee1, payee2}, []string{"forty", "19"}})
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = d.Validate(domain.VariantPlain, []any{[]string{payee1}, []string{"1"}})
	assert.ErrorIs(t, err, domain.ErrVariantMismatch)

	assert.Zero(t, *dials)
}
