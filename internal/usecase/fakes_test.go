package usecase

import (
	"context"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

var localAccounts = []string{"0xacc0", "0xacc1", "0xacc2", "0xacc3"}

// spySource is a ConfigSource that records every key it was asked for
type spySource struct {
	values  map[string]string
	lookups []string
}

func (s *spySource) Lookup(key string) (string, bool) {
	s.lookups = append(s.lookups, key)
	v, ok := s.values[key]
	return v, ok
}

type stubAccounts struct {
	accounts []string
	err      error
	calls    int
}

func (s *stubAccounts) Accounts(context.Context) ([]string, error) {
	s.calls++
	return s.accounts, s.err
}

type deployCall struct {
	Network     domain.NetworkProfile
	Variant     domain.ContractVariant
	Positional  []any
	HasDeadline bool
}

type fakeDeployer struct {
	account      *domain.DeployerAccount
	accountErr   error
	blockAccount bool
	accountCalls int
	validateErr  error
	validated    int
	deployErr    error
	address      string
	calls        []deployCall
}

func (f *fakeDeployer) Validate(domain.ContractVariant, []any) error {
	f.validated++
	return f.validateErr
}

func (f *fakeDeployer) Account(ctx context.Context, _ domain.NetworkProfile) (*domain.DeployerAccount, error) {
	f.accountCalls++
	if f.blockAccount {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	if f.account != nil {
		return f.account, nil
	}
	return &domain.DeployerAccount{Address: "0xdeployer", Balance: big.NewInt(1e18)}, nil
}

func (f *fakeDeployer) Deploy(ctx context.Context, network domain.NetworkProfile, variant domain.ContractVariant, positional []any) (*domain.DeployedContract, error) {
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, deployCall{Network: network, Variant: variant, Positional: positional, HasDeadline: hasDeadline})
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	address := f.address
	if address == "" {
		address = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	}
	return &domain.DeployedContract{Address: address, TxHash: "0xtx", ChainID: 4, BlockNumber: 7, Deployer: "0xdeployer"}, nil
}

type fakeVerifier struct {
	err   error
	calls []*domain.DeploymentResult
}

func (f *fakeVerifier) Verify(_ context.Context, result *domain.DeploymentResult) error {
	f.calls = append(f.calls, result)
	return f.err
}

type memoryRepo struct {
	mu      sync.Mutex
	records map[string]*domain.DeploymentRecord
	saveErr error
	saves   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]*domain.DeploymentRecord)}
}

func (m *memoryRepo) SaveDeployment(_ context.Context, rec *domain.DeploymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[strings.ToLower(rec.Address)] = rec
	return nil
}

func (m *memoryRepo) GetDeploymentByAddress(_ context.Context, network domain.NetworkProfile, address string) (*domain.DeploymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[strings.ToLower(address)]
	if !ok || rec.Network != network {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *memoryRepo) ListDeployments(_ context.Context, filter domain.DeploymentFilter) ([]*domain.DeploymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DeploymentRecord
	for _, rec := range m.records {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fixedConfirmer struct {
	answer bool
	calls  int
}

func (c *fixedConfirmer) ConfirmDeployment(context.Context, *domain.DeploymentParameters, *domain.DeployerAccount) (bool, error) {
	c.calls++
	return c.answer, nil
}

type stubNetworkResolver struct {
	networks map[domain.NetworkProfile]*config.Network
	err      error
}

func (s *stubNetworkResolver) ResolveNetwork(_ context.Context, profile domain.NetworkProfile) (*config.Network, error) {
	if n, ok := s.networks[profile]; ok {
		return n, nil
	}
	return nil, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func rinkebyEnv() map[string]string {
	return map[string]string{
		"PAYEE_RINKEBY_1":       "0xAA",
		"SHARE_RINKEBY_1":       "40",
		"PAYEE_RINKEBY_2":       "0xBB",
		"SHARE_RINKEBY_2":       "60",
		"PAYEE_RINKEBY_3":       "0xCC",
		"SHARE_RINKEBY_3":       "10",
		"RELAYER_SHARE_RINKEBY": "5",
	}
}
