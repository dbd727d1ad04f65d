package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

// parameterTable produces the raw constructor inputs for one network profile
type parameterTable interface {
	resolve(ctx context.Context, r *ResolveParameters, profile domain.NetworkProfile, variant domain.ContractVariant) (string, []domain.PayeeShare, error)
}

// localAccountsTable takes payees from the local signing account pool and uses fixed shares
type localAccountsTable map[domain.ContractVariant]localMapping

type localMapping struct {
	AccountIndexes []int
	Shares         []string
	RelayerShare   string
}

// configKeyTable reads every payee and share by name from the ConfigSource
type configKeyTable struct{}

// parameterTables is the per-profile mapping. Adding a network means adding a row here
// and a profile in the domain package.
var parameterTables = map[domain.NetworkProfile]parameterTable{
	domain.NetworkHardhat: localAccountsTable{
		domain.VariantRelayer: {AccountIndexes: []int{1, 2}, Shares: []string{"31", "19"}, RelayerShare: "50"},
		domain.VariantPlain:   {AccountIndexes: []int{0, 1, 2}, Shares: []string{"50", "31", "19"}},
	},
	domain.NetworkRinkeby: configKeyTable{},
}

// PayeeKey is the configuration key of the n-th (1-based) payee address
func PayeeKey(profile domain.NetworkProfile, n int) string {
	return fmt.Sprintf("PAYEE_%s_%d", profile.EnvKey(), n)
}

// ShareKey is the configuration key of the n-th (1-based) share value
func ShareKey(profile domain.NetworkProfile, n int) string {
	return fmt.Sprintf("SHARE_%s_%d", profile.EnvKey(), n)
}

// RelayerShareKey is the configuration key of the relayer share
func RelayerShareKey(profile domain.NetworkProfile) string {
	return fmt.Sprintf("RELAYER_SHARE_%s", profile.EnvKey())
}

// ResolveParameters turns a network name and contract variant into constructor parameters
type ResolveParameters struct {
	accounts AccountProvider
	source   ConfigSource
}

// NewResolveParameters creates a new ResolveParameters use case
func NewResolveParameters(accounts AccountProvider, source ConfigSource) *ResolveParameters {
	return &ResolveParameters{
		accounts: accounts,
		source:   source,
	}
}

// Resolve builds the deployment parameters for network. It has no side effects;
// every failure is a configuration error.
func (r *ResolveParameters) Resolve(ctx context.Context, network string, variant domain.ContractVariant) (*domain.DeploymentParameters, error) {
	profile, err := domain.ParseNetworkProfile(network)
	if err != nil {
		return nil, err
	}

	table, ok := parameterTables[profile]
	if !ok {
		return nil, domain.NewConfigurationError("resolve parameters",
			fmt.Errorf("%w: no parameter table for %s", domain.ErrUnknownNetwork, profile))
	}

	relayerShare, entries, err := table.resolve(ctx, r, profile, variant)
	if err != nil {
		return nil, err
	}

	args, err := domain.NewConstructorArgs(variant, relayerShare, entries)
	if err != nil {
		return nil, err
	}

	return &domain.DeploymentParameters{
		Network: profile,
		Args:    args,
	}, nil
}

func (t localAccountsTable) resolve(ctx context.Context, r *ResolveParameters, profile domain.NetworkProfile, variant domain.ContractVariant) (string, []domain.PayeeShare, error) {
	mapping, ok := t[variant]
	if !ok {
		return "", nil, domain.NewConfigurationError("resolve parameters",
			fmt.Errorf("%w: variant %s is not defined for %s", domain.ErrInvalidConfig, variant, profile))
	}

	if r.accounts == nil {
		return "", nil, domain.NewConfigurationError("resolve parameters",
			fmt.Errorf("%w: no local account provider", domain.ErrMissingConfig))
	}
	accounts, err := r.accounts.Accounts(ctx)
	if err != nil {
		return "", nil, domain.NewConfigurationError("list local accounts", err)
	}

	entries := make([]domain.PayeeShare, len(mapping.AccountIndexes))
	for i, idx := range mapping.AccountIndexes {
		if idx >= len(accounts) {
			return "", nil, domain.NewConfigurationError("resolve parameters",
				fmt.Errorf("%w: %s needs local account #%d but only %d are available", domain.ErrMissingConfig, profile, idx, len(accounts)))
		}
		entries[i] = domain.PayeeShare{Payee: accounts[idx], Share: mapping.Shares[i]}
	}

	return mapping.RelayerShare, entries, nil
}

func (configKeyTable) resolve(_ context.Context, r *ResolveParameters, profile domain.NetworkProfile, variant domain.ContractVariant) (string, []domain.PayeeShare, error) {
	var missing []string
	get := func(key string) string {
		var v string
		if r.source != nil {
			v, _ = r.source.Lookup(key)
		}
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}

	var relayerShare string
	if variant == domain.VariantRelayer {
		relayerShare = get(RelayerShareKey(profile))
	}

	entries := make([]domain.PayeeShare, variant.PayeeSlots())
	for i := range entries {
		entries[i] = domain.PayeeShare{
			Payee: get(PayeeKey(profile, i+1)),
			Share: get(ShareKey(profile, i+1)),
		}
	}

	if len(missing) > 0 {
		return "", nil, domain.NewConfigurationError("resolve parameters",
			fmt.Errorf("%w: %s", domain.ErrMissingConfig, strings.Join(missing, ", ")))
	}

	return relayerShare, entries, nil
}
