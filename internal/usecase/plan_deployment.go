package usecase

import (
	"context"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

// PlanDeploymentParams selects what would be deployed
type PlanDeploymentParams struct {
	Network string
	Variant string
}

// DeploymentPlan describes a deployment without performing it
type DeploymentPlan struct {
	Network      domain.NetworkProfile  `json:"network" yaml:"network"`
	Variant      domain.ContractVariant `json:"variant" yaml:"variant"`
	RelayerShare string                 `json:"relayerShare,omitempty" yaml:"relayerShare,omitempty"`
	Payees       []domain.PayeeShare    `json:"payees" yaml:"payees"`
	Verify       bool                   `json:"verify" yaml:"verify"`
	// ConfigKeys lists the configuration keys read for a public profile
	ConfigKeys []string `json:"configKeys,omitempty" yaml:"configKeys,omitempty"`
}

// PlanDeployment resolves parameters exactly like a deployment would, without touching the chain
type PlanDeployment struct {
	resolver *ResolveParameters
}

// NewPlanDeployment creates a new PlanDeployment use case
func NewPlanDeployment(resolver *ResolveParameters) *PlanDeployment {
	return &PlanDeployment{resolver: resolver}
}

// Run executes the use case
func (uc *PlanDeployment) Run(ctx context.Context, params PlanDeploymentParams) (*DeploymentPlan, error) {
	variant, err := domain.ParseContractVariant(params.Variant)
	if err != nil {
		return nil, err
	}

	resolved, err := uc.resolver.Resolve(ctx, params.Network, variant)
	if err != nil {
		return nil, err
	}

	plan := &DeploymentPlan{
		Network: resolved.Network,
		Variant: resolved.Variant(),
		Verify:  resolved.Network.SupportsVerification(),
	}
	for i, payee := range resolved.Args.Payees() {
		plan.Payees = append(plan.Payees, domain.PayeeShare{Payee: payee, Share: resolved.Args.Shares()[i]})
	}
	if relayer, ok := resolved.RelayerShare(); ok {
		plan.RelayerShare = relayer
	}

	if !resolved.Network.IsLocal() {
		for n := 1; n <= variant.PayeeSlots(); n++ {
			plan.ConfigKeys = append(plan.ConfigKeys, PayeeKey(resolved.Network, n), ShareKey(resolved.Network, n))
		}
		if variant == domain.VariantRelayer {
			plan.ConfigKeys = append(plan.ConfigKeys, RelayerShareKey(resolved.Network))
		}
	}

	return plan, nil
}
