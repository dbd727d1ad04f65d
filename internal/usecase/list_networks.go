package usecase

import (
	"context"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus describes a recognized network profile and how it would connect
type NetworkStatus struct {
	Profile              domain.NetworkProfile
	Local                bool
	SupportsVerification bool
	// PayeeSlots is keyed by contract variant
	PayeeSlots  map[domain.ContractVariant]int
	RPCURL      string
	ExplorerURL string
	Error       error
}

// ListNetworks is a use case for listing the recognized network profiles
type ListNetworks struct {
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	profiles := domain.KnownNetworkProfiles()
	networks := make([]NetworkStatus, 0, len(profiles))

	for _, profile := range profiles {
		status := NetworkStatus{
			Profile:              profile,
			Local:                profile.IsLocal(),
			SupportsVerification: profile.SupportsVerification(),
			PayeeSlots: map[domain.ContractVariant]int{
				domain.VariantRelayer: domain.VariantRelayer.PayeeSlots(),
				domain.VariantPlain:   domain.VariantPlain.PayeeSlots(),
			},
		}

		info, err := uc.resolver.ResolveNetwork(ctx, profile)
		if err != nil {
			status.Error = err
		} else {
			status.RPCURL = info.RPCURL
			status.ExplorerURL = info.ExplorerURL
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{Networks: networks}, nil
}
