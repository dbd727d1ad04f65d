package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Network string
	Status  domain.VerificationStatus
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*domain.DeploymentRecord
	ByStatus    map[domain.VerificationStatus]int
}

// ListDeployments lists recorded Splitter deployments
type ListDeployments struct {
	repo DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{repo: repo}
}

// Run executes the use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	filter := domain.DeploymentFilter{Status: params.Status}
	if params.Network != "" {
		profile, err := domain.ParseNetworkProfile(params.Network)
		if err != nil {
			return nil, err
		}
		filter.Network = profile
	}

	records, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DeployedAt.After(records[j].DeployedAt)
	})

	return &DeploymentListResult{
		Deployments: records,
		ByStatus: lo.CountValuesBy(records, func(r *domain.DeploymentRecord) domain.VerificationStatus {
			return r.Verification.Status
		}),
	}, nil
}
