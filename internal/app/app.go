package app

import (
	"github.com/trebuchet-org/splitter-cli/internal/adapters/anvil"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/verification"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector *interactive.SelectorAdapter
	Verifier *verification.ForgeVerifier
	Node     *anvil.Manager

	// Use cases
	ResolveParameters *usecase.ResolveParameters
	PlanDeployment    *usecase.PlanDeployment
	DeploySplitter    *usecase.DeploySplitter
	VerifyDeployment  *usecase.VerifyDeployment
	ListDeployments   *usecase.ListDeployments
	ListNetworks      *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector *interactive.SelectorAdapter,
	verifier *verification.ForgeVerifier,
	node *anvil.Manager,
	resolveParameters *usecase.ResolveParameters,
	planDeployment *usecase.PlanDeployment,
	deploySplitter *usecase.DeploySplitter,
	verifyDeployment *usecase.VerifyDeployment,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:            cfg,
		Selector:          selector,
		Verifier:          verifier,
		Node:              node,
		ResolveParameters: resolveParameters,
		PlanDeployment:    planDeployment,
		DeploySplitter:    deploySplitter,
		VerifyDeployment:  verifyDeployment,
		ListDeployments:   listDeployments,
		ListNetworks:      listNetworks,
	}, nil
}
