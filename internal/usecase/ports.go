package usecase

import (
	"context"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// ConfigSource is a read-only key/value view of the deployment configuration
type ConfigSource interface {
	Lookup(key string) (string, bool)
}

// AccountProvider lists the locally available signing accounts, in node order
type AccountProvider interface {
	Accounts(ctx context.Context) ([]string, error)
}

// ContractDeployer creates the Splitter contract on a network.
// Validate checks the constructor values against the compiled artifact without
// touching the chain. Deploy is single-shot: a failed call must not be retried
// blindly since the creation transaction may already be on chain.
type ContractDeployer interface {
	Validate(variant domain.ContractVariant, positional []any) error
	Account(ctx context.Context, network domain.NetworkProfile) (*domain.DeployerAccount, error)
	Deploy(ctx context.Context, network domain.NetworkProfile, variant domain.ContractVariant, positional []any) (*domain.DeployedContract, error)
}

// ContractVerifier registers deployed source with block explorers.
// Implementations record per-verifier outcomes on result.Verification.
type ContractVerifier interface {
	Verify(ctx context.Context, result *domain.DeploymentResult) error
}

// DeploymentRepository persists deployment records
type DeploymentRepository interface {
	SaveDeployment(ctx context.Context, record *domain.DeploymentRecord) error
	GetDeploymentByAddress(ctx context.Context, network domain.NetworkProfile, address string) (*domain.DeploymentRecord, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.DeploymentRecord, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	ResolveNetwork(ctx context.Context, network domain.NetworkProfile) (*config.Network, error)
}

// DeployConfirmer asks the operator before broadcasting to a public network
type DeployConfirmer interface {
	ConfirmDeployment(ctx context.Context, params *domain.DeploymentParameters, deployer *domain.DeployerAccount) (bool, error)
}

// Progress tracking interfaces

// ExecutionStage represents a stage in the execution process
type ExecutionStage string

const (
	StageResolving ExecutionStage = "Resolving"
	StageDeploying ExecutionStage = "Deploying"
	StageRecording ExecutionStage = "Recording"
	StageVerifying ExecutionStage = "Verifying"
	StageCompleted ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
