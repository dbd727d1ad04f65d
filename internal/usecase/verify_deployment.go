package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// VerifyDeploymentParams identifies an already deployed Splitter
type VerifyDeploymentParams struct {
	Network string
	Variant string
	Address string
}

// VerifyDeploymentResult contains the result of verification
type VerifyDeploymentResult struct {
	Deployment *domain.DeploymentResult
	// FromRegistry is true when the constructor args came from the recorded deployment
	FromRegistry bool
	RecordErr    error
}

// VerifyDeployment verifies a deployed Splitter without redeploying it
type VerifyDeployment struct {
	cfg      *config.RuntimeConfig
	resolver *ResolveParameters
	verifier ContractVerifier
	repo     DeploymentRepository
	progress ProgressSink
	log      *slog.Logger
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	resolver *ResolveParameters,
	verifier ContractVerifier,
	repo DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		cfg:      cfg,
		resolver: resolver,
		verifier: verifier,
		repo:     repo,
		progress: progress,
		log:      log,
	}
}

// Run verifies the contract at params.Address. Constructor arguments come from the
// registry when the deployment was recorded, otherwise they are resolved from
// configuration the same way a deployment would resolve them.
func (uc *VerifyDeployment) Run(ctx context.Context, params VerifyDeploymentParams) (*VerifyDeploymentResult, error) {
	profile, err := domain.ParseNetworkProfile(params.Network)
	if err != nil {
		return nil, err
	}
	if !profile.SupportsVerification() {
		return nil, domain.NewConfigurationError("verify",
			fmt.Errorf("%w: %s", domain.ErrVerificationUnsupported, profile))
	}
	if !common.IsHexAddress(params.Address) {
		return nil, domain.NewConfigurationError("verify",
			fmt.Errorf("%w: %q is not a contract address", domain.ErrInvalidConfig, params.Address))
	}
	address := common.HexToAddress(params.Address).Hex()

	result := &VerifyDeploymentResult{}
	deployment, err := uc.fromRegistry(ctx, profile, address)
	if err != nil {
		return nil, err
	}
	if deployment != nil {
		result.FromRegistry = true
	} else {
		variant, err := domain.ParseContractVariant(params.Variant)
		if err != nil {
			return nil, err
		}
		resolved, err := uc.resolver.Resolve(ctx, profile.String(), variant)
		if err != nil {
			return nil, err
		}
		deployment = &domain.DeploymentResult{
			Address: address,
			Network: profile,
			Args:    resolved.Args,
			Verification: domain.VerificationInfo{
				Status: domain.VerificationStatusUnverified,
			},
		}
	}
	result.Deployment = deployment

	verifyErr := verifyWithTimeout(ctx, uc.verifier, deployment, uc.cfg.VerifyTimeout, uc.progress)

	if uc.repo != nil && result.FromRegistry {
		if err := uc.repo.SaveDeployment(ctx, domain.NewDeploymentRecord(deployment)); err != nil {
			uc.log.Warn("failed to update deployment record", "address", address, "error", err)
			result.RecordErr = err
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Done"})
	return result, verifyErr
}

func (uc *VerifyDeployment) fromRegistry(ctx context.Context, profile domain.NetworkProfile, address string) (*domain.DeploymentResult, error) {
	if uc.repo == nil {
		return nil, nil
	}
	record, err := uc.repo.GetDeploymentByAddress(ctx, profile, address)
	if errors.Is(err, domain.ErrNotFound) {
		uc.log.Debug("deployment not recorded, resolving arguments from configuration", "address", address)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment registry: %w", err)
	}
	deployment, err := record.Result()
	if err != nil {
		return nil, domain.NewConfigurationError("load recorded deployment", err)
	}
	return deployment, nil
}
