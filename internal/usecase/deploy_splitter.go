package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// ErrDeploymentCancelled is returned when the operator declines the confirmation prompt
var ErrDeploymentCancelled = errors.New("deployment cancelled")

// DeploySplitterParams contains parameters for one deployment run
type DeploySplitterParams struct {
	Network    string
	Variant    string
	SkipVerify bool
}

// DeploySplitterResult contains the independently reported outcomes of a run
type DeploySplitterResult struct {
	Parameters *domain.DeploymentParameters
	Deployer   *domain.DeployerAccount
	Deployment *domain.DeploymentResult

	// VerificationAttempted is false for local profiles and --skip-verify
	VerificationAttempted bool
	// VerificationErr is a tagged verification error; the deployment stands regardless
	VerificationErr error
	// RecordErr is set when the registry could not be written
	RecordErr error
}

// Verified reports whether verification ran and succeeded
func (r *DeploySplitterResult) Verified() bool {
	return r.VerificationAttempted && r.VerificationErr == nil
}

// DeploySplitter runs resolve -> deploy -> record -> verify
type DeploySplitter struct {
	cfg       *config.RuntimeConfig
	resolver  *ResolveParameters
	deployer  ContractDeployer
	verifier  ContractVerifier
	repo      DeploymentRepository
	confirmer DeployConfirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeploySplitter creates a new DeploySplitter use case
func NewDeploySplitter(
	cfg *config.RuntimeConfig,
	resolver *ResolveParameters,
	deployer ContractDeployer,
	verifier ContractVerifier,
	repo DeploymentRepository,
	confirmer DeployConfirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeploySplitter {
	return &DeploySplitter{
		cfg:       cfg,
		resolver:  resolver,
		deployer:  deployer,
		verifier:  verifier,
		repo:      repo,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Run executes the use case. A returned error means no contract was deployed,
// except when RequireVerification is set, in which case the verification error is
// returned together with a populated result.
func (uc *DeploySplitter) Run(ctx context.Context, params DeploySplitterParams) (*DeploySplitterResult, error) {
	variant, err := domain.ParseContractVariant(params.Variant)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageResolving, Message: "Resolving deployment parameters"})
	resolved, err := uc.resolver.Resolve(ctx, params.Network, variant)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("resolved parameters",
		"network", resolved.Network,
		"variant", resolved.Variant(),
		"payees", resolved.Args.Payees(),
		"shares", resolved.Args.Shares())

	if err := uc.deployer.Validate(resolved.Variant(), resolved.Args.Positional()); err != nil {
		return nil, tagConfiguration("validate constructor arguments", err)
	}

	result := &DeploySplitterResult{Parameters: resolved}

	account, err := uc.account(ctx, resolved.Network)
	if err != nil {
		return nil, tagDeployment("load deployer account", err)
	}
	result.Deployer = account
	uc.progress.Info(fmt.Sprintf("Deploying contracts with the account: %s", account.Address))
	if account.Balance != nil {
		uc.progress.Info(fmt.Sprintf("Account balance: %s", account.Balance.String()))
	}

	if !resolved.Network.IsLocal() && uc.confirmer != nil {
		ok, err := uc.confirmer.ConfirmDeployment(ctx, resolved, account)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentCancelled
		}
	}

	deployment, err := uc.deploy(ctx, resolved)
	if err != nil {
		return nil, err
	}
	result.Deployment = deployment
	uc.progress.Info(fmt.Sprintf("%s deployed to: %s", domain.SplitterContractName, deployment.Address))

	shouldVerify := resolved.Network.SupportsVerification() && !params.SkipVerify && !uc.cfg.SkipVerify
	if !shouldVerify {
		deployment.Verification.Status = domain.VerificationStatusSkipped
	}

	result.RecordErr = uc.record(ctx, deployment)

	if !shouldVerify {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Done"})
		return result, nil
	}

	result.VerificationAttempted = true
	result.VerificationErr = verifyWithTimeout(ctx, uc.verifier, deployment, uc.cfg.VerifyTimeout, uc.progress)
	if result.VerificationErr != nil {
		uc.log.Warn("verification failed; the contract is deployed", "address", deployment.Address, "error", result.VerificationErr)
	}
	if err := uc.record(ctx, deployment); err != nil && result.RecordErr == nil {
		result.RecordErr = err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Done"})

	if result.VerificationErr != nil && uc.cfg.RequireVerification {
		return result, result.VerificationErr
	}
	return result, nil
}

// account reads the deployer address and balance under the deploy timeout
func (uc *DeploySplitter) account(ctx context.Context, network domain.NetworkProfile) (*domain.DeployerAccount, error) {
	if uc.cfg.DeployTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.DeployTimeout)
		defer cancel()
	}
	return uc.deployer.Account(ctx, network)
}

// deploy sends the creation transaction once under the deploy timeout
func (uc *DeploySplitter) deploy(ctx context.Context, params *domain.DeploymentParameters) (*domain.DeploymentResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Deploying " + domain.SplitterContractName, Spinner: true})

	deployCtx := ctx
	if uc.cfg.DeployTimeout > 0 {
		var cancel context.CancelFunc
		deployCtx, cancel = context.WithTimeout(ctx, uc.cfg.DeployTimeout)
		defer cancel()
	}

	deployed, err := uc.deployer.Deploy(deployCtx, params.Network, params.Variant(), params.Args.Positional())
	if err != nil {
		return nil, tagDeployment("deploy "+domain.SplitterContractName, err)
	}

	return &domain.DeploymentResult{
		Address:     deployed.Address,
		TxHash:      deployed.TxHash,
		ChainID:     deployed.ChainID,
		BlockNumber: deployed.BlockNumber,
		Deployer:    deployed.Deployer,
		Network:     params.Network,
		Args:        params.Args,
		DeployedAt:  time.Now().UTC(),
		Verification: domain.VerificationInfo{
			Status: domain.VerificationStatusUnverified,
		},
	}, nil
}

// record persists the deployment. Failures are reported, never fatal: the contract exists.
func (uc *DeploySplitter) record(ctx context.Context, deployment *domain.DeploymentResult) error {
	if uc.repo == nil {
		return nil
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageRecording, Message: "Recording deployment"})
	if err := uc.repo.SaveDeployment(ctx, domain.NewDeploymentRecord(deployment)); err != nil {
		uc.log.Warn("failed to record deployment", "address", deployment.Address, "error", err)
		return fmt.Errorf("failed to record deployment %s: %w", deployment.Address, err)
	}
	return nil
}

// verifyWithTimeout runs the verifier under its own deadline and tags any failure
func verifyWithTimeout(ctx context.Context, verifier ContractVerifier, deployment *domain.DeploymentResult, timeout time.Duration, progress ProgressSink) error {
	progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: "Verifying " + deployment.Address, Spinner: true})

	verifyCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// a previous attempt's outcome must not leak into this one
	deployment.Verification.Status = domain.VerificationStatusUnverified
	deployment.Verification.Reason = ""
	deployment.Verification.VerifiedAt = nil

	if err := verifier.Verify(verifyCtx, deployment); err != nil {
		if deployment.Verification.Status == "" || deployment.Verification.Status == domain.VerificationStatusUnverified {
			deployment.Verification.Status = domain.VerificationStatusFailed
			deployment.Verification.Reason = err.Error()
		}
		return domain.NewVerificationError("verify "+deployment.Address, err)
	}

	if deployment.Verification.Status == "" || deployment.Verification.Status == domain.VerificationStatusUnverified {
		deployment.Verification.Status = domain.VerificationStatusVerified
	}
	if deployment.Verification.VerifiedAt == nil {
		now := time.Now().UTC()
		deployment.Verification.VerifiedAt = &now
	}
	return nil
}

// tagConfiguration keeps errors that are already tagged and marks the rest as configuration errors
func tagConfiguration(op string, err error) error {
	if _, ok := domain.KindOf(err); ok {
		return err
	}
	return domain.NewConfigurationError(op, err)
}

// tagDeployment keeps errors that are already tagged and marks the rest as deployment errors
func tagDeployment(op string, err error) error {
	if _, ok := domain.KindOf(err); ok {
		return err
	}
	return domain.NewDeploymentError(op, err)
}
