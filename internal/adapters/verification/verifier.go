package verification

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/trebuchet-org/splitter-cli/internal/adapters/artifacts"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/blockchain"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

const (
	VerifierEtherscan = "etherscan"
	VerifierSourcify  = "sourcify"

	statusVerified = "verified"
	statusFailed   = "failed"
)

// CommandRunner runs an external command in dir and returns its combined output
type CommandRunner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// ForgeVerifier verifies deployments with `forge verify-contract` on Etherscan and Sourcify
type ForgeVerifier struct {
	projectRoot  string
	contractPath string
	networks     usecase.NetworkResolver
	artifacts    blockchain.ArtifactSource
	encoder      *blockchain.ConstructorEncoder
	log          *slog.Logger
	run          CommandRunner
}

// NewForgeVerifier creates a new forge-backed verifier
func NewForgeVerifier(
	cfg *config.RuntimeConfig,
	networks usecase.NetworkResolver,
	loader *artifacts.Loader,
	encoder *blockchain.ConstructorEncoder,
	log *slog.Logger,
) *ForgeVerifier {
	return &ForgeVerifier{
		projectRoot:  cfg.ProjectRoot,
		contractPath: cfg.ContractPath,
		networks:     networks,
		artifacts:    loader,
		encoder:      encoder,
		log:          log.With("component", "verifier"),
		run:          execRunner,
	}
}

// verifyRequest is everything forge needs for one verify-contract call
type verifyRequest struct {
	Address         string
	ContractPath    string
	Chain           string
	ConstructorArgs string
	CompilerVersion string
	APIKey          string
}

// Verify submits the deployment to every verifier and records each outcome
func (v *ForgeVerifier) Verify(ctx context.Context, deployment *domain.DeploymentResult) error {
	network, err := v.networks.ResolveNetwork(ctx, deployment.Network)
	if err != nil {
		return err
	}

	req, err := v.buildRequest(deployment, network)
	if err != nil {
		return err
	}

	if deployment.Verification.Verifiers == nil {
		deployment.Verification.Verifiers = make(map[string]domain.VerifierStatus)
	}

	var verificationErrors []string

	etherscanErr := v.verifyOnEtherscan(ctx, req)
	if etherscanErr != nil {
		deployment.Verification.Verifiers[VerifierEtherscan] = domain.VerifierStatus{
			Status: statusFailed,
			Reason: etherscanErr.Error(),
		}
		verificationErrors = append(verificationErrors, fmt.Sprintf("%s: %v", VerifierEtherscan, etherscanErr))
	} else {
		deployment.Verification.Verifiers[VerifierEtherscan] = domain.VerifierStatus{
			Status: statusVerified,
			URL:    buildEtherscanURL(network, deployment.Address),
		}
	}

	sourcifyErr := v.verifyOnSourcify(ctx, req)
	if sourcifyErr != nil {
		deployment.Verification.Verifiers[VerifierSourcify] = domain.VerifierStatus{
			Status: statusFailed,
			Reason: sourcifyErr.Error(),
		}
		verificationErrors = append(verificationErrors, fmt.Sprintf("%s: %v", VerifierSourcify, sourcifyErr))
	} else {
		deployment.Verification.Verifiers[VerifierSourcify] = domain.VerifierStatus{
			Status: statusVerified,
			URL:    buildSourcifyURL(deployment.Address),
		}
	}

	updateOverallStatus(&deployment.Verification)

	if deployment.Verification.Status == domain.VerificationStatusFailed {
		return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, strings.Join(verificationErrors, "; "))
	}
	for _, e := range verificationErrors {
		v.log.Warn("verifier failed", "address", deployment.Address, "error", e)
	}
	return nil
}

// DumpVerifyCommands returns the forge commands Verify would run, without running them
func (v *ForgeVerifier) DumpVerifyCommands(ctx context.Context, deployment *domain.DeploymentResult) ([]string, error) {
	network, err := v.networks.ResolveNetwork(ctx, deployment.Network)
	if err != nil {
		return nil, err
	}
	req, err := v.buildRequest(deployment, network)
	if err != nil {
		return nil, err
	}
	return []string{
		"forge " + strings.Join(redact(etherscanArgs(req)), " "),
		"forge " + strings.Join(sourcifyArgs(req), " "),
	}, nil
}

func (v *ForgeVerifier) buildRequest(deployment *domain.DeploymentResult, network *config.Network) (*verifyRequest, error) {
	artifact, err := v.artifacts.Load()
	if err != nil {
		return nil, err
	}
	encoded, err := v.encoder.EncodeHex(artifact.ABI, deployment.Args.Variant(), deployment.Args.Positional())
	if err != nil {
		return nil, err
	}

	chain := network.Name
	if deployment.ChainID != 0 {
		chain = strconv.FormatUint(deployment.ChainID, 10)
	} else if network.ChainID != 0 {
		chain = strconv.FormatUint(network.ChainID, 10)
	}

	return &verifyRequest{
		Address:         deployment.Address,
		ContractPath:    v.contractPath,
		Chain:           chain,
		ConstructorArgs: strings.TrimPrefix(encoded, "0x"),
		CompilerVersion: artifact.CompilerVersion,
		APIKey:          network.APIKey,
	}, nil
}

// etherscanArgs builds the forge verify-contract args for Etherscan
func etherscanArgs(req *verifyRequest) []string {
	args := []string{
		"verify-contract",
		req.Address,
		req.ContractPath,
		"--chain", req.Chain,
		"--watch",
	}
	if req.APIKey != "" {
		args = append(args, "--etherscan-api-key", req.APIKey)
	}
	return appendCommon(args, req)
}

// sourcifyArgs builds the forge verify-contract args for Sourcify
func sourcifyArgs(req *verifyRequest) []string {
	args := []string{
		"verify-contract",
		req.Address,
		req.ContractPath,
		"--chain", req.Chain,
		"--verifier", "sourcify",
		"--watch",
	}
	return appendCommon(args, req)
}

func appendCommon(args []string, req *verifyRequest) []string {
	if req.CompilerVersion != "" {
		args = append(args, "--compiler-version", req.CompilerVersion)
	}
	if req.ConstructorArgs != "" {
		args = append(args, "--constructor-args", req.ConstructorArgs)
	}
	return args
}

// redact hides the API key in printed commands
func redact(args []string) []string {
	out := append([]string(nil), args...)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--etherscan-api-key" {
			out[i+1] = "***"
		}
	}
	return out
}

func (v *ForgeVerifier) verifyOnEtherscan(ctx context.Context, req *verifyRequest) error {
	if req.APIKey == "" {
		return fmt.Errorf("no etherscan API key (set ETHERSCAN_API_KEY or [etherscan] in foundry.toml)")
	}
	return v.executeForgeVerify(ctx, etherscanArgs(req))
}

func (v *ForgeVerifier) verifyOnSourcify(ctx context.Context, req *verifyRequest) error {
	return v.executeForgeVerify(ctx, sourcifyArgs(req))
}

// executeForgeVerify runs forge verify-contract. "Already verified" counts as success.
func (v *ForgeVerifier) executeForgeVerify(ctx context.Context, args []string) error {
	v.log.Debug("running forge", "args", redact(args))

	output, err := v.run(ctx, v.projectRoot, "forge", args...)
	outputStr := strings.TrimSpace(string(output))

	if isAlreadyVerified(outputStr) {
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("forge verify-contract: %w", ctx.Err())
		}
		if outputStr == "" {
			return fmt.Errorf("forge verify-contract: %w", err)
		}
		return fmt.Errorf("verification failed: %s", outputStr)
	}
	if strings.Contains(outputStr, "Contract successfully verified") || strings.Contains(outputStr, "Pass - Verified") {
		return nil
	}

	return fmt.Errorf("verification status unclear: %s", outputStr)
}

func isAlreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

// buildEtherscanURL builds the explorer link for a contract
func buildEtherscanURL(network *config.Network, address string) string {
	if network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimRight(network.ExplorerURL, "/"), address)
}

func buildSourcifyURL(address string) string {
	return fmt.Sprintf("https://sourcify.dev/#/lookup/%s", address)
}

// updateOverallStatus derives the overall status from the per-verifier results
func updateOverallStatus(info *domain.VerificationInfo) {
	if len(info.Verifiers) == 0 {
		info.Status = domain.VerificationStatusUnverified
		return
	}

	names := make([]string, 0, len(info.Verifiers))
	for name := range info.Verifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	verified, failed := 0, 0
	var reasons []string
	for _, name := range names {
		switch status := info.Verifiers[name]; status.Status {
		case statusVerified:
			verified++
			if info.EtherscanURL == "" && status.URL != "" {
				info.EtherscanURL = status.URL
			}
		case statusFailed:
			failed++
			if status.Reason != "" {
				reasons = append(reasons, fmt.Sprintf("%s: %s", name, status.Reason))
			}
		}
	}

	switch {
	case verified == len(info.Verifiers):
		info.Status = domain.VerificationStatusVerified
	case verified > 0:
		info.Status = domain.VerificationStatusPartial
		info.Reason = strings.Join(reasons, "; ")
	case failed == len(info.Verifiers):
		info.Status = domain.VerificationStatusFailed
		info.Reason = strings.Join(reasons, "; ")
	default:
		info.Status = domain.VerificationStatusUnverified
	}
}

// Ensure the verifier implements the interface
var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)
