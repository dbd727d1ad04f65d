package verification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/artifacts"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/blockchain"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

const (
	relayerABI = `[{"type":"constructor","inputs":[{"name":"relayerShare","type":"uint256"},{"name":"payees","type":"address[]"},{"name":"shares","type":"uint256[]"}]}]`
	address    = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
)

type stubNetworks struct {
	network *config.Network
}

func (s stubNetworks) ResolveNetwork(context.Context, domain.NetworkProfile) (*config.Network, error) {
	return s.network, nil
}

type stubArtifacts struct {
	artifact *artifacts.Artifact
}

func (s stubArtifacts) Load() (*artifacts.Artifact, error) { return s.artifact, nil }

type forgeCall struct {
	Dir  string
	Args []string
}

// scriptedForge answers etherscan and sourcify calls with canned output
type scriptedForge struct {
	etherscan string
	sourcify  string
	fail      map[string]bool
	calls     []forgeCall
}

func (f *scriptedForge) run(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, forgeCall{Dir: dir, Args: args})
	key := VerifierEtherscan
	for _, a := range args {
		if a == "sourcify" {
			key = VerifierSourcify
		}
	}
	out := f.etherscan
	if key == VerifierSourcify {
		out = f.sourcify
	}
	if f.fail[key] {
		return []byte(out), errors.New("exit status 1")
	}
	return []byte(out), nil
}

func newTestVerifier(t *testing.T, forge *scriptedForge, apiKey string) *ForgeVerifier {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(relayerABI))
	require.NoError(t, err)

	return &ForgeVerifier{
		projectRoot:  "/project",
		contractPath: "src/Splitter.sol:Splitter",
		networks: stubNetworks{network: &config.Network{
			Name:        "rinkeby",
			ExplorerURL: "https://rinkeby.etherscan.io",
			APIKey:      apiKey,
		}},
		artifacts: stubArtifacts{artifact: &artifacts.Artifact{ABI: parsed, CompilerVersion: "0.8.20"}},
		encoder:   blockchain.NewConstructorEncoder(),
		log:       slog.New(slog.DiscardHandler),
		run:       forge.run,
	}
}

func rinkebyDeployment(t *testing.T) *domain.DeploymentResult {
	t.Helper()
	args, err := domain.NewConstructorArgs(domain.VariantRelayer, "5", []domain.PayeeShare{
		{Payee: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", Share: "40"},
		{Payee: "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC", Share: "60"},
	})
	require.NoError(t, err)
	return &domain.DeploymentResult{
		Address: address,
		ChainID: 4,
		Network: domain.NetworkRinkeby,
		Args:    args,
	}
}

func TestForgeVerifier_Verified(t *testing.T) {
	forge := &scriptedForge{
		etherscan: "Submitted contract for verification\nContract successfully verified",
		sourcify:  "Contract successfully verified",
	}
	v := newTestVerifier(t, forge, "secret")
	deployment := rinkebyDeployment(t)

	require.NoError(t, v.Verify(context.Background(), deployment))

	require.Len(t, forge.calls, 2)
	etherscan := forge.calls[0]
	assert.Equal(t, "/project", etherscan.Dir)
	assert.Equal(t, []string{"verify-contract", address, "src/Splitter.sol:Splitter", "--chain", "4", "--watch"}, etherscan.Args[:6])
	assert.Contains(t, etherscan.Args, "--etherscan-api-key")
	assert.Contains(t, etherscan.Args, "0.8.20")

	encoded, err := v.encoder.EncodeHex(v.artifacts.(stubArtifacts).artifact.ABI, domain.VariantRelayer, deployment.Args.Positional())
	require.NoError(t, err)
	assert.Equal(t, strings.TrimPrefix(encoded, "0x"), etherscan.Args[len(etherscan.Args)-1])
	assert.Contains(t, forge.calls[1].Args, "sourcify")

	assert.Equal(t, domain.VerificationStatusVerified, deployment.Verification.Status)
	assert.Equal(t, "https://rinkeby.etherscan.io/address/"+address+"#code", deployment.Verification.EtherscanURL)
}

func TestForgeVerifier_AlreadyVerifiedIsSuccess(t *testing.T) {
	forge := &scriptedForge{
		etherscan: "Contract [src/Splitter.sol:Splitter] is already verified. Skipping verification.",
		sourcify:  "Already Verified",
		fail:      map[string]bool{VerifierEtherscan: true},
	}
	deployment := rinkebyDeployment(t)

	require.NoError(t, newTestVerifier(t, forge, "secret").Verify(context.Background(), deployment))
	assert.Equal(t, domain.VerificationStatusVerified, deployment.Verification.Status)
}

func TestForgeVerifier_Partial(t *testing.T) {
	forge := &scriptedForge{sourcify: "Contract successfully verified"}
	deployment := rinkebyDeployment(t)

	// no API key: etherscan is skipped as failed, sourcify still runs
	require.NoError(t, newTestVerifier(t, forge, "").Verify(context.Background(), deployment))
	assert.Len(t, forge.calls, 1)
	assert.Equal(t, domain.VerificationStatusPartial, deployment.Verification.Status)
	assert.Equal(t, statusFailed, deployment.Verification.Verifiers[VerifierEtherscan].Status)
	assert.Contains(t, deployment.Verification.Reason, "etherscan")
}

func TestForgeVerifier_AllFailed(t *testing.T) {
	forge := &scriptedForge{
		etherscan: "Error: bytecode mismatch",
		sourcify:  "Error: no match",
		fail:      map[string]bool{VerifierEtherscan: true, VerifierSourcify: true},
	}
	deployment := rinkebyDeployment(t)

	err := newTestVerifier(t, forge, "secret").Verify(context.Background(), deployment)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVerificationFailed)
	assert.Equal(t, domain.VerificationStatusFailed, deployment.Verification.Status)
	assert.Contains(t, deployment.Verification.Reason, "bytecode mismatch")
}

func TestForgeVerifier_BadArgumentsNeverRunForge(t *testing.T) {
	forge := &scriptedForge{}
	deployment := rinkebyDeployment(t)
	args, err := domain.NewConstructorArgs(domain.VariantRelayer, "5", []domain.PayeeShare{{Payee: "0xAA", Share: "1"}})
	require.NoError(t, err)
	deployment.Args = args

	err = newTestVerifier(t, forge, "secret").Verify(context.Background(), deployment)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Empty(t, forge.calls)
}

func TestDumpVerifyCommands_RedactsKey(t *testing.T) {
	cmds, err := newTestVerifier(t, &scriptedForge{}, "secret").DumpVerifyCommands(context.Background(), rinkebyDeployment(t))
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.NotContains(t, cmds[0], "secret")
	assert.Contains(t, cmds[0], "--etherscan-api-key ***")
	assert.True(t, strings.HasPrefix(cmds[1], "forge verify-contract "+address))
}

func TestUpdateOverallStatus(t *testing.T) {
	info := &domain.VerificationInfo{}
	updateOverallStatus(info)
	assert.Equal(t, domain.VerificationStatusUnverified, info.Status)
}
