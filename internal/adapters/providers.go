package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/accounts"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/anvil"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/artifacts"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/splitter-cli/internal/adapters/config"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/progress"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/verification"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),

	internalconfig.NewEnvSource,
	wire.Bind(new(usecase.ConfigSource), new(*internalconfig.EnvSource)),
)

// AccountsSet provides the local signer pool
var AccountsSet = wire.NewSet(
	accounts.NewLocalAccounts,
	wire.Bind(new(usecase.AccountProvider), new(*accounts.LocalAccounts)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	artifacts.NewLoader,
	blockchain.NewConstructorEncoder,
	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),
)

// VerificationSet provides the forge-backed verifier
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// RepositorySet provides the file-backed deployment registry
var RepositorySet = wire.NewSet(
	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeployConfirmer), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// NodeSet provides the local anvil node manager
var NodeSet = wire.NewSet(
	anvil.NewManager,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ConfigSet,
	AccountsSet,
	BlockchainSet,
	VerificationSet,
	RepositorySet,
	InteractiveSet,
	ProgressSet,
	NodeSet,
)
