package config

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// DefaultLocalRPCURL is where hardhat and anvil listen by default
const DefaultLocalRPCURL = "http://127.0.0.1:8545"

// explorerDefaults are used when foundry.toml has no [etherscan] entry
var explorerDefaults = map[domain.NetworkProfile]string{
	domain.NetworkRinkeby: "https://rinkeby.etherscan.io",
}

// NetworkResolver maps a network profile onto its chain connection settings
type NetworkResolver struct {
	foundry *config.FoundryConfig
	env     config.Env
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(foundry *config.FoundryConfig, env config.Env) *NetworkResolver {
	if foundry == nil {
		foundry = &config.FoundryConfig{}
	}
	return &NetworkResolver{foundry: foundry, env: env}
}

// Resolve returns the RPC and explorer settings for profile.
//
// RPC precedence: foundry.toml [rpc_endpoints], then <NAME>_RPC_URL,
// then the local default for local profiles.
func (r *NetworkResolver) Resolve(profile domain.NetworkProfile) (*config.Network, error) {
	name := profile.String()
	network := &config.Network{Name: name}
	if profile.IsLocal() {
		network.ChainID = domain.LocalChainID
	}

	rpcURL, err := r.rpcURL(profile)
	if err != nil {
		return nil, err
	}
	network.RPCURL = rpcURL

	if ec, ok := r.foundry.Etherscan[name]; ok {
		network.ExplorerURL = ec.URL
		network.APIKey = ec.Key
	}
	if network.ExplorerURL == "" {
		network.ExplorerURL = explorerDefaults[profile]
	}
	if network.APIKey == "" {
		network.APIKey = r.env.Get("ETHERSCAN_API_KEY")
	}

	return network, nil
}

func (r *NetworkResolver) rpcURL(profile domain.NetworkProfile) (string, error) {
	name := profile.String()

	if url := strings.TrimSpace(r.foundry.RpcEndpoints[name]); url != "" {
		return url, nil
	}
	if raw, ok := r.foundry.RawRpcEndpoints[name]; ok {
		if varName, isVar := DetectEnvVar(raw); isVar {
			return "", domain.NewConfigurationError("resolve rpc url",
				fmt.Errorf("%w: foundry.toml [rpc_endpoints].%s references %s which is not set", domain.ErrMissingConfig, name, varName))
		}
	}

	envVar := GenerateEnvVarName(name)
	if url := strings.TrimSpace(r.env.Get(envVar)); url != "" {
		return url, nil
	}

	if profile.IsLocal() {
		return DefaultLocalRPCURL, nil
	}

	return "", domain.NewConfigurationError("resolve rpc url",
		fmt.Errorf("%w: no RPC URL for %s (set [rpc_endpoints].%s in foundry.toml or %s)", domain.ErrMissingConfig, name, name, envVar))
}
