package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
)

// FoundryTOML represents the raw foundry.toml structure
type FoundryTOML struct {
	RpcEndpoints map[string]string            `toml:"rpc_endpoints"`
	Etherscan    map[string]map[string]string `toml:"etherscan"`
	Profile      map[string]map[string]any    `toml:"profile"`
}

// loadFoundryConfig loads and parses foundry.toml, expanding ${VAR} references from env.
// A missing foundry.toml yields an empty config.
func loadFoundryConfig(projectRoot string, env config.Env) (*config.FoundryConfig, error) {
	cfg := &config.FoundryConfig{
		RpcEndpoints:    make(map[string]string),
		RawRpcEndpoints: make(map[string]string),
		Etherscan:       make(map[string]config.EtherscanConfig),
		Profile:         make(map[string]config.ProfileConfig),
	}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw FoundryTOML
	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range raw.RpcEndpoints {
		cfg.RawRpcEndpoints[name] = url
		cfg.RpcEndpoints[name] = env.Expand(url)
	}

	for network, ethConfig := range raw.Etherscan {
		ec := config.EtherscanConfig{}
		if url, ok := ethConfig["url"]; ok {
			ec.URL = env.Expand(url)
		}
		if key, ok := ethConfig["key"]; ok {
			ec.Key = env.Expand(key)
		}
		cfg.Etherscan[network] = ec
	}

	for profileName, profileData := range raw.Profile {
		profile := config.ProfileConfig{}
		if v, ok := profileData["src"].(string); ok {
			profile.SrcPath = v
		}
		if v, ok := profileData["out"].(string); ok {
			profile.OutPath = v
		}
		if v, ok := profileData["solc_version"].(string); ok {
			profile.SolcVersion = v
		}
		cfg.Profile[profileName] = profile
	}

	return cfg, nil
}

// outDir returns the compiler output directory of the default profile
func outDir(cfg *config.FoundryConfig) string {
	if p, ok := cfg.Profile["default"]; ok && p.OutPath != "" {
		return p.OutPath
	}
	return "out"
}

// srcDir returns the source directory of the default profile
func srcDir(cfg *config.FoundryConfig) string {
	if p, ok := cfg.Profile["default"]; ok && p.SrcPath != "" {
		return p.SrcPath
	}
	return "src"
}
