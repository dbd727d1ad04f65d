package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Target selection, parsed by the use cases so that unknown values
	// surface as configuration errors from the resolver
	NetworkName string // empty if not specified
	VariantName string

	// Contract artifact
	ArtifactPath string
	ContractPath string // forge source path, e.g. src/Splitter.sol:Splitter

	// Execution settings
	Debug               bool
	NonInteractive      bool
	JSON                bool
	SkipVerify          bool
	RequireVerification bool
	DeployTimeout       time.Duration
	VerifyTimeout       time.Duration

	// Env holds .env files layered under the process environment
	Env Env

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents the chain connection for a profile
type Network struct {
	Name        string `json:"name"`
	ChainID     uint64 `json:"chainId,omitempty"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	APIKey      string `json:"-"`
}
