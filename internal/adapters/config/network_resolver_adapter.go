package config

import (
	"context"

	"github.com/trebuchet-org/splitter-cli/internal/config"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	domainconfig "github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: config.NewNetworkResolver(cfg.FoundryConfig, cfg.Env),
	}
}

// ResolveNetwork resolves a network profile to its connection settings.
// The underlying resolver doesn't use context.
func (a *NetworkResolverAdapter) ResolveNetwork(_ context.Context, profile domain.NetworkProfile) (*domainconfig.Network, error) {
	return a.resolver.Resolve(profile)
}

// EnvSource exposes the layered env snapshot as the deployment parameter source
type EnvSource struct {
	env domainconfig.Env
}

// NewEnvSource creates a ConfigSource backed by cfg.Env
func NewEnvSource(cfg *domainconfig.RuntimeConfig) *EnvSource {
	return &EnvSource{env: cfg.Env}
}

// Lookup implements usecase.ConfigSource
func (s *EnvSource) Lookup(key string) (string, bool) {
	return s.env.Lookup(key)
}

// Ensure the adapters implement the interfaces
var (
	_ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
	_ usecase.ConfigSource    = (*EnvSource)(nil)
)
