//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/splitter-cli/internal/adapters"
	"github.com/trebuchet-org/splitter-cli/internal/config"
	"github.com/trebuchet-org/splitter-cli/internal/logging"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveParameters,
		usecase.NewPlanDeployment,
		usecase.NewDeploySplitter,
		usecase.NewVerifyDeployment,
		usecase.NewListDeployments,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
