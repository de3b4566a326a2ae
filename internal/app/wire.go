//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/zerotreasury/zdao/internal/adapters"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/logging"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// InitApp creates a fully wired App instance. The cleanup releases the chain
// state store.
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewInitProject,
		usecase.NewBootstrap,
		usecase.NewSetModule,
		usecase.NewShowCatalog,
		usecase.NewPredictAddress,
		usecase.NewDeployModules,
		usecase.NewGetInstance,
		usecase.NewListInstances,
		usecase.NewGetCanonical,
		usecase.NewPromoteCanonical,
		usecase.NewManageRoles,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil, nil
}
