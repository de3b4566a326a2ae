package app

import (
	"log/slog"

	"github.com/zerotreasury/zdao/internal/adapters/httpapi"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	InitProject      *usecase.InitProject
	Bootstrap        *usecase.Bootstrap
	SetModule        *usecase.SetModule
	ShowCatalog      *usecase.ShowCatalog
	PredictAddress   *usecase.PredictAddress
	DeployModules    *usecase.DeployModules
	GetInstance      *usecase.GetInstance
	ListInstances    *usecase.ListInstances
	GetCanonical     *usecase.GetCanonical
	PromoteCanonical *usecase.PromoteCanonical
	ManageRoles      *usecase.ManageRoles
	ShowConfig       *usecase.ShowConfig
	SetConfig        *usecase.SetConfig
	RemoveConfig     *usecase.RemoveConfig

	// Read API served by `zdao serve`
	HTTPHandler *httpapi.Handler
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	initProject *usecase.InitProject,
	bootstrap *usecase.Bootstrap,
	setModule *usecase.SetModule,
	showCatalog *usecase.ShowCatalog,
	predictAddress *usecase.PredictAddress,
	deployModules *usecase.DeployModules,
	getInstance *usecase.GetInstance,
	listInstances *usecase.ListInstances,
	getCanonical *usecase.GetCanonical,
	promoteCanonical *usecase.PromoteCanonical,
	manageRoles *usecase.ManageRoles,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	httpHandler *httpapi.Handler,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		InitProject:      initProject,
		Bootstrap:        bootstrap,
		SetModule:        setModule,
		ShowCatalog:      showCatalog,
		PredictAddress:   predictAddress,
		DeployModules:    deployModules,
		GetInstance:      getInstance,
		ListInstances:    listInstances,
		GetCanonical:     getCanonical,
		PromoteCanonical: promoteCanonical,
		ManageRoles:      manageRoles,
		ShowConfig:       showConfig,
		SetConfig:        setConfig,
		RemoveConfig:     removeConfig,
		HTTPHandler:      httpHandler,
	}, nil
}
