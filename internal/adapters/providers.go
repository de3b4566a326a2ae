package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/zerotreasury/zdao/internal/adapters/backend"
	"github.com/zerotreasury/zdao/internal/adapters/fs"
	"github.com/zerotreasury/zdao/internal/adapters/httpapi"
	"github.com/zerotreasury/zdao/internal/adapters/interactive"
	"github.com/zerotreasury/zdao/internal/adapters/metrics"
	"github.com/zerotreasury/zdao/internal/adapters/plan"
	"github.com/zerotreasury/zdao/internal/adapters/progress"
	"github.com/zerotreasury/zdao/internal/adapters/sqlite"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// ProvideSnapshotStore selects chain state persistence by the configured
// store driver. The cleanup closes the database when one was opened.
func ProvideSnapshotStore(cfg *config.RuntimeConfig) (chain.SnapshotStore, func(), error) {
	switch cfg.Project.Store.Driver {
	case config.StoreDriverSQLite:
		store, err := sqlite.Open(cfg.StorePath())
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return fs.NewChainStateStoreAdapter(cfg), func() {}, nil
	}
}

// ProvideHTTPHandler builds the read API. Requests never prompt or draw
// progress, so its use cases get a non-interactive resolver and no sink.
func ProvideHTTPHandler(cfg *config.RuntimeConfig, chainBackend usecase.ChainBackend, m *metrics.Metrics, log *slog.Logger) *httpapi.Handler {
	serverCfg := *cfg
	serverCfg.NonInteractive = true
	resolver := interactive.NewSelectorAdapter(&serverCfg)

	return httpapi.New(httpapi.Services{
		Catalog:   usecase.NewShowCatalog(&serverCfg, chainBackend),
		Predict:   usecase.NewPredictAddress(&serverCfg, chainBackend, resolver),
		Instance:  usecase.NewGetInstance(&serverCfg, chainBackend, resolver),
		Canonical: usecase.NewGetCanonical(&serverCfg, chainBackend, resolver),
		List:      usecase.NewListInstances(&serverCfg, chainBackend, resolver, usecase.NopProgress{}),
	}, m.Registry, m, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDeploymentStoreAdapter,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.DeploymentStoreAdapter)),

	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.ProjectWriter), new(*fs.FileWriterAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),

	plan.NewLoader,
	wire.Bind(new(usecase.PlanLoader), new(*plan.Loader)),
)

// ChainSet provides the execution environment and the registry backend
var ChainSet = wire.NewSet(
	ProvideSnapshotStore,
	backend.ProvideChain,
	backend.NewBackend,
	wire.Bind(new(usecase.ChainBackend), new(*backend.Backend)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ModuleResolver), new(*interactive.SelectorAdapter)),

	interactive.NewConfirmer,
	wire.Bind(new(usecase.Confirmer), new(*interactive.Confirmer)),

	progress.NewProgressSink,
)

// ObservabilitySet provides metrics and the read API
var ObservabilitySet = wire.NewSet(
	metrics.New,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Metrics)),
	ProvideHTTPHandler,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	InteractiveSet,
	ObservabilitySet,
)
