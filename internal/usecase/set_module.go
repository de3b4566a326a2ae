package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

// SetModuleParams contains parameters for updating the catalog
type SetModuleParams struct {
	Module string
	// Implementation is registered as is. When zero, a fresh implementation of
	// Logic (or the module's configured logic) is deployed first.
	Implementation common.Address
	Logic          string
}

// SetModuleResult describes a catalog update
type SetModuleResult struct {
	ModuleID       domain.ModuleID
	Name           string
	Implementation common.Address
	Previous       common.Address
	Deployed       bool
	Tx             *TxResult
}

// SetModule registers or replaces the implementation of a module id
type SetModule struct {
	config   *config.RuntimeConfig
	backend  ChainBackend
	modules  ModuleResolver
	progress ProgressSink
	metrics  MetricsRecorder
}

// NewSetModule creates a new SetModule use case
func NewSetModule(cfg *config.RuntimeConfig, backend ChainBackend, modules ModuleResolver, progress ProgressSink, metrics MetricsRecorder) *SetModule {
	return &SetModule{
		config:   cfg,
		backend:  backend,
		modules:  modules,
		progress: progress,
		metrics:  metrics,
	}
}

// Run executes the catalog update
func (uc *SetModule) Run(ctx context.Context, params SetModuleParams) (*SetModuleResult, error) {
	id, err := uc.modules.ResolveModule(ctx, params.Module)
	if err != nil {
		return nil, err
	}
	name := moduleLabel(uc.config, id)
	result := &SetModuleResult{ModuleID: id, Name: name, Implementation: params.Implementation}

	if result.Implementation == (common.Address{}) {
		logic := params.Logic
		if logic == "" {
			m, ok := uc.config.Project.Modules[name]
			if !ok {
				return nil, fmt.Errorf("module %s has no configured logic, pass an implementation address", name)
			}
			logic = m.Logic
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "implementation",
			Message: fmt.Sprintf("Deploying %s implementation", logic),
			Spinner: true,
		})
		impl, _, err := uc.backend.DeployImplementation(ctx, uc.config.From, logic)
		if err != nil {
			return nil, fmt.Errorf("failed to deploy implementation: %w", err)
		}
		result.Implementation = impl
		result.Deployed = true
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "catalog",
		Message: fmt.Sprintf("Setting module %s to %s", name, result.Implementation.Hex()),
		Spinner: true,
	})

	start := time.Now()
	tx, err := uc.backend.SetModule(ctx, uc.config.From, id, result.Implementation)
	uc.metrics.ObserveTransaction("setModule", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Tx = tx

	for _, ev := range tx.Events {
		if set, ok := ev.(*events.ModuleSet); ok {
			result.Previous = set.Previous
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Catalog updated"})
	return result, nil
}

// ShowCatalog lists the registered module implementations
type ShowCatalog struct {
	config  *config.RuntimeConfig
	backend ChainBackend
}

// NewShowCatalog creates a new ShowCatalog use case
func NewShowCatalog(cfg *config.RuntimeConfig, backend ChainBackend) *ShowCatalog {
	return &ShowCatalog{config: cfg, backend: backend}
}

// Run returns the catalog ordered by module id with configured names attached
func (uc *ShowCatalog) Run(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries, err := uc.backend.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Name = moduleLabel(uc.config, entries[i].ModuleID)
	}
	return entries, nil
}
