package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
)

// BootstrapParams contains parameters for bootstrapping
type BootstrapParams struct {
	// Admin receives DEFAULT_ADMIN_ROLE and ADMIN_ROLE. Defaults to the sender.
	Admin common.Address
}

// BootstrapResult contains the outcome of a bootstrap
type BootstrapResult struct {
	Deployment *domain.Deployment
	Created    bool
	Catalog    []domain.CatalogEntry
}

// Bootstrap deploys the registry, the factory and one implementation per
// configured module, then registers the implementations in the catalog
type Bootstrap struct {
	config   *config.RuntimeConfig
	backend  ChainBackend
	store    DeploymentStore
	progress ProgressSink
	metrics  MetricsRecorder
	log      *slog.Logger
}

// NewBootstrap creates a new Bootstrap use case
func NewBootstrap(
	cfg *config.RuntimeConfig,
	backend ChainBackend,
	store DeploymentStore,
	progress ProgressSink,
	metrics MetricsRecorder,
	log *slog.Logger,
) *Bootstrap {
	return &Bootstrap{
		config:   cfg,
		backend:  backend,
		store:    store,
		progress: progress,
		metrics:  metrics,
		log:      log.With("component", "Bootstrap"),
	}
}

// Run executes the bootstrap. It is idempotent: an existing deployment is
// returned unchanged.
func (uc *Bootstrap) Run(ctx context.Context, params BootstrapParams) (*BootstrapResult, error) {
	existing, err := uc.store.Load(ctx)
	if err == nil {
		catalog, err := uc.backend.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		return &BootstrapResult{Deployment: existing, Catalog: catalog}, nil
	}
	if !errors.Is(err, domain.ErrNotBootstrapped) {
		return nil, err
	}

	admin := params.Admin
	if admin == (common.Address{}) {
		admin = uc.config.From
	}

	modules := uc.config.Project.SortedModules()
	total := len(modules) + 1

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "core",
		Current: 1,
		Total:   total,
		Message: "Deploying registry and factory",
		Spinner: true,
	})

	start := time.Now()
	core, err := uc.backend.DeployCore(ctx, admin)
	uc.metrics.ObserveTransaction("bootstrap", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy core contracts: %w", err)
	}
	uc.log.Debug("core deployed", "registry", core.Registry.Hex(), "factory", core.Factory.Hex(), "admin", admin.Hex())

	now := time.Now().UTC()
	deployment := &domain.Deployment{
		ChainID:         uc.backend.ChainID(),
		Registry:        core.Registry,
		Factory:         core.Factory,
		Admin:           admin,
		Implementations: make(map[string]common.Address, len(modules)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	// Save before registering implementations so the backend can bind the registry
	if err := uc.store.Save(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to save deployment: %w", err)
	}

	for i, m := range modules {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "implementation",
			Current: i + 2,
			Total:   total,
			Message: fmt.Sprintf("Registering %s implementation (%s)", m.Name, m.Logic),
			Spinner: true,
		})

		start := time.Now()
		impl, _, err := uc.backend.DeployImplementation(ctx, admin, m.Logic)
		if err == nil {
			_, err = uc.backend.SetModule(ctx, admin, domain.ModuleID(m.ID), impl)
		}
		uc.metrics.ObserveTransaction("setModule", time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("failed to register module %s: %w", m.Name, err)
		}
		deployment.Implementations[m.Name] = impl
		uc.log.Debug("module registered", "module", m.Name, "id", m.ID, "implementation", impl.Hex())
	}

	deployment.UpdatedAt = time.Now().UTC()
	if err := uc.store.Save(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to save deployment: %w", err)
	}

	catalog, err := uc.backend.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalog {
		catalog[i].Name = moduleLabel(uc.config, catalog[i].ModuleID)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: total,
		Total:   total,
		Message: "Bootstrap complete",
	})

	return &BootstrapResult{Deployment: deployment, Created: true, Catalog: catalog}, nil
}
