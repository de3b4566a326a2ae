package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

// ErrCancelled is returned when the user declines a confirmation prompt
var ErrCancelled = errors.New("operation cancelled")

// ChainBackend is the deployed registry and factory system
type ChainBackend interface {
	ChainID() uint64

	// DeployCore deploys the registry and the factory and grants FACTORY_ROLE
	// to the factory. The caller becomes the registry admin.
	DeployCore(ctx context.Context, admin common.Address) (*CoreDeployment, error)
	DeployImplementation(ctx context.Context, from common.Address, logic string) (common.Address, *TxResult, error)

	// Catalog
	SetModule(ctx context.Context, from common.Address, moduleID domain.ModuleID, impl common.Address) (*TxResult, error)
	Catalog(ctx context.Context) ([]domain.CatalogEntry, error)
	ModuleABI(ctx context.Context, moduleID domain.ModuleID) (*abi.ABI, error)

	// Factory
	PredictCloneAddress(ctx context.Context, moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) (common.Address, error)
	DeployModules(ctx context.Context, from common.Address, dom domain.Domain, batch []ModuleDeployment) (*DeployResult, error)

	// Instances
	GetInstance(ctx context.Context, key domain.InstanceKey) (domain.InstanceRecord, error)
	GetCanonical(ctx context.Context, dom domain.Domain, moduleID domain.ModuleID) (domain.InstanceRecord, error)
	PromoteCanonical(ctx context.Context, from common.Address, key domain.InstanceKey) (*TxResult, error)
	InstanceHistory(ctx context.Context, filter InstanceFilter) ([]domain.InstanceRecord, error)

	// Roles
	HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error)
	GrantRole(ctx context.Context, from common.Address, role common.Hash, account common.Address) (*TxResult, error)
	RevokeRole(ctx context.Context, from common.Address, role common.Hash, account common.Address) (*TxResult, error)
}

// DeploymentStore persists the addresses of the core contracts
type DeploymentStore interface {
	// Load returns domain.ErrNotBootstrapped when nothing has been saved
	Load(ctx context.Context) (*domain.Deployment, error)
	Save(ctx context.Context, deployment *domain.Deployment) error
}

// LocalConfigStore manages local configuration persistence
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}

// PlanLoader reads deployment plans
type PlanLoader interface {
	LoadPlan(ctx context.Context, path string) (*domain.DeploymentPlan, error)
}

// ProjectWriter creates project files during init
type ProjectWriter interface {
	FileExists(ctx context.Context, path string) (bool, error)
	EnsureDirectory(ctx context.Context, path string) error
	WriteProjectConfig(ctx context.Context, path string, cfg *config.ProjectConfig) error
	WriteFile(ctx context.Context, path string, content string) error
}

// ModuleResolver turns user input into a catalog module id
type ModuleResolver interface {
	ResolveModule(ctx context.Context, name string) (domain.ModuleID, error)
}

// Confirmer asks the user to confirm a state change
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// MetricsRecorder records operational metrics
type MetricsRecorder interface {
	ObserveTransaction(operation string, duration time.Duration, err error)
	AddModulesDeployed(module string, count int)
}

// NopMetrics discards every observation
type NopMetrics struct{}

func (NopMetrics) ObserveTransaction(string, time.Duration, error) {}
func (NopMetrics) AddModulesDeployed(string, int)                  {}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Backend result types

// TxResult describes a committed transaction
type TxResult struct {
	TxHash      common.Hash    `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
	Events      []events.Event `json:"-"`
}

// CoreDeployment holds the addresses created by DeployCore
type CoreDeployment struct {
	Registry common.Address
	Factory  common.Address
	Tx       *TxResult
}

// ModuleDeployment is one entry of a deployModules batch
type ModuleDeployment struct {
	ModuleID   domain.ModuleID
	InstanceID domain.InstanceID
	Payload    []byte
}

// DeployResult is the outcome of a deployModules batch
type DeployResult struct {
	Addresses []common.Address
	Tx        *TxResult
}

// InstanceFilter narrows instance history queries. Nil fields match everything.
type InstanceFilter struct {
	Domain   *domain.Domain
	ModuleID *domain.ModuleID
}

// moduleLabel returns the configured name of a module id
func moduleLabel(cfg *config.RuntimeConfig, id domain.ModuleID) string {
	if cfg == nil || cfg.Project == nil {
		return id.String()
	}
	return cfg.Project.ModuleName(id)
}

// requireDomain returns the configured domain or an error asking for one
func requireDomain(cfg *config.RuntimeConfig) (domain.Domain, error) {
	return selectDomain(cfg, "")
}

// selectDomain parses override when set and falls back to the configured domain
func selectDomain(cfg *config.RuntimeConfig, override string) (domain.Domain, error) {
	if override != "" {
		return domain.ParseDomain(override)
	}
	if cfg.Domain.IsZero() {
		return domain.Domain{}, errors.New("no domain selected, pass --domain or set ZDAO_DOMAIN")
	}
	return cfg.Domain, nil
}
