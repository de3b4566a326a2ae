package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

var (
	admin     = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	community = domain.DomainFromName("community-domain")
)

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot:    "/project",
		DataDir:        "/project/.zdao",
		DomainName:     "community-domain",
		Domain:         community,
		From:           admin,
		NonInteractive: true,
		Project:        config.DefaultProjectConfig(),
	}
}

// MockBackend is a mock implementation of ChainBackend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ChainID() uint64 {
	return m.Called().Get(0).(uint64)
}

func (m *MockBackend) DeployCore(ctx context.Context, admin common.Address) (*usecase.CoreDeployment, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CoreDeployment), args.Error(1)
}

func (m *MockBackend) DeployImplementation(ctx context.Context, from common.Address, logic string) (common.Address, *usecase.TxResult, error) {
	args := m.Called(ctx, from, logic)
	tx, _ := args.Get(1).(*usecase.TxResult)
	return args.Get(0).(common.Address), tx, args.Error(2)
}

func (m *MockBackend) SetModule(ctx context.Context, from common.Address, moduleID domain.ModuleID, impl common.Address) (*usecase.TxResult, error) {
	args := m.Called(ctx, from, moduleID, impl)
	tx, _ := args.Get(0).(*usecase.TxResult)
	return tx, args.Error(1)
}

func (m *MockBackend) Catalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]domain.CatalogEntry)
	return entries, args.Error(1)
}

func (m *MockBackend) ModuleABI(ctx context.Context, moduleID domain.ModuleID) (*abi.ABI, error) {
	args := m.Called(ctx, moduleID)
	a, _ := args.Get(0).(*abi.ABI)
	return a, args.Error(1)
}

func (m *MockBackend) PredictCloneAddress(ctx context.Context, moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) (common.Address, error) {
	args := m.Called(ctx, moduleID, dom, instanceID)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockBackend) DeployModules(ctx context.Context, from common.Address, dom domain.Domain, batch []usecase.ModuleDeployment) (*usecase.DeployResult, error) {
	args := m.Called(ctx, from, dom, batch)
	res, _ := args.Get(0).(*usecase.DeployResult)
	return res, args.Error(1)
}

func (m *MockBackend) GetInstance(ctx context.Context, key domain.InstanceKey) (domain.InstanceRecord, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.InstanceRecord), args.Error(1)
}

func (m *MockBackend) GetCanonical(ctx context.Context, dom domain.Domain, moduleID domain.ModuleID) (domain.InstanceRecord, error) {
	args := m.Called(ctx, dom, moduleID)
	return args.Get(0).(domain.InstanceRecord), args.Error(1)
}

func (m *MockBackend) PromoteCanonical(ctx context.Context, from common.Address, key domain.InstanceKey) (*usecase.TxResult, error) {
	args := m.Called(ctx, from, key)
	tx, _ := args.Get(0).(*usecase.TxResult)
	return tx, args.Error(1)
}

func (m *MockBackend) InstanceHistory(ctx context.Context, filter usecase.InstanceFilter) ([]domain.InstanceRecord, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]domain.InstanceRecord)
	return records, args.Error(1)
}

func (m *MockBackend) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	args := m.Called(ctx, role, account)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) GrantRole(ctx context.Context, from common.Address, role common.Hash, account common.Address) (*usecase.TxResult, error) {
	args := m.Called(ctx, from, role, account)
	tx, _ := args.Get(0).(*usecase.TxResult)
	return tx, args.Error(1)
}

func (m *MockBackend) RevokeRole(ctx context.Context, from common.Address, role common.Hash, account common.Address) (*usecase.TxResult, error) {
	args := m.Called(ctx, from, role, account)
	tx, _ := args.Get(0).(*usecase.TxResult)
	return tx, args.Error(1)
}

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) Load(ctx context.Context) (*domain.Deployment, error) {
	args := m.Called(ctx)
	dep, _ := args.Get(0).(*domain.Deployment)
	return dep, args.Error(1)
}

func (m *MockDeploymentStore) Save(ctx context.Context, deployment *domain.Deployment) error {
	return m.Called(ctx, deployment).Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

// projectModules resolves module names against the project config
type projectModules struct {
	project *config.ProjectConfig
}

func (p projectModules) ResolveModule(_ context.Context, name string) (domain.ModuleID, error) {
	return p.project.ModuleID(name)
}

// staticPlans serves one in-memory plan
type staticPlans struct {
	plan *domain.DeploymentPlan
}

func (s staticPlans) LoadPlan(context.Context, string) (*domain.DeploymentPlan, error) {
	return s.plan, nil
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (m *MockProgressSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) { m.infos = append(m.infos, message) }

func (m *MockProgressSink) Error(string) {}

// recordingMetrics captures observations
type recordingMetrics struct {
	mu       sync.Mutex
	ops      []string
	failures int
	deployed map[string]int
}

func (r *recordingMetrics) ObserveTransaction(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	if err != nil {
		r.failures++
	}
}

func (r *recordingMetrics) AddModulesDeployed(module string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deployed == nil {
		r.deployed = make(map[string]int)
	}
	r.deployed[module] += n
}
