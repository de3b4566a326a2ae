package usecase_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
	"github.com/zerotreasury/zdao/internal/usecase"
)

var (
	registryAddr = common.HexToAddress("0x5000000000000000000000000000000000000005")
	factoryAddr  = common.HexToAddress("0x6000000000000000000000000000000000000006")
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys core and registers configured modules in id order", func(t *testing.T) {
		backend := new(MockBackend)
		store := new(MockDeploymentStore)
		cfg := testConfig()

		store.On("Load", ctx).Return(nil, domain.ErrNotBootstrapped)
		store.On("Save", ctx, mock.AnythingOfType("*domain.Deployment")).Return(nil)
		backend.On("ChainID").Return(uint64(31337))
		backend.On("DeployCore", ctx, admin).Return(&usecase.CoreDeployment{Registry: registryAddr, Factory: factoryAddr, Tx: &usecase.TxResult{}}, nil)

		impls := map[string]common.Address{}
		var order []domain.ModuleID
		for _, m := range cfg.Project.SortedModules() {
			impl := common.BigToAddress(big.NewInt(int64(0x100 + m.ID)))
			impls[m.Name] = impl
			backend.On("DeployImplementation", ctx, admin, m.Logic).Return(impl, &usecase.TxResult{}, nil)
			backend.On("SetModule", ctx, admin, domain.ModuleID(m.ID), impl).
				Run(func(mock.Arguments) { order = append(order, domain.ModuleID(m.ID)) }).
				Return(&usecase.TxResult{}, nil)
		}
		backend.On("Catalog", ctx).Return([]domain.CatalogEntry{
			{ModuleID: domain.ModuleGovernor, Implementation: impls["governor"]},
			{ModuleID: domain.ModuleTimelock, Implementation: impls["timelock"]},
		}, nil)

		metrics := &recordingMetrics{}
		uc := usecase.NewBootstrap(cfg, backend, store, usecase.NopProgress{}, metrics, discardLogger())
		result, err := uc.Run(ctx, usecase.BootstrapParams{})
		require.NoError(t, err)

		assert.True(t, result.Created)
		assert.Equal(t, registryAddr, result.Deployment.Registry)
		assert.Equal(t, factoryAddr, result.Deployment.Factory)
		assert.Equal(t, admin, result.Deployment.Admin)
		assert.Equal(t, uint64(31337), result.Deployment.ChainID)
		assert.Equal(t, impls, result.Deployment.Implementations)
		assert.Equal(t, []domain.ModuleID{1, 2, 3}, order)
		assert.Equal(t, "governor", result.Catalog[0].Name)
		assert.Equal(t, []string{"bootstrap", "setModule", "setModule", "setModule"}, metrics.ops)
		store.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("existing deployment is returned unchanged", func(t *testing.T) {
		backend := new(MockBackend)
		store := new(MockDeploymentStore)
		existing := &domain.Deployment{Registry: registryAddr, Factory: factoryAddr}
		store.On("Load", ctx).Return(existing, nil)
		backend.On("Catalog", ctx).Return([]domain.CatalogEntry{}, nil)

		uc := usecase.NewBootstrap(testConfig(), backend, store, usecase.NopProgress{}, usecase.NopMetrics{}, discardLogger())
		result, err := uc.Run(ctx, usecase.BootstrapParams{})
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Same(t, existing, result.Deployment)
		backend.AssertNotCalled(t, "DeployCore", mock.Anything, mock.Anything)
	})
}

func TestSetModule(t *testing.T) {
	ctx := context.Background()
	impl := common.HexToAddress("0x7000000000000000000000000000000000000007")
	previous := common.HexToAddress("0x8000000000000000000000000000000000000008")

	t.Run("explicit implementation", func(t *testing.T) {
		backend := new(MockBackend)
		cfg := testConfig()
		backend.On("SetModule", ctx, admin, domain.ModuleTimelock, impl).Return(&usecase.TxResult{
			Events: []events.Event{&events.ModuleSet{ModuleId: big.NewInt(2), Implementation: impl, Previous: previous}},
		}, nil)

		uc := usecase.NewSetModule(cfg, backend, projectModules{cfg.Project}, usecase.NopProgress{}, usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.SetModuleParams{Module: "timelock", Implementation: impl})
		require.NoError(t, err)
		assert.Equal(t, "timelock", result.Name)
		assert.Equal(t, previous, result.Previous)
		assert.False(t, result.Deployed)
	})

	t.Run("deploys configured logic when no address is given", func(t *testing.T) {
		backend := new(MockBackend)
		cfg := testConfig()
		backend.On("DeployImplementation", ctx, admin, "TreasuryUpgradeable").Return(impl, &usecase.TxResult{}, nil)
		backend.On("SetModule", ctx, admin, domain.ModuleTreasury, impl).Return(&usecase.TxResult{}, nil)

		uc := usecase.NewSetModule(cfg, backend, projectModules{cfg.Project}, usecase.NopProgress{}, usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.SetModuleParams{Module: "treasury"})
		require.NoError(t, err)
		assert.True(t, result.Deployed)
		assert.Equal(t, impl, result.Implementation)
	})

	t.Run("unauthorized sender", func(t *testing.T) {
		backend := new(MockBackend)
		cfg := testConfig()
		denied := &domain.UnauthorizedError{Account: admin, Role: domain.AdminRole}
		backend.On("SetModule", ctx, admin, domain.ModuleGovernor, impl).Return(nil, denied)

		uc := usecase.NewSetModule(cfg, backend, projectModules{cfg.Project}, usecase.NopProgress{}, usecase.NopMetrics{})
		_, err := uc.Run(ctx, usecase.SetModuleParams{Module: "governor", Implementation: impl})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestPredictAddress(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	cfg := testConfig()
	key := domain.InstanceKey{Domain: community, ModuleID: domain.ModuleTimelock, InstanceID: 4}
	backend.On("PredictCloneAddress", ctx, domain.ModuleTimelock, community, domain.InstanceID(4)).Return(timelockClone, nil)
	backend.On("GetInstance", ctx, key).Return(domain.InstanceRecord{}, nil)

	uc := usecase.NewPredictAddress(cfg, backend, projectModules{cfg.Project})
	result, err := uc.Run(ctx, usecase.PredictAddressParams{Module: "timelock", Instance: 4})
	require.NoError(t, err)
	assert.Equal(t, timelockClone, result.Address)
	assert.Equal(t, key, result.Key)
	assert.False(t, result.Deployed)

	t.Run("requires a domain", func(t *testing.T) {
		cfg := testConfig()
		cfg.Domain = domain.Domain{}
		_, err := usecase.NewPredictAddress(cfg, backend, projectModules{cfg.Project}).
			Run(ctx, usecase.PredictAddressParams{Module: "timelock"})
		assert.Error(t, err)
	})
}

func TestListInstances(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	cfg := testConfig()

	rec := func(id domain.ModuleID, inst domain.InstanceID, addr string, canonical bool) domain.InstanceRecord {
		return domain.InstanceRecord{
			Key:         domain.InstanceKey{Domain: community, ModuleID: id, InstanceID: inst},
			Address:     common.HexToAddress(addr),
			IsCanonical: canonical,
			Deployed:    true,
		}
	}
	history := []domain.InstanceRecord{
		rec(domain.ModuleTimelock, 2, "0xb2", false),
		rec(domain.ModuleTimelock, 1, "0xb1", true),
		rec(domain.ModuleGovernor, 1, "0xa1", false),
	}
	dom := community
	backend.On("InstanceHistory", ctx, usecase.InstanceFilter{Domain: &dom}).Return(history, nil)
	// instance 2 was promoted after instance 1 was recorded canonical
	backend.On("GetCanonical", ctx, community, domain.ModuleTimelock).Return(rec(domain.ModuleTimelock, 2, "0xb2", true), nil)
	backend.On("GetCanonical", ctx, community, domain.ModuleGovernor).Return(domain.InstanceRecord{}, nil)

	uc := usecase.NewListInstances(cfg, backend, projectModules{cfg.Project}, usecase.NopProgress{})
	result, err := uc.Run(ctx, usecase.ListInstancesParams{})
	require.NoError(t, err)

	require.Len(t, result.Instances, 3)
	assert.Equal(t, "governor", result.Instances[0].Name)
	assert.False(t, result.Instances[0].Current)
	assert.Equal(t, domain.InstanceID(1), result.Instances[1].Key.InstanceID)
	assert.True(t, result.Instances[1].IsCanonical)
	assert.False(t, result.Instances[1].Current)
	assert.False(t, result.Instances[2].IsCanonical)
	assert.True(t, result.Instances[2].Current)
	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Canonical)
	assert.Equal(t, 2, result.Summary.ByModule["timelock"])
	backend.AssertNumberOfCalls(t, "GetCanonical", 2)
}

func TestGetInstance(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	key := domain.InstanceKey{Domain: community, ModuleID: domain.ModuleTimelock, InstanceID: 3}
	record := domain.InstanceRecord{Key: key, Address: common.HexToAddress("0xb3"), Deployed: true}

	t.Run("promoted record keeps its write-time flag", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("GetInstance", ctx, key).Return(record, nil)
		backend.On("GetCanonical", ctx, community, domain.ModuleTimelock).Return(record, nil)

		view, err := usecase.NewGetInstance(cfg, backend, projectModules{cfg.Project}).
			Run(ctx, usecase.InstanceParams{Module: "timelock", Instance: 3})
		require.NoError(t, err)
		assert.Equal(t, "timelock", view.Name)
		assert.False(t, view.IsCanonical)
		assert.True(t, view.Current)
	})

	t.Run("unset key skips the canonical lookup", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("GetInstance", ctx, key).Return(domain.InstanceRecord{}, nil)

		view, err := usecase.NewGetInstance(cfg, backend, projectModules{cfg.Project}).
			Run(ctx, usecase.InstanceParams{Module: "timelock", Instance: 3})
		require.NoError(t, err)
		assert.False(t, view.Deployed)
		assert.False(t, view.Current)
		assert.Equal(t, key, view.Key)
		backend.AssertNotCalled(t, "GetCanonical", ctx, community, domain.ModuleTimelock)
	})
}

func TestPromoteCanonical(t *testing.T) {
	ctx := context.Background()
	key := domain.InstanceKey{Domain: community, ModuleID: domain.ModuleTimelock, InstanceID: 2}
	newer := domain.InstanceRecord{Key: key, Address: common.HexToAddress("0xb2"), Deployed: true}
	older := domain.InstanceRecord{
		Key:         domain.InstanceKey{Domain: community, ModuleID: domain.ModuleTimelock, InstanceID: 1},
		Address:     common.HexToAddress("0xb1"),
		IsCanonical: true,
		Deployed:    true,
	}

	newUseCase := func(backend *MockBackend, confirmer *MockConfirmer, interactive bool) *usecase.PromoteCanonical {
		cfg := testConfig()
		cfg.NonInteractive = !interactive
		return usecase.NewPromoteCanonical(cfg, backend, projectModules{cfg.Project}, confirmer, &MockProgressSink{}, usecase.NopMetrics{})
	}

	t.Run("promotes after confirmation", func(t *testing.T) {
		backend := new(MockBackend)
		confirmer := new(MockConfirmer)
		backend.On("GetInstance", ctx, key).Return(newer, nil)
		backend.On("GetCanonical", ctx, community, domain.ModuleTimelock).Return(older, nil)
		confirmer.On("Confirm", ctx, mock.MatchedBy(func(msg string) bool {
			return assert.Contains(t, msg, older.Address.Hex())
		})).Return(true, nil)
		backend.On("PromoteCanonical", ctx, admin, key).Return(&usecase.TxResult{
			Events: []events.Event{&events.CanonicalPromoted{
				Domain: community, ModuleId: big.NewInt(2), InstanceId: big.NewInt(2),
				Canonical: newer.Address, Previous: older.Address,
			}},
		}, nil)

		result, err := newUseCase(backend, confirmer, true).Run(ctx, usecase.PromoteCanonicalParams{Module: "timelock", Instance: 2})
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, newer.Address, result.Canonical)
		assert.Equal(t, older.Address, result.Previous)
		confirmer.AssertExpectations(t)
	})

	t.Run("declined confirmation", func(t *testing.T) {
		backend := new(MockBackend)
		confirmer := new(MockConfirmer)
		backend.On("GetInstance", ctx, key).Return(newer, nil)
		backend.On("GetCanonical", ctx, community, domain.ModuleTimelock).Return(older, nil)
		confirmer.On("Confirm", ctx, mock.Anything).Return(false, nil)

		_, err := newUseCase(backend, confirmer, true).Run(ctx, usecase.PromoteCanonicalParams{Module: "timelock", Instance: 2})
		assert.ErrorIs(t, err, usecase.ErrCancelled)
		backend.AssertNotCalled(t, "PromoteCanonical", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already canonical is a no-op", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("GetInstance", ctx, older.Key).Return(older, nil)
		backend.On("GetCanonical", ctx, community, domain.ModuleTimelock).Return(older, nil)

		result, err := newUseCase(backend, new(MockConfirmer), false).Run(ctx, usecase.PromoteCanonicalParams{Module: "timelock", Instance: 1})
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Nil(t, result.Tx)
	})

	t.Run("unrecorded instance", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("GetInstance", ctx, key).Return(domain.InstanceRecord{}, nil)

		_, err := newUseCase(backend, new(MockConfirmer), false).Run(ctx, usecase.PromoteCanonicalParams{Module: "timelock", Instance: 2})
		assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
	})
}

func TestManageRoles(t *testing.T) {
	ctx := context.Background()
	operator := common.HexToAddress("0x00000000000000000000000000000000000000c0")

	tests := []struct {
		name        string
		action      usecase.RoleAction
		before      bool
		wantHasRole bool
		wantChanged bool
	}{
		{"grant new member", usecase.RoleActionGrant, false, true, true},
		{"grant existing member", usecase.RoleActionGrant, true, true, false},
		{"revoke member", usecase.RoleActionRevoke, true, false, true},
		{"check", usecase.RoleActionCheck, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := new(MockBackend)
			backend.On("HasRole", ctx, domain.FactoryRole, operator).Return(tt.before, nil)
			backend.On("GrantRole", ctx, admin, domain.FactoryRole, operator).Return(&usecase.TxResult{}, nil)
			backend.On("RevokeRole", ctx, admin, domain.FactoryRole, operator).Return(&usecase.TxResult{}, nil)

			uc := usecase.NewManageRoles(testConfig(), backend, usecase.NopProgress{}, usecase.NopMetrics{})
			result, err := uc.Run(ctx, usecase.ManageRolesParams{Action: tt.action, Role: "factory", Account: operator.Hex()})
			require.NoError(t, err)
			assert.Equal(t, "FACTORY_ROLE", result.Name)
			assert.Equal(t, tt.wantHasRole, result.HasRole)
			assert.Equal(t, tt.wantChanged, result.Changed)
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		uc := usecase.NewManageRoles(testConfig(), new(MockBackend), usecase.NopProgress{}, usecase.NopMetrics{})
		_, err := uc.Run(ctx, usecase.ManageRolesParams{Action: usecase.RoleActionCheck, Role: "minter", Account: "admin"})
		assert.Error(t, err)
	})
}
