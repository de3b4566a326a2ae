package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
	"github.com/zerotreasury/zdao/internal/factory"
	"github.com/zerotreasury/zdao/internal/modules"
	"github.com/zerotreasury/zdao/internal/registry"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// ProvideChain creates the execution environment with every contract logic
// registered and the persisted state loaded
func ProvideChain(cfg *config.RuntimeConfig, store chain.SnapshotStore, log *slog.Logger) (*chain.Chain, error) {
	c := chain.New(
		chain.WithChainID(cfg.Project.Chain.ChainID),
		chain.WithStore(store),
		chain.WithLogger(log),
	)
	c.RegisterLogic(registry.Logic{}, factory.Logic{})
	for _, m := range modules.All() {
		c.RegisterLogic(m)
	}
	if err := c.Load(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// Backend exposes the registry and factory deployed on a chain
type Backend struct {
	chain *chain.Chain
	store usecase.DeploymentStore
	log   *slog.Logger
}

// NewBackend creates a new Backend
func NewBackend(c *chain.Chain, store usecase.DeploymentStore, log *slog.Logger) *Backend {
	return &Backend{
		chain: c,
		store: store,
		log:   log.With("component", "backend"),
	}
}

// ChainID returns the chain id
func (b *Backend) ChainID() uint64 {
	return b.chain.ChainID()
}

// core binds the registry and factory recorded in the deployment manifest
func (b *Backend) core(ctx context.Context) (*factory.Factory, error) {
	dep, err := b.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotBootstrapped) {
			return nil, fmt.Errorf("%w, run `zdao bootstrap` first", err)
		}
		return nil, err
	}
	if dep.ChainID != 0 && dep.ChainID != b.chain.ChainID() {
		return nil, fmt.Errorf("deployment is on chain %d, configured chain is %d", dep.ChainID, b.chain.ChainID())
	}
	return factory.At(dep.Factory, registry.At(dep.Registry)), nil
}

func (b *Backend) transact(ctx context.Context, from common.Address, fn func(env *chain.Env) error) (*usecase.TxResult, error) {
	receipt, err := b.chain.Transact(ctx, from, fn)
	if err != nil {
		return nil, err
	}
	logs := make([]types.Log, len(receipt.Logs))
	for i, l := range receipt.Logs {
		logs[i] = *l
	}
	evs, err := events.DecodeAll(logs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode receipt logs: %w", err)
	}
	b.log.Debug("transaction", "tx", receipt.TxHash.Hex(), "block", receipt.BlockNumber, "events", len(evs))
	return &usecase.TxResult{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		Events:      evs,
	}, nil
}

func (b *Backend) view(ctx context.Context, fn func(f *factory.Factory, state *chain.StateDB) error) error {
	f, err := b.core(ctx)
	if err != nil {
		return err
	}
	return b.chain.Call(ctx, common.Address{}, func(env *chain.Env) error {
		return fn(f, env.State())
	})
}

// DeployCore deploys the registry and the factory in one transaction
func (b *Backend) DeployCore(ctx context.Context, admin common.Address) (*usecase.CoreDeployment, error) {
	var core usecase.CoreDeployment
	tx, err := b.transact(ctx, admin, func(env *chain.Env) error {
		reg, err := registry.Deploy(env, admin, nil)
		if err != nil {
			return err
		}
		f, err := factory.Deploy(env, reg)
		if err != nil {
			return err
		}
		core.Registry = reg.Address()
		core.Factory = f.Address()
		return reg.GrantRole(env, domain.FactoryRole, f.Address())
	})
	if err != nil {
		return nil, err
	}
	core.Tx = tx
	return &core, nil
}

// DeployImplementation deploys the implementation contract of a module logic
func (b *Backend) DeployImplementation(ctx context.Context, from common.Address, logic string) (common.Address, *usecase.TxResult, error) {
	m, err := modules.Lookup(logic)
	if err != nil {
		return common.Address{}, nil, err
	}
	var impl common.Address
	tx, err := b.transact(ctx, from, func(env *chain.Env) error {
		var err error
		impl, err = modules.DeployImplementation(env, m)
		return err
	})
	if err != nil {
		return common.Address{}, nil, err
	}
	b.log.Debug("implementation deployed", "logic", m.Name(), "address", impl.Hex())
	return impl, tx, nil
}

// SetModule updates the catalog
func (b *Backend) SetModule(ctx context.Context, from common.Address, moduleID domain.ModuleID, impl common.Address) (*usecase.TxResult, error) {
	f, err := b.core(ctx)
	if err != nil {
		return nil, err
	}
	return b.transact(ctx, from, func(env *chain.Env) error {
		return f.Registry().SetModule(env, moduleID, impl)
	})
}

// Catalog returns the catalog ordered by module id
func (b *Backend) Catalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	err := b.view(ctx, func(f *factory.Factory, state *chain.StateDB) error {
		entries = f.Registry().Catalog(state)
		return nil
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].ModuleID < entries[j].ModuleID })
	return entries, err
}

// ModuleABI returns the ABI of the current implementation of a module
func (b *Backend) ModuleABI(ctx context.Context, moduleID domain.ModuleID) (*abi.ABI, error) {
	var logic string
	err := b.view(ctx, func(f *factory.Factory, state *chain.StateDB) error {
		impl, err := f.Registry().Module(state, moduleID)
		if err != nil {
			return err
		}
		logic = state.GetLogic(impl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	m, err := modules.Lookup(logic)
	if err != nil {
		return nil, fmt.Errorf("module %d: %w", moduleID, err)
	}
	return m.ABI(), nil
}

// PredictCloneAddress returns the address deployModules would use
func (b *Backend) PredictCloneAddress(ctx context.Context, moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) (common.Address, error) {
	var addr common.Address
	err := b.view(ctx, func(f *factory.Factory, state *chain.StateDB) error {
		var err error
		addr, err = f.PredictCloneAddress(state, moduleID, dom, instanceID)
		return err
	})
	return addr, err
}

// DeployModules runs one atomic deployModules batch
func (b *Backend) DeployModules(ctx context.Context, from common.Address, dom domain.Domain, batch []usecase.ModuleDeployment) (*usecase.DeployResult, error) {
	f, err := b.core(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]domain.ModuleID, len(batch))
	payloads := make([][]byte, len(batch))
	instances := make([]domain.InstanceID, len(batch))
	for i, m := range batch {
		ids[i], payloads[i], instances[i] = m.ModuleID, m.Payload, m.InstanceID
	}

	var addrs []common.Address
	tx, err := b.transact(ctx, from, func(env *chain.Env) error {
		var err error
		addrs, err = f.DeployModules(env, dom, ids, payloads, instances)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &usecase.DeployResult{Addresses: addrs, Tx: tx}, nil
}

// GetInstance reads one instance record
func (b *Backend) GetInstance(ctx context.Context, key domain.InstanceKey) (domain.InstanceRecord, error) {
	var rec domain.InstanceRecord
	err := b.view(ctx, func(f *factory.Factory, state *chain.StateDB) error {
		rec = f.Registry().GetRecord(state, key)
		return nil
	})
	return rec, err
}

// GetCanonical reads the canonical instance of a module. Deployed is false when unset.
func (b *Backend) GetCanonical(ctx context.Context, dom domain.Domain, moduleID domain.ModuleID) (domain.InstanceRecord, error) {
	rec := domain.InstanceRecord{Key: domain.InstanceKey{Domain: dom, ModuleID: moduleID}}
	err := b.view(ctx, func(f *factory.Factory, state *chain.StateDB) error {
		_, instanceID, ok := f.Registry().GetCanonical(state, dom, moduleID)
		if !ok {
			return nil
		}
		rec = f.Registry().GetRecord(state, domain.InstanceKey{Domain: dom, ModuleID: moduleID, InstanceID: instanceID})
		return nil
	})
	return rec, err
}

// PromoteCanonical moves the canonical pointer
func (b *Backend) PromoteCanonical(ctx context.Context, from common.Address, key domain.InstanceKey) (*usecase.TxResult, error) {
	f, err := b.core(ctx)
	if err != nil {
		return nil, err
	}
	return b.transact(ctx, from, func(env *chain.Env) error {
		return f.Registry().PromoteCanonical(env, key)
	})
}

// InstanceHistory returns the records announced by DomainModuleInstanceRecorded
// events, oldest first
func (b *Backend) InstanceHistory(ctx context.Context, filter usecase.InstanceFilter) ([]domain.InstanceRecord, error) {
	f, err := b.core(ctx)
	if err != nil {
		return nil, err
	}

	topics := [][]common.Hash{{events.TopicInstanceRecorded}, nil, nil}
	if filter.Domain != nil {
		topics[1] = []common.Hash{filter.Domain.Hash()}
	}
	if filter.ModuleID != nil {
		topics[2] = []common.Hash{common.BigToHash(filter.ModuleID.Big())}
	}

	logs, err := b.chain.FilterLogs(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{f.Registry().Address()},
		Topics:    topics,
	})
	if err != nil {
		return nil, err
	}

	records := make([]domain.InstanceRecord, 0, len(logs))
	for _, l := range logs {
		ev, err := events.Decode(l)
		if err != nil {
			return nil, fmt.Errorf("failed to decode log %d: %w", l.Index, err)
		}
		if rec, ok := ev.(*events.InstanceRecorded); ok {
			records = append(records, rec.Record())
		}
	}
	return records, nil
}

// HasRole reports registry role membership
func (b *Backend) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	var has bool
	err := b.view(ctx, func(f *factory.Factory, state *chain.StateDB) error {
		has = f.Registry().HasRole(state, role, account)
		return nil
	})
	return has, err
}

// GrantRole grants a registry role
func (b *Backend) GrantRole(ctx context.Context, from common.Address, role common.Hash, account common.Address) (*usecase.TxResult, error) {
	f, err := b.core(ctx)
	if err != nil {
		return nil, err
	}
	return b.transact(ctx, from, func(env *chain.Env) error {
		return f.Registry().GrantRole(env, role, account)
	})
}

// RevokeRole revokes a registry role
func (b *Backend) RevokeRole(ctx context.Context, from common.Address, role common.Hash, account common.Address) (*usecase.TxResult, error) {
	f, err := b.core(ctx)
	if err != nil {
		return nil, err
	}
	return b.transact(ctx, from, func(env *chain.Env) error {
		return f.Registry().RevokeRole(env, role, account)
	})
}

// Ensure Backend implements ChainBackend
var _ usecase.ChainBackend = (*Backend)(nil)
