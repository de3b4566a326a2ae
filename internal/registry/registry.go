// Package registry implements the module catalog and the instance registry:
// which implementation serves each module id, which clone was deployed for
// each (domain, module, instance) key and which instance is canonical.
package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/access"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

// Registry is a deployed registry contract
type Registry struct {
	address common.Address
	access  *access.Controller
}

// Deploy creates a registry. admin receives DEFAULT_ADMIN_ROLE and ADMIN_ROLE,
// each factory receives FACTORY_ROLE.
func Deploy(env *chain.Env, admin common.Address, factories []common.Address) (*Registry, error) {
	if admin == (common.Address{}) {
		return nil, fmt.Errorf("registry admin: %w", domain.ErrZeroAddress)
	}
	addr, err := env.Deploy(Logic{})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy registry: %w", err)
	}
	r := At(addr)
	r.access.Grant(env, domain.DefaultAdminRole, admin)
	r.access.Grant(env, domain.AdminRole, admin)
	for _, f := range factories {
		if f == (common.Address{}) {
			return nil, fmt.Errorf("registry factory: %w", domain.ErrZeroAddress)
		}
		r.access.Grant(env, domain.FactoryRole, f)
	}
	return r, nil
}

// At binds a registry deployed at addr
func At(addr common.Address) *Registry {
	return &Registry{address: addr, access: access.New(addr)}
}

// Address returns the contract address
func (r *Registry) Address() common.Address {
	return r.address
}

func moduleSlot(id domain.ModuleID) common.Hash {
	return chain.Slot("registry.module", chain.Uint64Word(uint64(id)))
}

func moduleIndexSlot(i uint64) common.Hash {
	return chain.Slot("registry.modules", chain.Uint64Word(i))
}

var moduleCountSlot = chain.Slot("registry.modules.length")

func instanceSlot(key domain.InstanceKey) common.Hash {
	return chain.Slot("registry.instance",
		key.Domain.Hash().Bytes(),
		chain.Uint64Word(uint64(key.ModuleID)),
		chain.Uint64Word(uint64(key.InstanceID)),
	)
}

func instanceCanonicalSlot(key domain.InstanceKey) common.Hash {
	return chain.Slot("registry.instance.canonical",
		key.Domain.Hash().Bytes(),
		chain.Uint64Word(uint64(key.ModuleID)),
		chain.Uint64Word(uint64(key.InstanceID)),
	)
}

func canonicalSlot(dom domain.Domain, id domain.ModuleID) common.Hash {
	return chain.Slot("registry.canonical", dom.Hash().Bytes(), chain.Uint64Word(uint64(id)))
}

func canonicalIDSlot(dom domain.Domain, id domain.ModuleID) common.Hash {
	return chain.Slot("registry.canonical.instance", dom.Hash().Bytes(), chain.Uint64Word(uint64(id)))
}

// SetModule registers or replaces the implementation of a module id. ADMIN_ROLE only.
func (r *Registry) SetModule(env *chain.Env, id domain.ModuleID, impl common.Address) error {
	if err := r.access.CheckRole(env, domain.AdminRole); err != nil {
		return err
	}
	if id == 0 {
		return domain.ErrInvalidModuleID
	}
	if impl == (common.Address{}) {
		return fmt.Errorf("module %d implementation: %w", id, domain.ErrZeroAddress)
	}

	state := env.State()
	previous := r.GetModule(state, id)
	if previous == (common.Address{}) {
		n := state.GetUint(r.address, moduleCountSlot).Uint64()
		state.SetState(r.address, moduleIndexSlot(n), chain.Uint64Word(uint64(id)))
		state.SetState(r.address, moduleCountSlot, chain.Uint64Word(n+1))
	}
	state.SetAddress(r.address, moduleSlot(id), impl)
	env.Emit(events.EncodeModuleSet(r.address, id, impl, previous))
	return nil
}

// GetModule returns the implementation of a module id, or the zero address
func (r *Registry) GetModule(state *chain.StateDB, id domain.ModuleID) common.Address {
	return state.GetAddress(r.address, moduleSlot(id))
}

// Module returns the implementation of a module id or a ModuleNotSetError
func (r *Registry) Module(state *chain.StateDB, id domain.ModuleID) (common.Address, error) {
	impl := r.GetModule(state, id)
	if impl == (common.Address{}) {
		return common.Address{}, &domain.ModuleNotSetError{ModuleID: id}
	}
	return impl, nil
}

// ModuleIDs returns every module id ever registered, in registration order
func (r *Registry) ModuleIDs(state *chain.StateDB) []domain.ModuleID {
	n := state.GetUint(r.address, moduleCountSlot).Uint64()
	ids := make([]domain.ModuleID, 0, n)
	for i := uint64(0); i < n; i++ {
		ids = append(ids, domain.ModuleID(state.GetUint(r.address, moduleIndexSlot(i)).Uint64()))
	}
	return ids
}

// Catalog returns the current catalog entries
func (r *Registry) Catalog(state *chain.StateDB) []domain.CatalogEntry {
	ids := r.ModuleIDs(state)
	entries := make([]domain.CatalogEntry, 0, len(ids))
	for _, id := range ids {
		impl := r.GetModule(state, id)
		entries = append(entries, domain.CatalogEntry{
			ModuleID:       id,
			Implementation: impl,
			Logic:          state.GetLogic(impl),
		})
	}
	return entries
}

// RecordInstance writes an immutable instance record. FACTORY_ROLE only.
func (r *Registry) RecordInstance(env *chain.Env, key domain.InstanceKey, deployed common.Address, isCanonical bool) error {
	if err := r.access.CheckRole(env, domain.FactoryRole); err != nil {
		return err
	}
	if deployed == (common.Address{}) {
		return fmt.Errorf("instance %s: %w", key, domain.ErrZeroAddress)
	}

	state := env.State()
	if existing := r.GetInstance(state, key); existing != (common.Address{}) {
		return &domain.InstanceExistsError{Key: key, Address: existing}
	}
	state.SetAddress(r.address, instanceSlot(key), deployed)
	if isCanonical {
		state.SetBool(r.address, instanceCanonicalSlot(key), true)
		r.setCanonical(state, key, deployed)
	}
	env.Emit(events.EncodeInstanceRecorded(r.address, key, deployed, isCanonical))
	return nil
}

// GetInstance returns the address recorded for key, or the zero address
func (r *Registry) GetInstance(state *chain.StateDB, key domain.InstanceKey) common.Address {
	return state.GetAddress(r.address, instanceSlot(key))
}

// GetRecord returns the full record of key. IsCanonical is the flag given at
// write time; later promotions only move the canonical pointer.
func (r *Registry) GetRecord(state *chain.StateDB, key domain.InstanceKey) domain.InstanceRecord {
	addr := r.GetInstance(state, key)
	return domain.InstanceRecord{
		Key:         key,
		Address:     addr,
		IsCanonical: state.GetBool(r.address, instanceCanonicalSlot(key)),
		Deployed:    addr != (common.Address{}),
	}
}

// GetCanonical returns the canonical instance of a module in a domain. ok is
// false when nothing was promoted yet.
func (r *Registry) GetCanonical(state *chain.StateDB, dom domain.Domain, id domain.ModuleID) (common.Address, domain.InstanceID, bool) {
	addr := state.GetAddress(r.address, canonicalSlot(dom, id))
	if addr == (common.Address{}) {
		return common.Address{}, 0, false
	}
	instance := domain.InstanceID(state.GetUint(r.address, canonicalIDSlot(dom, id)).Uint64())
	return addr, instance, true
}

// PromoteCanonical points the canonical pointer of (domain, module) at an
// existing instance. ADMIN_ROLE only. Promoting the current canonical
// instance is a no-op.
func (r *Registry) PromoteCanonical(env *chain.Env, key domain.InstanceKey) error {
	if err := r.access.CheckRole(env, domain.AdminRole); err != nil {
		return err
	}

	state := env.State()
	addr := r.GetInstance(state, key)
	if addr == (common.Address{}) {
		return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, key)
	}
	previous, previousID, ok := r.GetCanonical(state, key.Domain, key.ModuleID)
	if ok && previous == addr && previousID == key.InstanceID {
		return nil
	}
	r.setCanonical(state, key, addr)
	env.Emit(events.EncodeCanonicalPromoted(r.address, key, addr, previous))
	return nil
}

func (r *Registry) setCanonical(state *chain.StateDB, key domain.InstanceKey, addr common.Address) {
	state.SetAddress(r.address, canonicalSlot(key.Domain, key.ModuleID), addr)
	state.SetUint(r.address, canonicalIDSlot(key.Domain, key.ModuleID), key.InstanceID.Big())
}

func (r *Registry) HasRole(state *chain.StateDB, role common.Hash, account common.Address) bool {
	return r.access.HasRole(state, role, account)
}

func (r *Registry) GetRoleAdmin(state *chain.StateDB, role common.Hash) common.Hash {
	return r.access.GetRoleAdmin(state, role)
}

func (r *Registry) GrantRole(env *chain.Env, role common.Hash, account common.Address) error {
	return r.access.GrantRole(env, role, account)
}

func (r *Registry) RevokeRole(env *chain.Env, role common.Hash, account common.Address) error {
	return r.access.RevokeRole(env, role, account)
}

func (r *Registry) RenounceRole(env *chain.Env, role common.Hash, account common.Address) error {
	return r.access.RenounceRole(env, role, account)
}
