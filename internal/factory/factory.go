// Package factory deploys module instances as deterministic minimal proxies.
// Every clone lives at a CREATE2 address derived from the factory, the
// module implementation and salt(moduleId, domain, instanceId), so callers
// can predict it before deployment and embed it in other initializers.
package factory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/clones"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
	"github.com/zerotreasury/zdao/internal/registry"
)

var registrySlot = chain.Slot("factory.registry")

// Factory is a deployed factory contract
type Factory struct {
	address  common.Address
	registry *registry.Registry
}

// Deploy creates a factory bound to reg. The factory still needs FACTORY_ROLE
// on the registry before it can deploy anything.
func Deploy(env *chain.Env, reg *registry.Registry) (*Factory, error) {
	if reg == nil || reg.Address() == (common.Address{}) {
		return nil, fmt.Errorf("factory registry: %w", domain.ErrZeroAddress)
	}
	addr, err := env.Deploy(Logic{})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy factory: %w", err)
	}
	env.State().SetAddress(addr, registrySlot, reg.Address())
	return At(addr, reg), nil
}

// At binds a factory deployed at addr
func At(addr common.Address, reg *registry.Registry) *Factory {
	return &Factory{address: addr, registry: reg}
}

// Bind binds a factory deployed at addr using the registry it was created with
func Bind(state *chain.StateDB, addr common.Address) (*Factory, error) {
	reg := state.GetAddress(addr, registrySlot)
	if reg == (common.Address{}) {
		return nil, fmt.Errorf("no factory at %s: %w", addr.Hex(), domain.ErrNotFound)
	}
	return At(addr, registry.At(reg)), nil
}

func (f *Factory) Address() common.Address {
	return f.address
}

func (f *Factory) Registry() *registry.Registry {
	return f.registry
}

// PredictCloneAddress returns where deployClone would place the instance. The
// result depends on the implementation currently registered for moduleID.
func (f *Factory) PredictCloneAddress(state *chain.StateDB, moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) (common.Address, error) {
	impl, err := f.registry.Module(state, moduleID)
	if err != nil {
		return common.Address{}, err
	}
	salt := clones.Salt(moduleID, dom, instanceID)
	return clones.PredictDeterministicAddress(impl, salt, f.address), nil
}

// DeployModules deploys one clone per entry, in order, inside the caller's
// transaction. Any failure aborts the whole batch.
func (f *Factory) DeployModules(env *chain.Env, dom domain.Domain, moduleIDs []domain.ModuleID, payloads [][]byte, instanceIDs []domain.InstanceID) ([]common.Address, error) {
	if len(moduleIDs) != len(payloads) || len(moduleIDs) != len(instanceIDs) {
		return nil, &domain.LengthMismatchError{
			Modules:   len(moduleIDs),
			Payloads:  len(payloads),
			Instances: len(instanceIDs),
		}
	}
	if len(moduleIDs) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	deployed := make([]common.Address, 0, len(moduleIDs))
	for i, id := range moduleIDs {
		key := domain.InstanceKey{Domain: dom, ModuleID: id, InstanceID: instanceIDs[i]}
		clone, err := f.deployClone(env, key, payloads[i])
		if err != nil {
			return nil, fmt.Errorf("module %d of %d: %w", i+1, len(moduleIDs), err)
		}
		deployed = append(deployed, clone)
	}
	return deployed, nil
}

func (f *Factory) deployClone(env *chain.Env, key domain.InstanceKey, payload []byte) (common.Address, error) {
	state := env.State()

	impl, err := f.registry.Module(state, key.ModuleID)
	if err != nil {
		return common.Address{}, err
	}
	if existing := f.registry.GetInstance(state, key); existing != (common.Address{}) {
		return common.Address{}, &domain.InstanceExistsError{Key: key, Address: existing}
	}

	self := env.As(f.address)
	salt := clones.Salt(key.ModuleID, key.Domain, key.InstanceID)
	clone, err := self.Create2(salt, clones.CreationCode(impl), clones.RuntimeCode(impl))
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to clone module %d: %w", key.ModuleID, err)
	}

	if _, err := self.Call(clone, payload); err != nil {
		return common.Address{}, &domain.InitializerError{Key: key, Clone: clone, Reason: err}
	}

	if err := f.registry.RecordInstance(self, key, clone, false); err != nil {
		return common.Address{}, err
	}
	env.Emit(events.EncodeModuleCloned(f.address, key, clone))
	return clone, nil
}
