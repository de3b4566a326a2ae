// Package modules contains the governance building blocks the factory clones:
// a timelock, a governor and a treasury. Each is implementation logic that
// runs behind EIP-1167 proxies; only the initializer boundary and the views
// needed to inspect an initialized clone are modelled.
package modules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

var (
	// ErrInvalidInitialization is returned when an initializer runs twice or
	// on an implementation contract
	ErrInvalidInitialization = errors.New("InvalidInitialization()")

	// ErrNotInitialized is returned by views of a clone that was never initialized
	ErrNotInitialized = errors.New("NotInitializing()")
)

// handler executes one ABI method with decoded arguments
type handler func(env *chain.Env, self common.Address, args []any) ([]any, error)

// Module is chain logic dispatching call data through an ABI
type Module struct {
	id       domain.ModuleID
	name     string
	abi      abi.ABI
	handlers map[string]handler
}

func newModule(id domain.ModuleID, name, abiJSON string, handlers map[string]handler) *Module {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("modules: %s abi: %v", name, err))
	}
	for method := range handlers {
		if _, ok := parsed.Methods[method]; !ok {
			panic(fmt.Sprintf("modules: %s has no method %s", name, method))
		}
	}
	return &Module{id: id, name: name, abi: parsed, handlers: handlers}
}

// Name returns the logic name stored in chain state
func (m *Module) Name() string { return m.name }

// ID returns the catalog id the module is registered under by default
func (m *Module) ID() domain.ModuleID { return m.id }

// ABI returns the call-data interface of the module
func (m *Module) ABI() *abi.ABI { return &m.abi }

// Run decodes input, executes the matching handler and encodes its outputs
func (m *Module) Run(env *chain.Env, self common.Address, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, chain.ErrUnknownSelector
	}
	method, err := m.abi.MethodById(input[:4])
	if err != nil {
		return nil, chain.ErrUnknownSelector
	}
	h, ok := m.handlers[method.Name]
	if !ok {
		return nil, chain.ErrUnknownSelector
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("%s.%s: invalid arguments: %w", m.name, method.Name, err)
	}
	out, err := h(env, self, args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

var initializedSlot = chain.Slot("module.initialized")

// initialize marks self initialized, failing if it already is
func initialize(state *chain.StateDB, self common.Address) error {
	if state.GetBool(self, initializedSlot) {
		return ErrInvalidInitialization
	}
	state.SetBool(self, initializedSlot, true)
	return nil
}

func requireInitialized(state *chain.StateDB, self common.Address) error {
	if !state.GetBool(self, initializedSlot) {
		return ErrNotInitialized
	}
	return nil
}

// Initialized reports whether the account at addr ran its initializer
func Initialized(state *chain.StateDB, addr common.Address) bool {
	return state.GetBool(addr, initializedSlot)
}

// DeployImplementation deploys the implementation contract of a module and
// disables its initializers so only clones can be initialized.
func DeployImplementation(env *chain.Env, m *Module) (common.Address, error) {
	addr, err := env.Deploy(m)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy %s: %w", m.name, err)
	}
	env.State().SetBool(addr, initializedSlot, true)
	return addr, nil
}

func addressList(state *chain.StateDB, self common.Address, name string) []common.Address {
	n := state.GetUint(self, chain.Slot(name+".length")).Uint64()
	out := make([]common.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		out = append(out, state.GetAddress(self, chain.Slot(name, chain.Uint64Word(i))))
	}
	return out
}

func appendAddress(state *chain.StateDB, self common.Address, name string, addr common.Address) {
	n := state.GetUint(self, chain.Slot(name+".length")).Uint64()
	state.SetAddress(self, chain.Slot(name, chain.Uint64Word(n)), addr)
	state.SetState(self, chain.Slot(name+".length"), chain.Uint64Word(n+1))
}
