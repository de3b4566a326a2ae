package registry

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

// LogicName names the registry contract logic in chain state
const LogicName = "ZeroTreasuryRegistry"

const viewABIJSON = `[
  {"type":"function","name":"getModule","stateMutability":"view",
   "inputs":[{"name":"moduleId","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getInstance","stateMutability":"view",
   "inputs":[{"name":"domain","type":"bytes32"},{"name":"moduleId","type":"uint256"},{"name":"instanceId","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"getCanonical","stateMutability":"view",
   "inputs":[{"name":"domain","type":"bytes32"},{"name":"moduleId","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"hasRole","stateMutability":"view",
   "inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"bool"}]}
]`

// ViewABI is the call-data interface other contracts use to query the registry
var ViewABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(viewABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Logic is the chain logic of the registry. State changes go through the
// typed Registry methods; raw call data only reaches the views.
type Logic struct{}

func (Logic) Name() string { return LogicName }

func (Logic) Run(env *chain.Env, self common.Address, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, chain.ErrUnknownSelector
	}
	method, err := ViewABI.MethodById(input[:4])
	if err != nil {
		return nil, chain.ErrUnknownSelector
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Name, err)
	}

	r := At(self)
	state := env.State()
	switch method.Name {
	case "getModule":
		id, ok := moduleArg(args[0])
		if !ok {
			return method.Outputs.Pack(common.Address{})
		}
		return method.Outputs.Pack(r.GetModule(state, id))
	case "getInstance":
		id, ok := moduleArg(args[1])
		instance, err := domain.InstanceIDFromBig(args[2].(*big.Int))
		if !ok || err != nil {
			// ids above 64 bits are never recorded
			return method.Outputs.Pack(common.Address{})
		}
		key := domain.InstanceKey{
			Domain:     domain.Domain(args[0].([32]byte)),
			ModuleID:   id,
			InstanceID: instance,
		}
		return method.Outputs.Pack(r.GetInstance(state, key))
	case "getCanonical":
		id, ok := moduleArg(args[1])
		if !ok {
			return method.Outputs.Pack(common.Address{})
		}
		addr, _, _ := r.GetCanonical(state, domain.Domain(args[0].([32]byte)), id)
		return method.Outputs.Pack(addr)
	case "hasRole":
		return method.Outputs.Pack(r.HasRole(state, common.Hash(args[0].([32]byte)), args[1].(common.Address)))
	}
	return nil, chain.ErrUnknownSelector
}

func moduleArg(v any) (domain.ModuleID, bool) {
	id, err := domain.ModuleIDFromBig(v.(*big.Int))
	return id, err == nil
}
