package factory

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

// LogicName names the factory contract logic in chain state
const LogicName = "ZeroTreasuryDaoFactory"

const abiJSON = `[
  {"type":"function","name":"registry","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"predictCloneAddress","stateMutability":"view",
   "inputs":[{"name":"moduleId","type":"uint256"},{"name":"domain","type":"bytes32"},{"name":"instanceId","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"deployModules","stateMutability":"nonpayable",
   "inputs":[{"name":"domain","type":"bytes32"},{"name":"moduleIds","type":"uint256[]"},{"name":"initPayload","type":"bytes[]"},{"name":"instanceIds","type":"uint256[]"}],
   "outputs":[{"name":"deployed","type":"address[]"}]}
]`

// ABI is the call-data interface of the factory
var ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Logic is the chain logic of the factory
type Logic struct{}

func (Logic) Name() string { return LogicName }

func (Logic) Run(env *chain.Env, self common.Address, input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, chain.ErrUnknownSelector
	}
	method, err := ABI.MethodById(input[:4])
	if err != nil {
		return nil, chain.ErrUnknownSelector
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Name, err)
	}
	f, err := Bind(env.State(), self)
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "registry":
		return method.Outputs.Pack(f.registry.Address())
	case "predictCloneAddress":
		id, err := domain.ModuleIDFromBig(args[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		instance, err := domain.InstanceIDFromBig(args[2].(*big.Int))
		if err != nil {
			return nil, err
		}
		addr, err := f.PredictCloneAddress(env.State(), id, domain.Domain(args[1].([32]byte)), instance)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(addr)
	case "deployModules":
		ids := args[1].([]*big.Int)
		instances := args[3].([]*big.Int)
		moduleIDs := make([]domain.ModuleID, len(ids))
		for i, id := range ids {
			if moduleIDs[i], err = domain.ModuleIDFromBig(id); err != nil {
				return nil, fmt.Errorf("tuple %d: %w", i, err)
			}
		}
		instanceIDs := make([]domain.InstanceID, len(instances))
		for i, id := range instances {
			if instanceIDs[i], err = domain.InstanceIDFromBig(id); err != nil {
				return nil, fmt.Errorf("tuple %d: %w", i, err)
			}
		}
		deployed, err := f.DeployModules(env, domain.Domain(args[0].([32]byte)), moduleIDs, args[2].([][]byte), instanceIDs)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(deployed)
	}
	return nil, chain.ErrUnknownSelector
}
