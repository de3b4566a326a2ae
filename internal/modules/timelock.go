package modules

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

// TimelockLogicName names the timelock implementation logic
const TimelockLogicName = "TimelockUpgradeable"

const timelockABI = `[
  {"type":"function","name":"initializeTimelock","stateMutability":"nonpayable",
   "inputs":[{"name":"minDelay","type":"uint256"},{"name":"proposers","type":"address[]"},{"name":"executors","type":"address[]"}],
   "outputs":[]},
  {"type":"function","name":"getMinDelay","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isProposer","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"isExecutor","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	timelockDelaySlot = chain.Slot("timelock.minDelay")
	openExecutor      = common.Address{}
)

func proposerSlot(account common.Address) common.Hash {
	return chain.Slot("timelock.proposer", account.Bytes())
}

func executorSlot(account common.Address) common.Hash {
	return chain.Slot("timelock.executor", account.Bytes())
}

// Timelock returns the timelock module logic. An executor list containing
// the zero address opens execution to everyone.
func Timelock() *Module {
	return newModule(domain.ModuleTimelock, TimelockLogicName, timelockABI, map[string]handler{
		"initializeTimelock": func(env *chain.Env, self common.Address, args []any) ([]any, error) {
			state := env.State()
			if err := initialize(state, self); err != nil {
				return nil, err
			}
			state.SetUint(self, timelockDelaySlot, args[0].(*big.Int))
			for _, p := range args[1].([]common.Address) {
				state.SetBool(self, proposerSlot(p), true)
			}
			for _, e := range args[2].([]common.Address) {
				state.SetBool(self, executorSlot(e), true)
			}
			return nil, nil
		},
		"getMinDelay": func(env *chain.Env, self common.Address, _ []any) ([]any, error) {
			if err := requireInitialized(env.State(), self); err != nil {
				return nil, err
			}
			return []any{env.State().GetUint(self, timelockDelaySlot)}, nil
		},
		"isProposer": func(env *chain.Env, self common.Address, args []any) ([]any, error) {
			return []any{env.State().GetBool(self, proposerSlot(args[0].(common.Address)))}, nil
		},
		"isExecutor": func(env *chain.Env, self common.Address, args []any) ([]any, error) {
			state := env.State()
			open := state.GetBool(self, executorSlot(openExecutor))
			return []any{open || state.GetBool(self, executorSlot(args[0].(common.Address)))}, nil
		},
	})
}
