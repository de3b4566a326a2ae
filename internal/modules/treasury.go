package modules

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

// TreasuryLogicName names the treasury implementation logic
const TreasuryLogicName = "TreasuryUpgradeable"

var (
	// ErrInvalidThreshold is returned when threshold is zero or exceeds the owner count
	ErrInvalidThreshold = errors.New("InvalidThreshold()")

	// ErrInvalidOwner is returned for a zero or duplicate owner
	ErrInvalidOwner = errors.New("InvalidOwner()")
)

const treasuryABI = `[
  {"type":"function","name":"initialize","stateMutability":"nonpayable",
   "inputs":[{"name":"owners","type":"address[]"},{"name":"threshold","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"getOwners","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"getThreshold","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isOwner","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`

var treasuryThresholdSlot = chain.Slot("treasury.threshold")

const treasuryOwners = "treasury.owners"

func ownerSlot(account common.Address) common.Hash {
	return chain.Slot("treasury.owner", account.Bytes())
}

// Treasury returns the treasury module logic
func Treasury() *Module {
	return newModule(domain.ModuleTreasury, TreasuryLogicName, treasuryABI, map[string]handler{
		"initialize": func(env *chain.Env, self common.Address, args []any) ([]any, error) {
			state := env.State()
			if err := initialize(state, self); err != nil {
				return nil, err
			}
			owners := args[0].([]common.Address)
			threshold := args[1].(*big.Int)
			if threshold.Sign() == 0 || threshold.Cmp(big.NewInt(int64(len(owners)))) > 0 {
				return nil, ErrInvalidThreshold
			}
			for _, owner := range owners {
				if owner == (common.Address{}) || state.GetBool(self, ownerSlot(owner)) {
					return nil, ErrInvalidOwner
				}
				state.SetBool(self, ownerSlot(owner), true)
				appendAddress(state, self, treasuryOwners, owner)
			}
			state.SetUint(self, treasuryThresholdSlot, threshold)
			return nil, nil
		},
		"getOwners": func(env *chain.Env, self common.Address, _ []any) ([]any, error) {
			return []any{addressList(env.State(), self, treasuryOwners)}, nil
		},
		"getThreshold": func(env *chain.Env, self common.Address, _ []any) ([]any, error) {
			return []any{env.State().GetUint(self, treasuryThresholdSlot)}, nil
		},
		"isOwner": func(env *chain.Env, self common.Address, args []any) ([]any, error) {
			return []any{env.State().GetBool(self, ownerSlot(args[0].(common.Address)))}, nil
		},
	})
}
