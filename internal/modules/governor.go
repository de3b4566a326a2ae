package modules

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

// GovernorLogicName names the governor implementation logic
const GovernorLogicName = "ZDAOUpgradeable"

var (
	// ErrInvalidVotesToken is returned for a zero voting token
	ErrInvalidVotesToken = errors.New("GovernorInvalidVotesToken()")

	// ErrInvalidTimelock is returned for a zero timelock
	ErrInvalidTimelock = errors.New("GovernorInvalidTimelock()")

	// ErrInvalidQuorumFraction is returned for a quorum above 100 percent
	ErrInvalidQuorumFraction = errors.New("GovernorInvalidQuorumFraction()")

	// ErrInvalidVotingPeriod is returned for a zero voting period
	ErrInvalidVotingPeriod = errors.New("GovernorInvalidVotingPeriod()")
)

const quorumDenominator = 100

const governorABI = `[
  {"type":"function","name":"initialize","stateMutability":"nonpayable",
   "inputs":[
     {"name":"daoId","type":"uint256"},
     {"name":"name","type":"string"},
     {"name":"token","type":"address"},
     {"name":"timelock","type":"address"},
     {"name":"votingDelay","type":"uint256"},
     {"name":"votingPeriod","type":"uint256"},
     {"name":"proposalThreshold","type":"uint256"},
     {"name":"quorumPercentage","type":"uint256"},
     {"name":"voteExtension","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"daoId","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"timelock","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"votingDelay","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"votingPeriod","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"proposalThreshold","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"quorumNumerator","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"lateQuorumVoteExtension","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	governorDaoIDSlot     = chain.Slot("governor.daoId")
	governorNameSlot      = chain.Slot("governor.name")
	governorTokenSlot     = chain.Slot("governor.token")
	governorTimelockSlot  = chain.Slot("governor.timelock")
	governorDelaySlot     = chain.Slot("governor.votingDelay")
	governorPeriodSlot    = chain.Slot("governor.votingPeriod")
	governorThresholdSlot = chain.Slot("governor.proposalThreshold")
	governorQuorumSlot    = chain.Slot("governor.quorumNumerator")
	governorExtensionSlot = chain.Slot("governor.voteExtension")
)

// Governor returns the governor module logic
func Governor() *Module {
	uintView := func(slot common.Hash) handler {
		return func(env *chain.Env, self common.Address, _ []any) ([]any, error) {
			if err := requireInitialized(env.State(), self); err != nil {
				return nil, err
			}
			return []any{env.State().GetUint(self, slot)}, nil
		}
	}
	addressView := func(slot common.Hash) handler {
		return func(env *chain.Env, self common.Address, _ []any) ([]any, error) {
			return []any{env.State().GetAddress(self, slot)}, nil
		}
	}

	return newModule(domain.ModuleGovernor, GovernorLogicName, governorABI, map[string]handler{
		"initialize": initializeGovernor,
		"daoId":      uintView(governorDaoIDSlot),
		"name": func(env *chain.Env, self common.Address, _ []any) ([]any, error) {
			return []any{env.State().GetString(self, governorNameSlot)}, nil
		},
		"token":                   addressView(governorTokenSlot),
		"timelock":                addressView(governorTimelockSlot),
		"votingDelay":             uintView(governorDelaySlot),
		"votingPeriod":            uintView(governorPeriodSlot),
		"proposalThreshold":       uintView(governorThresholdSlot),
		"quorumNumerator":         uintView(governorQuorumSlot),
		"lateQuorumVoteExtension": uintView(governorExtensionSlot),
	})
}

func initializeGovernor(env *chain.Env, self common.Address, args []any) ([]any, error) {
	state := env.State()
	if err := initialize(state, self); err != nil {
		return nil, err
	}

	var (
		daoID     = args[0].(*big.Int)
		name      = args[1].(string)
		token     = args[2].(common.Address)
		timelock  = args[3].(common.Address)
		delay     = args[4].(*big.Int)
		period    = args[5].(*big.Int)
		threshold = args[6].(*big.Int)
		quorum    = args[7].(*big.Int)
		extension = args[8].(*big.Int)
	)
	if token == (common.Address{}) {
		return nil, ErrInvalidVotesToken
	}
	if timelock == (common.Address{}) {
		return nil, ErrInvalidTimelock
	}
	if period.Sign() == 0 {
		return nil, ErrInvalidVotingPeriod
	}
	if quorum.Cmp(big.NewInt(quorumDenominator)) > 0 {
		return nil, fmt.Errorf("%w: %s > %d", ErrInvalidQuorumFraction, quorum, quorumDenominator)
	}

	state.SetUint(self, governorDaoIDSlot, daoID)
	state.SetString(self, governorNameSlot, name)
	state.SetAddress(self, governorTokenSlot, token)
	state.SetAddress(self, governorTimelockSlot, timelock)
	state.SetUint(self, governorDelaySlot, delay)
	state.SetUint(self, governorPeriodSlot, period)
	state.SetUint(self, governorThresholdSlot, threshold)
	state.SetUint(self, governorQuorumSlot, quorum)
	state.SetUint(self, governorExtensionSlot, extension)
	return nil, nil
}
