package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zerotreasury/zdao/internal/domain"
)

// encode builds a log for the named event. Indexed values become topics in
// declaration order, the rest are ABI-packed into data.
func encode(contract common.Address, name string, indexed []any, data ...any) *types.Log {
	ev, ok := ABI.Events[name]
	if !ok {
		panic(fmt.Sprintf("events: unknown event %s", name))
	}

	query := make([][]any, len(indexed))
	for i, v := range indexed {
		query[i] = []any{v}
	}
	rules, err := abi.MakeTopics(query...)
	if err != nil {
		panic(fmt.Sprintf("events: %s topics: %v", name, err))
	}
	topics := []common.Hash{ev.ID}
	for _, r := range rules {
		topics = append(topics, r[0])
	}

	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		panic(fmt.Sprintf("events: %s data: %v", name, err))
	}
	return &types.Log{Address: contract, Topics: topics, Data: packed}
}

func EncodeModuleSet(contract common.Address, moduleID domain.ModuleID, impl, previous common.Address) *types.Log {
	return encode(contract, NameModuleSet, []any{moduleID.Big()}, impl, previous)
}

func EncodeInstanceRecorded(contract common.Address, key domain.InstanceKey, deployed common.Address, isCanonical bool) *types.Log {
	return encode(contract, NameInstanceRecorded,
		[]any{key.Domain.Hash(), key.ModuleID.Big(), key.InstanceID.Big()},
		deployed, isCanonical,
	)
}

func EncodeCanonicalPromoted(contract common.Address, key domain.InstanceKey, canonical, previous common.Address) *types.Log {
	return encode(contract, NameCanonicalPromoted,
		[]any{key.Domain.Hash(), key.ModuleID.Big()},
		key.InstanceID.Big(), canonical, previous,
	)
}

func EncodeModuleCloned(contract common.Address, key domain.InstanceKey, clone common.Address) *types.Log {
	return encode(contract, NameModuleCloned,
		[]any{key.ModuleID.Big(), key.Domain.Hash()},
		key.InstanceID.Big(), clone,
	)
}

func EncodeRoleGranted(contract common.Address, role common.Hash, account, sender common.Address) *types.Log {
	return encode(contract, NameRoleGranted, []any{role, account, sender})
}

func EncodeRoleRevoked(contract common.Address, role common.Hash, account, sender common.Address) *types.Log {
	return encode(contract, NameRoleRevoked, []any{role, account, sender})
}

func EncodeRoleAdminChanged(contract common.Address, role, previous, next common.Hash) *types.Log {
	return encode(contract, NameRoleAdminChanged, []any{role, previous, next})
}
