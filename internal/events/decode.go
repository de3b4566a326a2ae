package events

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/zerotreasury/zdao/internal/domain"
)

// ErrNoTopics is returned for anonymous logs
var ErrNoTopics = errors.New("log has no topics")

// Event is a decoded contract event
type Event interface {
	ContractEventName() string
	String() string
}

// ModuleSet is emitted when a catalog entry changes
type ModuleSet struct {
	ModuleId       *big.Int
	Implementation common.Address
	Previous       common.Address
	Raw            types.Log
}

func (e *ModuleSet) ContractEventName() string { return NameModuleSet }

func (e *ModuleSet) String() string {
	return fmt.Sprintf("ModuleSet(module=%s, implementation=%s, previous=%s)", e.ModuleId, e.Implementation.Hex(), e.Previous.Hex())
}

// InstanceRecorded is emitted when an instance record is written
type InstanceRecorded struct {
	Domain      [32]byte
	ModuleId    *big.Int
	InstanceId  *big.Int
	Deployed    common.Address
	IsCanonical bool
	Raw         types.Log
}

func (e *InstanceRecorded) ContractEventName() string { return NameInstanceRecorded }

func (e *InstanceRecorded) String() string {
	return fmt.Sprintf("DomainModuleInstanceRecorded(%s, deployed=%s, canonical=%t)", e.Key(), e.Deployed.Hex(), e.IsCanonical)
}

// Key returns the registry key of the recorded instance
func (e *InstanceRecorded) Key() domain.InstanceKey {
	return domain.InstanceKey{
		Domain:     domain.Domain(e.Domain),
		ModuleID:   domain.ModuleID(e.ModuleId.Uint64()),
		InstanceID: domain.InstanceID(e.InstanceId.Uint64()),
	}
}

// Record converts the event into the record it announces
func (e *InstanceRecorded) Record() domain.InstanceRecord {
	return domain.InstanceRecord{
		Key:         e.Key(),
		Address:     e.Deployed,
		IsCanonical: e.IsCanonical,
		Deployed:    true,
	}
}

// CanonicalPromoted is emitted when the canonical pointer moves
type CanonicalPromoted struct {
	Domain     [32]byte
	ModuleId   *big.Int
	InstanceId *big.Int
	Canonical  common.Address
	Previous   common.Address
	Raw        types.Log
}

func (e *CanonicalPromoted) ContractEventName() string { return NameCanonicalPromoted }

func (e *CanonicalPromoted) String() string {
	return fmt.Sprintf("CanonicalPromoted(%s/%s/%s, canonical=%s, previous=%s)",
		domain.Domain(e.Domain).Hex()[:10], e.ModuleId, e.InstanceId, e.Canonical.Hex(), e.Previous.Hex())
}

// ModuleCloned is emitted by the factory for every clone it deploys
type ModuleCloned struct {
	ModuleId   *big.Int
	Domain     [32]byte
	InstanceId *big.Int
	Clone      common.Address
	Raw        types.Log
}

func (e *ModuleCloned) ContractEventName() string { return NameModuleCloned }

func (e *ModuleCloned) String() string {
	return fmt.Sprintf("ModuleCloned(%s, clone=%s)", e.Key(), e.Clone.Hex())
}

// Key returns the registry key of the cloned instance
func (e *ModuleCloned) Key() domain.InstanceKey {
	return domain.InstanceKey{
		Domain:     domain.Domain(e.Domain),
		ModuleID:   domain.ModuleID(e.ModuleId.Uint64()),
		InstanceID: domain.InstanceID(e.InstanceId.Uint64()),
	}
}

// RoleGranted is emitted when an account joins a role
type RoleGranted struct {
	Role    [32]byte
	Account common.Address
	Sender  common.Address
	Raw     types.Log
}

func (e *RoleGranted) ContractEventName() string { return NameRoleGranted }

func (e *RoleGranted) String() string {
	return fmt.Sprintf("RoleGranted(%s, account=%s, sender=%s)", domain.RoleName(e.Role), e.Account.Hex(), e.Sender.Hex())
}

// RoleRevoked is emitted when an account leaves a role
type RoleRevoked struct {
	Role    [32]byte
	Account common.Address
	Sender  common.Address
	Raw     types.Log
}

func (e *RoleRevoked) ContractEventName() string { return NameRoleRevoked }

func (e *RoleRevoked) String() string {
	return fmt.Sprintf("RoleRevoked(%s, account=%s, sender=%s)", domain.RoleName(e.Role), e.Account.Hex(), e.Sender.Hex())
}

// RoleAdminChanged is emitted when the admin role of a role changes
type RoleAdminChanged struct {
	Role              [32]byte
	PreviousAdminRole [32]byte
	NewAdminRole      [32]byte
	Raw               types.Log
}

func (e *RoleAdminChanged) ContractEventName() string { return NameRoleAdminChanged }

func (e *RoleAdminChanged) String() string {
	return fmt.Sprintf("RoleAdminChanged(%s, previous=%s, new=%s)",
		domain.RoleName(e.Role), domain.RoleName(e.PreviousAdminRole), domain.RoleName(e.NewAdminRole))
}

// UnknownEvent is returned for logs whose topic0 is not in the ABI
type UnknownEvent struct {
	Raw types.Log
}

func (e *UnknownEvent) ContractEventName() string { return "Unknown" }

func (e *UnknownEvent) String() string {
	return fmt.Sprintf("Unknown(topic=%s, address=%s)", e.Raw.Topics[0].Hex(), e.Raw.Address.Hex())
}

// Decode parses a log emitted by the registry, the factory or access control
func Decode(log types.Log) (Event, error) {
	if len(log.Topics) == 0 {
		return nil, ErrNoTopics
	}
	ev, err := ABI.EventByID(log.Topics[0])
	if err != nil {
		return &UnknownEvent{Raw: log}, nil
	}

	var out Event
	switch ev.Name {
	case NameModuleSet:
		e := &ModuleSet{Raw: log}
		err = unpack(e, ev, log)
		out = e
	case NameInstanceRecorded:
		e := &InstanceRecorded{Raw: log}
		err = unpack(e, ev, log)
		out = e
	case NameCanonicalPromoted:
		e := &CanonicalPromoted{Raw: log}
		err = unpack(e, ev, log)
		out = e
	case NameModuleCloned:
		e := &ModuleCloned{Raw: log}
		err = unpack(e, ev, log)
		out = e
	case NameRoleGranted:
		e := &RoleGranted{Raw: log}
		err = unpack(e, ev, log)
		out = e
	case NameRoleRevoked:
		e := &RoleRevoked{Raw: log}
		err = unpack(e, ev, log)
		out = e
	case NameRoleAdminChanged:
		e := &RoleAdminChanged{Raw: log}
		err = unpack(e, ev, log)
		out = e
	default:
		return &UnknownEvent{Raw: log}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ev.Name, err)
	}
	return out, nil
}

func unpack(out any, ev *abi.Event, log types.Log) error {
	if len(log.Data) > 0 {
		if err := ABI.UnpackIntoInterface(out, ev.Name, log.Data); err != nil {
			return err
		}
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return abi.ParseTopics(out, indexed, log.Topics[1:])
}

// DecodeAll decodes a list of logs, skipping none
func DecodeAll(logs []types.Log) ([]Event, error) {
	out := make([]Event, 0, len(logs))
	for _, l := range logs {
		ev, err := Decode(l)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
