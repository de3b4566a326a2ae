package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for registry and factory operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the caller lacks the required role
	ErrUnauthorized = errors.New("unauthorized")

	// ErrZeroAddress is returned when a zero address is passed where a contract is required
	ErrZeroAddress = errors.New("zero address")

	// ErrInvalidModuleID is returned for module id 0
	ErrInvalidModuleID = errors.New("invalid module id")

	// ErrInvalidInstanceID is returned for instance ids that do not fit the registry key
	ErrInvalidInstanceID = errors.New("invalid instance id")

	// ErrAmbiguousModule is returned when a module name matches several catalog entries
	ErrAmbiguousModule = errors.New("ambiguous module")

	// ErrModuleNotSet is returned when no implementation is registered for a module id
	ErrModuleNotSet = errors.New("module not set")

	// ErrInstanceExists is returned when an instance record already exists for a key
	ErrInstanceExists = errors.New("instance already exists")

	// ErrInstanceNotFound is returned when no instance is recorded for a key
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrInitializerFailed is returned when a clone's initializer call reverts
	ErrInitializerFailed = errors.New("initializer failed")

	// ErrLengthMismatch is returned when batch arrays differ in length
	ErrLengthMismatch = errors.New("array length mismatch")

	// ErrEmptyBatch is returned when a batch contains no modules
	ErrEmptyBatch = errors.New("empty batch")

	// ErrNotBootstrapped is returned when the registry and factory have not been deployed yet
	ErrNotBootstrapped = errors.New("registry not bootstrapped")
)

// UnauthorizedError mirrors AccessControlUnauthorizedAccount(account, role)
type UnauthorizedError struct {
	Account common.Address
	Role    common.Hash
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("AccessControlUnauthorizedAccount: %s is missing %s", e.Account.Hex(), RoleName(e.Role))
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// ModuleNotSetError reports a catalog lookup for an unregistered module id
type ModuleNotSetError struct {
	ModuleID ModuleID
}

func (e *ModuleNotSetError) Error() string {
	return fmt.Sprintf("ModuleNotSet: module %d has no implementation", e.ModuleID)
}

func (e *ModuleNotSetError) Unwrap() error { return ErrModuleNotSet }

// InstanceExistsError reports a second deployment at an occupied key
type InstanceExistsError struct {
	Key     InstanceKey
	Address common.Address
}

func (e *InstanceExistsError) Error() string {
	return fmt.Sprintf("InstanceExists: %s already recorded at %s", e.Key, e.Address.Hex())
}

func (e *InstanceExistsError) Unwrap() error { return ErrInstanceExists }

// InitializerError wraps the revert reason of a clone initializer
type InitializerError struct {
	Key    InstanceKey
	Clone  common.Address
	Reason error
}

func (e *InitializerError) Error() string {
	return fmt.Sprintf("InitializerFailed: %s at %s: %v", e.Key, e.Clone.Hex(), e.Reason)
}

func (e *InitializerError) Unwrap() []error { return []error{ErrInitializerFailed, e.Reason} }

// LengthMismatchError reports a malformed batch
type LengthMismatchError struct {
	Modules   int
	Payloads  int
	Instances int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("LengthMismatch: %d module ids, %d payloads, %d instance ids", e.Modules, e.Payloads, e.Instances)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }
