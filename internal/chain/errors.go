package chain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrContractCollision is returned when a contract is created at an occupied address
	ErrContractCollision = errors.New("contract address collision")

	// ErrNoCode is returned when calling an address without code
	ErrNoCode = errors.New("call to non-contract")

	// ErrUnknownLogic is returned when an account names logic that was never registered
	ErrUnknownLogic = errors.New("unknown contract logic")

	// ErrDepth is returned when the call depth limit is exceeded
	ErrDepth = errors.New("max call depth exceeded")

	// ErrUnknownSelector is returned by contract logic for call data it does not understand
	ErrUnknownSelector = errors.New("function selector was not recognized and there's no fallback function")

	// ErrPanic is returned when contract logic panics inside a transaction
	ErrPanic = errors.New("panic during execution")
)

// RevertError is returned by Transact when the transaction reverted. Every
// state change and log of the transaction has been discarded.
type RevertError struct {
	TxHash common.Hash
	Err    error
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("execution reverted: %v", e.Err)
}

func (e *RevertError) Unwrap() error { return e.Err }

// CallError wraps the failure of a nested call with the callee address
type CallError struct {
	To  common.Address
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call to %s failed: %v", e.To.Hex(), e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
