package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zerotreasury/zdao/internal/clones"
)

// MaxCallDepth bounds nested Env.Call frames
const MaxCallDepth = 64

// Env is the message context of one call frame. Sender is the account the
// current code observes as msg.sender.
type Env struct {
	ctx    context.Context
	chain  *Chain
	sender common.Address
	origin common.Address
	depth  int
}

func (c *Chain) newEnv(ctx context.Context, from common.Address) *Env {
	return &Env{ctx: ctx, chain: c, sender: from, origin: from}
}

func (e *Env) Context() context.Context { return e.ctx }

// Sender returns msg.sender of the current frame
func (e *Env) Sender() common.Address { return e.sender }

// Origin returns the account that signed the transaction
func (e *Env) Origin() common.Address { return e.origin }

func (e *Env) ChainID() uint64 { return e.chain.chainID }

// State returns the journaled world state
func (e *Env) State() *StateDB { return e.chain.state }

// As returns a frame in which addr is the caller. Contracts use it to call
// other contracts under their own address.
func (e *Env) As(addr common.Address) *Env {
	cp := *e
	cp.sender = addr
	return &cp
}

// Emit records a log in the running transaction
func (e *Env) Emit(log *types.Log) {
	e.chain.state.AddLog(log)
}

// Call dispatches raw call data to the account at to. Minimal proxies run
// their implementation's logic against their own storage. A failed call
// leaves no trace in state.
func (e *Env) Call(to common.Address, input []byte) ([]byte, error) {
	if e.depth >= MaxCallDepth {
		return nil, ErrDepth
	}
	if err := e.ctx.Err(); err != nil {
		return nil, err
	}

	logic, err := e.resolve(to)
	if err != nil {
		return nil, &CallError{To: to, Err: err}
	}

	state := e.chain.state
	snapshot := state.Snapshot()
	frame := *e
	frame.depth++

	out, err := logic.Run(&frame, to, input)
	if err != nil {
		state.RevertToSnapshot(snapshot)
		return nil, err
	}
	return out, nil
}

// resolve returns the logic executed for calls to addr
func (e *Env) resolve(addr common.Address) (Logic, error) {
	state := e.chain.state
	name := state.GetLogic(addr)
	if impl, ok := clones.Implementation(state.GetCode(addr)); ok {
		name = state.GetLogic(impl)
		if name == "" {
			return nil, fmt.Errorf("implementation %s: %w", impl.Hex(), ErrNoCode)
		}
	}
	if name == "" {
		return nil, ErrNoCode
	}
	logic, ok := e.chain.logics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLogic, name)
	}
	return logic, nil
}

// Deploy creates a contract backed by logic at the CREATE address of the sender
func (e *Env) Deploy(logic Logic) (common.Address, error) {
	state := e.chain.state
	nonce := state.GetNonce(e.sender)
	addr := crypto.CreateAddress(e.sender, nonce)
	if state.Exist(addr) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrContractCollision, addr.Hex())
	}
	if _, ok := e.chain.logics[logic.Name()]; !ok {
		e.chain.logics[logic.Name()] = logic
	}
	state.SetNonce(e.sender, nonce+1)
	state.SetNonce(addr, 1)
	state.SetCode(addr, nil, logic.Name())
	e.chain.logger.Debug("contract deployed", "logic", logic.Name(), "address", addr.Hex(), "deployer", e.sender.Hex())
	return addr, nil
}

// Create2 places runtime code at the CREATE2 address derived from the sender,
// salt and init code hash.
func (e *Env) Create2(salt [32]byte, initCode, runtime []byte) (common.Address, error) {
	state := e.chain.state
	addr := crypto.CreateAddress2(e.sender, salt, crypto.Keccak256(initCode))
	if state.Exist(addr) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrContractCollision, addr.Hex())
	}
	state.SetNonce(e.sender, state.GetNonce(e.sender)+1)
	state.SetNonce(addr, 1)
	state.SetCode(addr, runtime, "")
	return addr, nil
}
