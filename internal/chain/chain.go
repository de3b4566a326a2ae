// Package chain provides the in-process execution environment the registry,
// the factory and the governance modules run on: journaled world state,
// atomic transactions, CREATE/CREATE2 and a committed log index.
package chain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultChainID is the chain id used when none is configured
const DefaultChainID uint64 = 31337

// Logic is the Go implementation of a contract. Accounts reference logic by
// name so snapshots stay serialisable.
type Logic interface {
	Name() string
	Run(env *Env, self common.Address, input []byte) ([]byte, error)
}

// Receipt describes a committed transaction
type Receipt struct {
	TxHash      common.Hash
	From        common.Address
	BlockNumber uint64
	Status      uint64
	Logs        []*types.Log
}

// Chain serialises transactions against a single StateDB
type Chain struct {
	mu      sync.Mutex
	chainID uint64
	block   uint64
	txCount uint64
	state   *StateDB
	logs    []types.Log
	logics  map[string]Logic
	store   SnapshotStore
	logger  *slog.Logger
}

// Option configures a Chain
type Option func(*Chain)

// WithStore persists every committed transaction to the given store
func WithStore(store SnapshotStore) Option {
	return func(c *Chain) { c.store = store }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithChainID(id uint64) Option {
	return func(c *Chain) {
		if id != 0 {
			c.chainID = id
		}
	}
}

// New creates an empty chain
func New(opts ...Option) *Chain {
	c := &Chain{
		chainID: DefaultChainID,
		state:   NewStateDB(),
		logics:  make(map[string]Logic),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChainID returns the configured chain id
func (c *Chain) ChainID() uint64 {
	return c.chainID
}

// BlockNumber returns the number of the last committed block
func (c *Chain) BlockNumber() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block
}

// RegisterLogic makes contract logic resolvable by name
func (c *Chain) RegisterLogic(logics ...Logic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range logics {
		c.logics[l.Name()] = l
	}
}

// Load restores the committed state from the configured store
func (c *Chain) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	snap, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load chain state: %w", err)
	}
	if snap == nil {
		return nil
	}
	return c.Import(snap)
}

// Import replaces the committed state with a snapshot
func (c *Chain) Import(snap *Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snap.ChainID != 0 && snap.ChainID != c.chainID {
		return fmt.Errorf("snapshot chain id %d does not match chain id %d", snap.ChainID, c.chainID)
	}
	accounts := make(map[common.Address]*Account, len(snap.Accounts))
	for addr, acc := range snap.Accounts {
		if acc.Logic != "" {
			if _, ok := c.logics[acc.Logic]; !ok {
				return fmt.Errorf("account %s: %w: %s", addr.Hex(), ErrUnknownLogic, acc.Logic)
			}
		}
		accounts[addr] = acc.copy()
	}
	logs := make([]types.Log, len(snap.Logs))
	for i, l := range snap.Logs {
		logs[i] = l.toLog()
	}

	c.state.replace(accounts)
	c.logs = logs
	c.block = snap.Block
	c.txCount = snap.TxCount
	c.logger.Debug("chain state loaded", "block", c.block, "accounts", len(accounts), "logs", len(logs))
	return nil
}

// Export returns a deep copy of the committed state
func (c *Chain) Export() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.export(c.block, c.txCount, nil)
}

func (c *Chain) export(block, txCount uint64, pending []types.Log) *Snapshot {
	logs := make([]StoredLog, 0, len(c.logs)+len(pending))
	for _, l := range c.logs {
		logs = append(logs, storeLog(l))
	}
	for _, l := range pending {
		logs = append(logs, storeLog(l))
	}
	return &Snapshot{
		ChainID:  c.chainID,
		Block:    block,
		TxCount:  txCount,
		Accounts: c.state.accountsCopy(),
		Logs:     logs,
	}
}

func (c *Chain) txHash(from common.Address) common.Hash {
	return crypto.Keccak256Hash(
		new(big.Int).SetUint64(c.chainID).Bytes(),
		Uint64Word(c.txCount),
		from.Bytes(),
	)
}

// Transact executes fn as one atomic transaction sent by from. If fn returns
// an error every state change and log is discarded and a *RevertError is
// returned.
func (c *Chain) Transact(ctx context.Context, from common.Address, fn func(env *Env) error) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txHash := c.txHash(from)
	snapshot := c.state.Snapshot()
	env := c.newEnv(ctx, from)

	if err := execute(fn, env); err != nil {
		c.state.RevertToSnapshot(snapshot)
		c.state.commit()
		c.logger.Debug("transaction reverted", "tx", txHash.Hex(), "from", from.Hex(), "error", err)
		return nil, &RevertError{TxHash: txHash, Err: err}
	}

	block := c.block + 1
	blockHash := crypto.Keccak256Hash(Uint64Word(block))
	pending := make([]types.Log, len(c.state.Logs()))
	for i, l := range c.state.Logs() {
		pending[i] = *l
		pending[i].BlockNumber = block
		pending[i].BlockHash = blockHash
		pending[i].TxHash = txHash
		pending[i].TxIndex = 0
		pending[i].Index = uint(len(c.logs) + i)
	}

	if c.store != nil {
		if err := c.store.Save(ctx, c.export(block, c.txCount+1, pending)); err != nil {
			c.state.RevertToSnapshot(snapshot)
			c.state.commit()
			return nil, fmt.Errorf("failed to persist chain state: %w", err)
		}
	}

	c.state.commit()
	c.logs = append(c.logs, pending...)
	c.block = block
	c.txCount++

	receipt := &Receipt{
		TxHash:      txHash,
		From:        from,
		BlockNumber: block,
		Status:      types.ReceiptStatusSuccessful,
		Logs:        make([]*types.Log, len(pending)),
	}
	for i := range pending {
		l := pending[i]
		receipt.Logs[i] = &l
	}

	c.logger.Debug("transaction committed", "tx", txHash.Hex(), "from", from.Hex(), "block", block, "logs", len(pending))
	return receipt, nil
}

// execute runs fn, turning a panic into an error so the caller reverts
func execute(fn func(env *Env) error, env *Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(env)
}

// Call executes fn against the committed state and discards every change
func (c *Chain) Call(ctx context.Context, from common.Address, fn func(env *Env) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := c.state.Snapshot()
	defer func() {
		c.state.RevertToSnapshot(snapshot)
		c.state.commit()
	}()
	return execute(fn, c.newEnv(ctx, from))
}

// FilterLogs returns committed logs matching the query. Topics follow the
// go-ethereum positional semantics: an empty position matches anything.
func (c *Chain) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.BlockHash != nil {
		return nil, fmt.Errorf("filtering by block hash is not supported")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []types.Log
	for _, l := range c.logs {
		if q.FromBlock != nil && l.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		if q.ToBlock != nil && q.ToBlock.Sign() >= 0 && l.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		if !matchAddress(l.Address, q.Addresses) || !matchTopics(l.Topics, q.Topics) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func matchAddress(addr common.Address, addrs []common.Address) bool {
	if len(addrs) == 0 {
		return true
	}
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

func matchTopics(topics []common.Hash, filter [][]common.Hash) bool {
	if len(filter) > len(topics) {
		return false
	}
	for i, alternatives := range filter {
		if len(alternatives) == 0 {
			continue
		}
		found := false
		for _, t := range alternatives {
			if t == topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
