package chain

import (
	"bytes"
	"maps"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Account is the world-state entry of one address
type Account struct {
	Nonce   uint64                        `json:"nonce"`
	Code    hexutil.Bytes                 `json:"code,omitempty"`
	Logic   string                        `json:"logic,omitempty"`
	Storage map[common.Hash]hexutil.Bytes `json:"storage,omitempty"`
}

func (a *Account) copy() *Account {
	cp := &Account{
		Nonce: a.Nonce,
		Code:  bytes.Clone(a.Code),
		Logic: a.Logic,
	}
	if len(a.Storage) > 0 {
		cp.Storage = make(map[common.Hash]hexutil.Bytes, len(a.Storage))
		for k, v := range a.Storage {
			cp.Storage[k] = bytes.Clone(v)
		}
	}
	return cp
}

// StateReader is the read-only view of world state used by view functions
type StateReader interface {
	Exist(addr common.Address) bool
	GetNonce(addr common.Address) uint64
	GetCode(addr common.Address) []byte
	GetLogic(addr common.Address) string
	GetState(addr common.Address, key common.Hash) []byte
}

// StateDB holds accounts and the logs of the running transaction. Every
// mutation is journaled so it can be rolled back to any snapshot.
type StateDB struct {
	accounts map[common.Address]*Account
	logs     []*types.Log
	journal  *journal
}

// NewStateDB creates an empty world state
func NewStateDB() *StateDB {
	return &StateDB{
		accounts: make(map[common.Address]*Account),
		journal:  newJournal(),
	}
}

// Exist reports whether the address holds code, logic or a nonce
func (s *StateDB) Exist(addr common.Address) bool {
	acc, ok := s.accounts[addr]
	if !ok {
		return false
	}
	return acc.Nonce > 0 || len(acc.Code) > 0 || acc.Logic != ""
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Nonce
	}
	return 0
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Code
	}
	return nil
}

func (s *StateDB) GetLogic(addr common.Address) string {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Logic
	}
	return ""
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) []byte {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Storage[key]
	}
	return nil
}

func (s *StateDB) getOrNewAccount(addr common.Address) *Account {
	if acc, ok := s.accounts[addr]; ok {
		return acc
	}
	acc := &Account{}
	s.accounts[addr] = acc
	s.journal.append(createAccountChange{addr: addr})
	return acc
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	acc := s.getOrNewAccount(addr)
	s.journal.append(nonceChange{addr: addr, prev: acc.Nonce})
	acc.Nonce = nonce
}

// SetCode installs deployed code and/or the name of the Go logic backing the account
func (s *StateDB) SetCode(addr common.Address, code []byte, logic string) {
	acc := s.getOrNewAccount(addr)
	s.journal.append(codeChange{addr: addr, prevCode: acc.Code, prevLogic: acc.Logic})
	acc.Code = bytes.Clone(code)
	acc.Logic = logic
}

// SetState writes a storage slot. An empty value deletes the slot.
func (s *StateDB) SetState(addr common.Address, key common.Hash, value []byte) {
	acc := s.getOrNewAccount(addr)
	prev, existed := acc.Storage[key]
	s.journal.append(storageChange{addr: addr, key: key, prev: prev, existed: existed})
	if len(value) == 0 {
		delete(acc.Storage, key)
		return
	}
	if acc.Storage == nil {
		acc.Storage = make(map[common.Hash]hexutil.Bytes)
	}
	acc.Storage[key] = bytes.Clone(value)
}

// AddLog appends a log to the running transaction
func (s *StateDB) AddLog(log *types.Log) {
	s.journal.append(addLogChange{})
	s.logs = append(s.logs, log)
}

// Logs returns the logs emitted since the last commit
func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

// Snapshot returns an identifier for the current revision of the state
func (s *StateDB) Snapshot() int {
	return s.journal.length()
}

// RevertToSnapshot undoes every change made after the given snapshot
func (s *StateDB) RevertToSnapshot(id int) {
	s.journal.revert(s, id)
}

// commit finalises the running transaction and returns its logs
func (s *StateDB) commit() []*types.Log {
	logs := s.logs
	s.logs = nil
	s.journal.reset()
	return logs
}

// accountsCopy returns a deep copy of all accounts
func (s *StateDB) accountsCopy() map[common.Address]*Account {
	out := make(map[common.Address]*Account, len(s.accounts))
	for addr, acc := range s.accounts {
		out[addr] = acc.copy()
	}
	return out
}

// replace swaps the whole world state, discarding the journal
func (s *StateDB) replace(accounts map[common.Address]*Account) {
	s.accounts = maps.Clone(accounts)
	if s.accounts == nil {
		s.accounts = make(map[common.Address]*Account)
	}
	s.logs = nil
	s.journal.reset()
}
