package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// journalEntry is a modification to the state that can be undone
type journalEntry interface {
	revert(s *StateDB)
}

// journal is an append-only undo log of state modifications
type journal struct {
	entries []journalEntry
}

func newJournal() *journal {
	return &journal{}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) length() int {
	return len(j.entries)
}

// revert undoes entries in reverse order down to the given length
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) reset() {
	j.entries = nil
}

type (
	createAccountChange struct {
		addr common.Address
	}
	nonceChange struct {
		addr common.Address
		prev uint64
	}
	codeChange struct {
		addr      common.Address
		prevCode  []byte
		prevLogic string
	}
	storageChange struct {
		addr    common.Address
		key     common.Hash
		prev    hexutil.Bytes
		existed bool
	}
	addLogChange struct{}
)

func (ch createAccountChange) revert(s *StateDB) {
	delete(s.accounts, ch.addr)
}

func (ch nonceChange) revert(s *StateDB) {
	if acc, ok := s.accounts[ch.addr]; ok {
		acc.Nonce = ch.prev
	}
}

func (ch codeChange) revert(s *StateDB) {
	if acc, ok := s.accounts[ch.addr]; ok {
		acc.Code = ch.prevCode
		acc.Logic = ch.prevLogic
	}
}

func (ch storageChange) revert(s *StateDB) {
	acc, ok := s.accounts[ch.addr]
	if !ok {
		return
	}
	if !ch.existed {
		delete(acc.Storage, ch.key)
		return
	}
	if acc.Storage == nil {
		acc.Storage = make(map[common.Hash]hexutil.Bytes)
	}
	acc.Storage[ch.key] = ch.prev
}

func (ch addLogChange) revert(s *StateDB) {
	if len(s.logs) > 0 {
		s.logs = s.logs[:len(s.logs)-1]
	}
}
