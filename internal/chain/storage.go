package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Slot derives a storage key from a namespace and a list of encoded key parts,
// the way Solidity derives mapping slots.
func Slot(namespace string, parts ...[]byte) common.Hash {
	data := make([][]byte, 0, len(parts)+1)
	data = append(data, []byte(namespace))
	data = append(data, parts...)
	return crypto.Keccak256Hash(data...)
}

// Word left-pads a uint256 value to 32 bytes
func Word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

// Uint64Word left-pads a uint64 value to 32 bytes
func Uint64Word(v uint64) []byte {
	return Word(new(big.Int).SetUint64(v))
}

func (s *StateDB) GetAddress(addr common.Address, key common.Hash) common.Address {
	return common.BytesToAddress(s.GetState(addr, key))
}

// SetAddress stores an address; the zero address clears the slot
func (s *StateDB) SetAddress(addr common.Address, key common.Hash, value common.Address) {
	if value == (common.Address{}) {
		s.SetState(addr, key, nil)
		return
	}
	s.SetState(addr, key, value.Bytes())
}

func (s *StateDB) GetUint(addr common.Address, key common.Hash) *big.Int {
	return new(big.Int).SetBytes(s.GetState(addr, key))
}

func (s *StateDB) SetUint(addr common.Address, key common.Hash, value *big.Int) {
	if value == nil || value.Sign() == 0 {
		s.SetState(addr, key, nil)
		return
	}
	s.SetState(addr, key, Word(value))
}

func (s *StateDB) GetBool(addr common.Address, key common.Hash) bool {
	v := s.GetState(addr, key)
	return len(v) > 0 && v[len(v)-1] == 1
}

func (s *StateDB) SetBool(addr common.Address, key common.Hash, value bool) {
	if !value {
		s.SetState(addr, key, nil)
		return
	}
	s.SetState(addr, key, []byte{1})
}

func (s *StateDB) GetString(addr common.Address, key common.Hash) string {
	return string(s.GetState(addr, key))
}

func (s *StateDB) SetString(addr common.Address, key common.Hash, value string) {
	s.SetState(addr, key, []byte(value))
}
