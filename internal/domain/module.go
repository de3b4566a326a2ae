package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ModuleID identifies a module type in the catalog (1 = governor, 2 = timelock, ...)
type ModuleID uint64

// Well-known module identifiers
const (
	ModuleGovernor ModuleID = 1
	ModuleTimelock ModuleID = 2
	ModuleTreasury ModuleID = 3
)

// Big returns the module id as a uint256 value
func (m ModuleID) Big() *big.Int {
	return new(big.Int).SetUint64(uint64(m))
}

func (m ModuleID) String() string {
	return strconv.FormatUint(uint64(m), 10)
}

// InstanceID distinguishes deployments of the same module inside one domain
type InstanceID uint64

// Big returns the instance id as a uint256 value
func (i InstanceID) Big() *big.Int {
	return new(big.Int).SetUint64(uint64(i))
}

func (i InstanceID) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// Domain is the tenant scope of all registry state, a keccak256 of the tenant namespace
type Domain common.Hash

// DomainFromName hashes a tenant namespace into a Domain
func DomainFromName(name string) Domain {
	return Domain(crypto.Keccak256Hash([]byte(name)))
}

// ParseDomain accepts either a 0x-prefixed bytes32 or a plain tenant name
func ParseDomain(s string) (Domain, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Domain{}, fmt.Errorf("empty domain")
	}
	if strings.HasPrefix(s, "0x") && len(s) == 2+2*common.HashLength {
		b, err := hexutil.Decode(s)
		if err != nil {
			return Domain{}, fmt.Errorf("invalid domain %q: %w", s, err)
		}
		return Domain(common.BytesToHash(b)), nil
	}
	return DomainFromName(s), nil
}

// Hash returns the domain as a common.Hash
func (d Domain) Hash() common.Hash {
	return common.Hash(d)
}

// Hex returns the 0x-prefixed hex encoding of the domain
func (d Domain) Hex() string {
	return common.Hash(d).Hex()
}

func (d Domain) String() string {
	return d.Hex()
}

// IsZero reports whether the domain is unset
func (d Domain) IsZero() bool {
	return d == Domain{}
}

func (d Domain) MarshalText() ([]byte, error) {
	return common.Hash(d).MarshalText()
}

func (d *Domain) UnmarshalText(input []byte) error {
	return (*common.Hash)(d).UnmarshalText(input)
}

// ParseModuleID parses a decimal module id, rejecting zero
func ParseModuleID(s string) (ModuleID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid module id %q: %w", s, err)
	}
	if v == 0 {
		return 0, ErrInvalidModuleID
	}
	return ModuleID(v), nil
}

// ParseInstanceID parses a decimal instance id
func ParseInstanceID(s string) (InstanceID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid instance id %q: %w", s, err)
	}
	return InstanceID(v), nil
}

// ModuleIDFromBig narrows a uint256 module id. Values above 64 bits are rejected
// so that distinct ids never share a key.
func ModuleIDFromBig(v *big.Int) (ModuleID, error) {
	if v == nil || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidModuleID, v)
	}
	return ModuleID(v.Uint64()), nil
}

// InstanceIDFromBig narrows a uint256 instance id, rejecting values above 64 bits
func InstanceIDFromBig(v *big.Int) (InstanceID, error) {
	if v == nil || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidInstanceID, v)
	}
	return InstanceID(v.Uint64()), nil
}

// CatalogEntry is one registered module implementation
type CatalogEntry struct {
	ModuleID       ModuleID       `json:"moduleId"`
	Name           string         `json:"name,omitempty"`
	Implementation common.Address `json:"implementation"`
	Logic          string         `json:"logic,omitempty"`
}
