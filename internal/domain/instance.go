package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// InstanceKey addresses one slot of the instance registry
type InstanceKey struct {
	Domain     Domain     `json:"domain"`
	ModuleID   ModuleID   `json:"moduleId"`
	InstanceID InstanceID `json:"instanceId"`
}

func (k InstanceKey) String() string {
	return fmt.Sprintf("%s/%d/%d", k.Domain.Hex()[:10], k.ModuleID, k.InstanceID)
}

// InstanceRecord is an immutable registry entry. Deployed is false for unset keys.
type InstanceRecord struct {
	Key         InstanceKey    `json:"key"`
	Address     common.Address `json:"address"`
	IsCanonical bool           `json:"isCanonical"`
	Deployed    bool           `json:"deployed"`
}

// Roles follow the OpenZeppelin AccessControl convention of keccak256(name)
var (
	DefaultAdminRole = common.Hash{}
	AdminRole        = crypto.Keccak256Hash([]byte("ADMIN_ROLE"))
	FactoryRole      = crypto.Keccak256Hash([]byte("FACTORY_ROLE"))
)

// RoleNames maps the role identifiers exposed by the registry to their names
var RoleNames = map[common.Hash]string{
	DefaultAdminRole: "DEFAULT_ADMIN_ROLE",
	AdminRole:        "ADMIN_ROLE",
	FactoryRole:      "FACTORY_ROLE",
}

// ParseRole accepts a role name (ADMIN_ROLE, admin, factory) or a bytes32 hex id
func ParseRole(s string) (common.Hash, error) {
	switch s {
	case "DEFAULT_ADMIN_ROLE", "default_admin", "default-admin":
		return DefaultAdminRole, nil
	case "ADMIN_ROLE", "admin":
		return AdminRole, nil
	case "FACTORY_ROLE", "factory":
		return FactoryRole, nil
	}
	if len(s) == 66 && s[:2] == "0x" {
		return common.HexToHash(s), nil
	}
	return common.Hash{}, fmt.Errorf("unknown role: %s", s)
}

// RoleName returns the human readable name of a role, or its hex id
func RoleName(role common.Hash) string {
	if name, ok := RoleNames[role]; ok {
		return name
	}
	return role.Hex()
}
