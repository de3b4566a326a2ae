// Package access implements role based access control over contract storage.
// Roles are bytes32 ids; every role has an admin role whose members may grant
// and revoke it. The admin of a role defaults to DEFAULT_ADMIN_ROLE.
package access

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

// Controller is the access control component of one contract
type Controller struct {
	contract common.Address
}

// New returns the access control component stored in contract
func New(contract common.Address) *Controller {
	return &Controller{contract: contract}
}

func memberSlot(role common.Hash, account common.Address) common.Hash {
	return chain.Slot("access.member", role.Bytes(), account.Bytes())
}

func adminSlot(role common.Hash) common.Hash {
	return chain.Slot("access.admin", role.Bytes())
}

// HasRole reports whether account holds role
func (c *Controller) HasRole(state *chain.StateDB, role common.Hash, account common.Address) bool {
	return state.GetBool(c.contract, memberSlot(role, account))
}

// GetRoleAdmin returns the role that administers role
func (c *Controller) GetRoleAdmin(state *chain.StateDB, role common.Hash) common.Hash {
	return common.BytesToHash(state.GetState(c.contract, adminSlot(role)))
}

// CheckRole fails with an UnauthorizedError unless the caller holds role
func (c *Controller) CheckRole(env *chain.Env, role common.Hash) error {
	return c.checkRole(env.State(), role, env.Sender())
}

func (c *Controller) checkRole(state *chain.StateDB, role common.Hash, account common.Address) error {
	if !c.HasRole(state, role, account) {
		return &domain.UnauthorizedError{Account: account, Role: role}
	}
	return nil
}

// GrantRole grants role to account. The caller must hold the role's admin role.
func (c *Controller) GrantRole(env *chain.Env, role common.Hash, account common.Address) error {
	if err := c.CheckRole(env, c.GetRoleAdmin(env.State(), role)); err != nil {
		return err
	}
	c.Grant(env, role, account)
	return nil
}

// RevokeRole revokes role from account. The caller must hold the role's admin role.
func (c *Controller) RevokeRole(env *chain.Env, role common.Hash, account common.Address) error {
	if err := c.CheckRole(env, c.GetRoleAdmin(env.State(), role)); err != nil {
		return err
	}
	c.Revoke(env, role, account)
	return nil
}

// RenounceRole drops role from the caller. callerConfirmation must be the caller.
func (c *Controller) RenounceRole(env *chain.Env, role common.Hash, callerConfirmation common.Address) error {
	if callerConfirmation != env.Sender() {
		return fmt.Errorf("AccessControlBadConfirmation: %w", domain.ErrUnauthorized)
	}
	c.Revoke(env, role, callerConfirmation)
	return nil
}

// Grant adds account to role without checks and reports whether membership changed
func (c *Controller) Grant(env *chain.Env, role common.Hash, account common.Address) bool {
	state := env.State()
	if c.HasRole(state, role, account) {
		return false
	}
	state.SetBool(c.contract, memberSlot(role, account), true)
	env.Emit(events.EncodeRoleGranted(c.contract, role, account, env.Sender()))
	return true
}

// Revoke removes account from role without checks and reports whether membership changed
func (c *Controller) Revoke(env *chain.Env, role common.Hash, account common.Address) bool {
	state := env.State()
	if !c.HasRole(state, role, account) {
		return false
	}
	state.SetBool(c.contract, memberSlot(role, account), false)
	env.Emit(events.EncodeRoleRevoked(c.contract, role, account, env.Sender()))
	return true
}

// SetRoleAdmin changes the admin role of role without checks
func (c *Controller) SetRoleAdmin(env *chain.Env, role, adminRole common.Hash) {
	state := env.State()
	previous := c.GetRoleAdmin(state, role)
	if previous == adminRole {
		return
	}
	var value []byte
	if adminRole != (common.Hash{}) {
		value = adminRole.Bytes()
	}
	state.SetState(c.contract, adminSlot(role), value)
	env.Emit(events.EncodeRoleAdminChanged(c.contract, role, previous, adminRole))
}
