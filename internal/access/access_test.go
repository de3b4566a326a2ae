package access

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

var (
	contract = common.HexToAddress("0xacce550000000000000000000000000000000000")
	admin    = common.HexToAddress("0xad00000000000000000000000000000000000000")
	bob      = common.HexToAddress("0xb0b0000000000000000000000000000000000000")
)

func setup(t *testing.T) (*chain.Chain, *Controller) {
	t.Helper()
	c := chain.New()
	ac := New(contract)
	_, err := c.Transact(context.Background(), admin, func(env *chain.Env) error {
		ac.Grant(env, domain.DefaultAdminRole, admin)
		return nil
	})
	require.NoError(t, err)
	return c, ac
}

func hasRole(t *testing.T, c *chain.Chain, ac *Controller, role common.Hash, account common.Address) bool {
	t.Helper()
	var ok bool
	require.NoError(t, c.Call(context.Background(), account, func(env *chain.Env) error {
		ok = ac.HasRole(env.State(), role, account)
		return nil
	}))
	return ok
}

func TestGrantRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin grants and emits once", func(t *testing.T) {
		c, ac := setup(t)
		receipt, err := c.Transact(ctx, admin, func(env *chain.Env) error {
			if err := ac.GrantRole(env, domain.FactoryRole, bob); err != nil {
				return err
			}
			return ac.GrantRole(env, domain.FactoryRole, bob)
		})
		require.NoError(t, err)
		assert.True(t, hasRole(t, c, ac, domain.FactoryRole, bob))
		require.Len(t, receipt.Logs, 1)

		ev, err := events.Decode(*receipt.Logs[0])
		require.NoError(t, err)
		granted := ev.(*events.RoleGranted)
		assert.Equal(t, bob, granted.Account)
		assert.Equal(t, admin, granted.Sender)
	})

	t.Run("non admin is rejected", func(t *testing.T) {
		c, ac := setup(t)
		_, err := c.Transact(ctx, bob, func(env *chain.Env) error {
			return ac.GrantRole(env, domain.FactoryRole, bob)
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		var unauthorized *domain.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
		assert.Equal(t, bob, unauthorized.Account)
		assert.Equal(t, domain.DefaultAdminRole, unauthorized.Role)
		assert.False(t, hasRole(t, c, ac, domain.FactoryRole, bob))
	})
}

func TestRevokeRole(t *testing.T) {
	ctx := context.Background()
	c, ac := setup(t)

	_, err := c.Transact(ctx, admin, func(env *chain.Env) error {
		return ac.GrantRole(env, domain.AdminRole, bob)
	})
	require.NoError(t, err)

	receipt, err := c.Transact(ctx, admin, func(env *chain.Env) error {
		if err := ac.RevokeRole(env, domain.AdminRole, bob); err != nil {
			return err
		}
		return ac.RevokeRole(env, domain.AdminRole, bob)
	})
	require.NoError(t, err)
	assert.Len(t, receipt.Logs, 1)
	assert.False(t, hasRole(t, c, ac, domain.AdminRole, bob))
}

func TestRenounceRole(t *testing.T) {
	ctx := context.Background()
	c, ac := setup(t)

	_, err := c.Transact(ctx, admin, func(env *chain.Env) error {
		return ac.RenounceRole(env, domain.DefaultAdminRole, bob)
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = c.Transact(ctx, admin, func(env *chain.Env) error {
		return ac.RenounceRole(env, domain.DefaultAdminRole, admin)
	})
	require.NoError(t, err)
	assert.False(t, hasRole(t, c, ac, domain.DefaultAdminRole, admin))
}

func TestSetRoleAdmin(t *testing.T) {
	ctx := context.Background()
	c, ac := setup(t)

	receipt, err := c.Transact(ctx, admin, func(env *chain.Env) error {
		ac.SetRoleAdmin(env, domain.FactoryRole, domain.AdminRole)
		ac.Grant(env, domain.AdminRole, bob)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, receipt.Logs, 2)

	_, err = c.Transact(ctx, bob, func(env *chain.Env) error {
		return ac.GrantRole(env, domain.FactoryRole, bob)
	})
	require.NoError(t, err)
	assert.True(t, hasRole(t, c, ac, domain.FactoryRole, bob))

	_, err = c.Transact(ctx, admin, func(env *chain.Env) error {
		return ac.RevokeRole(env, domain.FactoryRole, bob)
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
