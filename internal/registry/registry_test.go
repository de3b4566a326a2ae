package registry

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

var (
	admin    = common.HexToAddress("0xad00000000000000000000000000000000000000")
	factory  = common.HexToAddress("0xfac7000000000000000000000000000000000000")
	stranger = common.HexToAddress("0x5700000000000000000000000000000000000000")
	implA    = common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	implB    = common.HexToAddress("0x000000000000000000000000000000000000bbbb")
	cloneA   = common.HexToAddress("0x000000000000000000000000000000000000c001")
	cloneB   = common.HexToAddress("0x000000000000000000000000000000000000c002")
	dao      = domain.DomainFromName("dao")
)

func setup(t *testing.T) (*chain.Chain, *Registry) {
	t.Helper()
	c := chain.New()
	var r *Registry
	_, err := c.Transact(context.Background(), admin, func(env *chain.Env) error {
		var err error
		r, err = Deploy(env, admin, []common.Address{factory})
		return err
	})
	require.NoError(t, err)
	return c, r
}

func transact(c *chain.Chain, from common.Address, fn func(env *chain.Env) error) (*chain.Receipt, error) {
	return c.Transact(context.Background(), from, fn)
}

func view(t *testing.T, c *chain.Chain, fn func(state *chain.StateDB)) {
	t.Helper()
	require.NoError(t, c.Call(context.Background(), common.Address{}, func(env *chain.Env) error {
		fn(env.State())
		return nil
	}))
}

func TestDeploy(t *testing.T) {
	c, r := setup(t)
	view(t, c, func(state *chain.StateDB) {
		assert.True(t, r.HasRole(state, domain.DefaultAdminRole, admin))
		assert.True(t, r.HasRole(state, domain.AdminRole, admin))
		assert.True(t, r.HasRole(state, domain.FactoryRole, factory))
		assert.False(t, r.HasRole(state, domain.FactoryRole, admin))
		assert.Equal(t, LogicName, state.GetLogic(r.Address()))
	})

	_, err := transact(c, admin, func(env *chain.Env) error {
		_, err := Deploy(env, common.Address{}, nil)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrZeroAddress)
}

func TestSetModule(t *testing.T) {
	t.Run("admin sets and replaces", func(t *testing.T) {
		c, r := setup(t)
		_, err := transact(c, admin, func(env *chain.Env) error {
			return r.SetModule(env, domain.ModuleTimelock, implA)
		})
		require.NoError(t, err)

		receipt, err := transact(c, admin, func(env *chain.Env) error {
			return r.SetModule(env, domain.ModuleTimelock, implB)
		})
		require.NoError(t, err)
		require.Len(t, receipt.Logs, 1)
		ev, err := events.Decode(*receipt.Logs[0])
		require.NoError(t, err)
		set := ev.(*events.ModuleSet)
		assert.Equal(t, implB, set.Implementation)
		assert.Equal(t, implA, set.Previous)

		view(t, c, func(state *chain.StateDB) {
			assert.Equal(t, implB, r.GetModule(state, domain.ModuleTimelock))
			assert.Equal(t, []domain.ModuleID{domain.ModuleTimelock}, r.ModuleIDs(state))
		})
	})

	t.Run("unset module reads zero", func(t *testing.T) {
		c, r := setup(t)
		view(t, c, func(state *chain.StateDB) {
			assert.Equal(t, common.Address{}, r.GetModule(state, 9))
			_, err := r.Module(state, 9)
			assert.ErrorIs(t, err, domain.ErrModuleNotSet)
		})
	})

	tests := []struct {
		name string
		from common.Address
		id   domain.ModuleID
		impl common.Address
		want error
	}{
		{"non admin", stranger, 1, implA, domain.ErrUnauthorized},
		{"factory is not admin", factory, 1, implA, domain.ErrUnauthorized},
		{"zero implementation", admin, 1, common.Address{}, domain.ErrZeroAddress},
		{"zero module id", admin, 0, implA, domain.ErrInvalidModuleID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := setup(t)
			_, err := transact(c, tt.from, func(env *chain.Env) error {
				return r.SetModule(env, tt.id, tt.impl)
			})
			assert.ErrorIs(t, err, tt.want)
			view(t, c, func(state *chain.StateDB) {
				assert.Empty(t, r.ModuleIDs(state))
			})
		})
	}
}

func TestRecordInstance(t *testing.T) {
	key := domain.InstanceKey{Domain: dao, ModuleID: domain.ModuleGovernor, InstanceID: 1}

	t.Run("factory records once", func(t *testing.T) {
		c, r := setup(t)
		receipt, err := transact(c, factory, func(env *chain.Env) error {
			return r.RecordInstance(env, key, cloneA, false)
		})
		require.NoError(t, err)
		require.Len(t, receipt.Logs, 1)
		ev, err := events.Decode(*receipt.Logs[0])
		require.NoError(t, err)
		assert.Equal(t, domain.InstanceRecord{Key: key, Address: cloneA, Deployed: true}, ev.(*events.InstanceRecorded).Record())

		_, err = transact(c, factory, func(env *chain.Env) error {
			return r.RecordInstance(env, key, cloneB, false)
		})
		var exists *domain.InstanceExistsError
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, cloneA, exists.Address)

		view(t, c, func(state *chain.StateDB) {
			assert.Equal(t, cloneA, r.GetInstance(state, key))
			_, _, ok := r.GetCanonical(state, dao, domain.ModuleGovernor)
			assert.False(t, ok)
			assert.False(t, r.GetRecord(state, key).IsCanonical)
		})
	})

	t.Run("canonical flag sets pointer", func(t *testing.T) {
		c, r := setup(t)
		_, err := transact(c, factory, func(env *chain.Env) error {
			return r.RecordInstance(env, key, cloneA, true)
		})
		require.NoError(t, err)
		view(t, c, func(state *chain.StateDB) {
			addr, id, ok := r.GetCanonical(state, dao, domain.ModuleGovernor)
			assert.True(t, ok)
			assert.Equal(t, cloneA, addr)
			assert.Equal(t, domain.InstanceID(1), id)
			assert.True(t, r.GetRecord(state, key).IsCanonical)
		})
	})

	t.Run("promotion leaves the recorded flag", func(t *testing.T) {
		c, r := setup(t)
		_, err := transact(c, factory, func(env *chain.Env) error {
			return r.RecordInstance(env, key, cloneA, false)
		})
		require.NoError(t, err)
		_, err = transact(c, admin, func(env *chain.Env) error {
			return r.PromoteCanonical(env, key)
		})
		require.NoError(t, err)

		view(t, c, func(state *chain.StateDB) {
			addr, _, ok := r.GetCanonical(state, dao, domain.ModuleGovernor)
			assert.True(t, ok)
			assert.Equal(t, cloneA, addr)
			rec := r.GetRecord(state, key)
			assert.True(t, rec.Deployed)
			assert.False(t, rec.IsCanonical)
		})
	})

	t.Run("admin cannot record", func(t *testing.T) {
		c, r := setup(t)
		_, err := transact(c, admin, func(env *chain.Env) error {
			return r.RecordInstance(env, key, cloneA, false)
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("domains are isolated", func(t *testing.T) {
		c, r := setup(t)
		other := key
		other.Domain = domain.DomainFromName("other")
		_, err := transact(c, factory, func(env *chain.Env) error {
			if err := r.RecordInstance(env, key, cloneA, false); err != nil {
				return err
			}
			return r.RecordInstance(env, other, cloneB, false)
		})
		require.NoError(t, err)
		view(t, c, func(state *chain.StateDB) {
			assert.Equal(t, cloneA, r.GetInstance(state, key))
			assert.Equal(t, cloneB, r.GetInstance(state, other))
		})
	})
}

func TestPromoteCanonical(t *testing.T) {
	first := domain.InstanceKey{Domain: dao, ModuleID: domain.ModuleTreasury, InstanceID: 0}
	second := domain.InstanceKey{Domain: dao, ModuleID: domain.ModuleTreasury, InstanceID: 1}

	c, r := setup(t)
	_, err := transact(c, factory, func(env *chain.Env) error {
		if err := r.RecordInstance(env, first, cloneA, false); err != nil {
			return err
		}
		return r.RecordInstance(env, second, cloneB, false)
	})
	require.NoError(t, err)

	t.Run("missing instance", func(t *testing.T) {
		_, err := transact(c, admin, func(env *chain.Env) error {
			return r.PromoteCanonical(env, domain.InstanceKey{Domain: dao, ModuleID: domain.ModuleTreasury, InstanceID: 7})
		})
		assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
	})

	t.Run("non admin", func(t *testing.T) {
		_, err := transact(c, factory, func(env *chain.Env) error {
			return r.PromoteCanonical(env, first)
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("promote and re-point", func(t *testing.T) {
		receipt, err := transact(c, admin, func(env *chain.Env) error {
			return r.PromoteCanonical(env, second)
		})
		require.NoError(t, err)
		require.Len(t, receipt.Logs, 1)

		receipt, err = transact(c, admin, func(env *chain.Env) error {
			return r.PromoteCanonical(env, first)
		})
		require.NoError(t, err)
		require.Len(t, receipt.Logs, 1)
		ev, err := events.Decode(*receipt.Logs[0])
		require.NoError(t, err)
		promoted := ev.(*events.CanonicalPromoted)
		assert.Equal(t, cloneA, promoted.Canonical)
		assert.Equal(t, cloneB, promoted.Previous)

		view(t, c, func(state *chain.StateDB) {
			addr, id, ok := r.GetCanonical(state, dao, domain.ModuleTreasury)
			assert.True(t, ok)
			assert.Equal(t, cloneA, addr)
			assert.Equal(t, domain.InstanceID(0), id)
			// records keep the flag they were written with
			assert.False(t, r.GetRecord(state, first).IsCanonical)
			assert.False(t, r.GetRecord(state, second).IsCanonical)
			assert.Equal(t, cloneB, r.GetInstance(state, second))
		})
	})

	t.Run("promoting current canonical is a no-op", func(t *testing.T) {
		receipt, err := transact(c, admin, func(env *chain.Env) error {
			return r.PromoteCanonical(env, first)
		})
		require.NoError(t, err)
		assert.Empty(t, receipt.Logs)
	})

	logs, err := c.FilterLogs(context.Background(), ethereum.FilterQuery{
		Addresses: []common.Address{r.Address()},
		Topics:    [][]common.Hash{{events.TopicCanonicalPromoted}},
	})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRoleForwarding(t *testing.T) {
	c, r := setup(t)
	_, err := transact(c, admin, func(env *chain.Env) error {
		return r.GrantRole(env, domain.FactoryRole, stranger)
	})
	require.NoError(t, err)

	_, err = transact(c, stranger, func(env *chain.Env) error {
		return r.RevokeRole(env, domain.FactoryRole, factory)
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = transact(c, stranger, func(env *chain.Env) error {
		return r.RenounceRole(env, domain.FactoryRole, stranger)
	})
	require.NoError(t, err)

	_, err = transact(c, admin, func(env *chain.Env) error {
		return r.RevokeRole(env, domain.FactoryRole, factory)
	})
	require.NoError(t, err)

	view(t, c, func(state *chain.StateDB) {
		assert.False(t, r.HasRole(state, domain.FactoryRole, stranger))
		assert.False(t, r.HasRole(state, domain.FactoryRole, factory))
		assert.Equal(t, domain.DefaultAdminRole, r.GetRoleAdmin(state, domain.FactoryRole))
	})
}

func TestViewCalls(t *testing.T) {
	c, r := setup(t)
	key := domain.InstanceKey{Domain: dao, ModuleID: domain.ModuleGovernor, InstanceID: 2}
	_, err := transact(c, admin, func(env *chain.Env) error {
		return r.SetModule(env, domain.ModuleGovernor, implA)
	})
	require.NoError(t, err)
	_, err = transact(c, factory, func(env *chain.Env) error {
		return r.RecordInstance(env, key, cloneA, true)
	})
	require.NoError(t, err)

	call := func(method string, args ...any) []any {
		input, err := ViewABI.Pack(method, args...)
		require.NoError(t, err)
		var out []byte
		require.NoError(t, c.Call(context.Background(), stranger, func(env *chain.Env) error {
			var err error
			out, err = env.Call(r.Address(), input)
			return err
		}))
		values, err := ViewABI.Unpack(method, out)
		require.NoError(t, err)
		return values
	}

	assert.Equal(t, implA, call("getModule", domain.ModuleGovernor.Big())[0])
	assert.Equal(t, cloneA, call("getInstance", [32]byte(dao), key.ModuleID.Big(), key.InstanceID.Big())[0])
	assert.Equal(t, cloneA, call("getCanonical", [32]byte(dao), key.ModuleID.Big())[0])
	assert.Equal(t, true, call("hasRole", [32]byte(domain.FactoryRole), factory)[0])

	err = c.Call(context.Background(), stranger, func(env *chain.Env) error {
		_, err := env.Call(r.Address(), []byte{0xde, 0xad, 0xbe, 0xef})
		return err
	})
	assert.ErrorIs(t, err, chain.ErrUnknownSelector)
}
