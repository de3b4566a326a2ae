package calldata

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/domain"
)

const testABI = `[
  {"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[
    {"name":"daoId","type":"uint256"},
    {"name":"name","type":"string"},
    {"name":"token","type":"address"},
    {"name":"owners","type":"address[]"},
    {"name":"small","type":"uint8"},
    {"name":"flag","type":"bool"},
    {"name":"salt","type":"bytes32"},
    {"name":"extra","type":"bytes"}],"outputs":[]}
]`

func parseABI(t *testing.T) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(t, err)
	return &parsed
}

func TestEncode(t *testing.T) {
	contractABI := parseABI(t)
	token := common.HexToAddress("0x70c3000000000000000000000000000000000000")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	salt := common.HexToHash("0x01")

	t.Run("converts each type", func(t *testing.T) {
		got, err := Encode(contractABI, "initialize", []string{
			"42", "MyDAO", token.Hex(), "[" + owner.Hex() + "]", "7", "true", salt.Hex(), "0xbeef",
		})
		require.NoError(t, err)

		want, err := contractABI.Pack("initialize",
			big.NewInt(42), "MyDAO", token, []common.Address{owner}, uint8(7), true, [32]byte(salt), []byte{0xbe, 0xef},
		)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty list and hex integer", func(t *testing.T) {
		got, err := Encode(contractABI, "initialize", []string{
			"0x2a", "", token.Hex(), "", "0", "false", salt.Hex(), "",
		})
		require.NoError(t, err)
		want, err := contractABI.Pack("initialize",
			big.NewInt(42), "", token, []common.Address{}, uint8(0), false, [32]byte(salt), []byte{},
		)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"wrong arity", []string{"1"}, "expects 8 arguments"},
		{"bad integer", []string{"x", "", token.Hex(), "", "0", "true", salt.Hex(), ""}, "daoId"},
		{"bad address", []string{"1", "", "0x12", "", "0", "true", salt.Hex(), ""}, "invalid address"},
		{"overflow", []string{"1", "", token.Hex(), "", "256", "true", salt.Hex(), ""}, "overflows"},
		{"bad list element", []string{"1", "", token.Hex(), "0x01,nope", "0", "true", salt.Hex(), ""}, "element 0"},
		{"short bytes32", []string{"1", "", token.Hex(), "", "0", "true", "0x01", ""}, "got 1 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(contractABI, "initialize", tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Encode(contractABI, "missing", nil)
	assert.Error(t, err)
}

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) PredictCloneAddress(ctx context.Context, moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) (common.Address, error) {
	args := m.Called(ctx, moduleID, dom, instanceID)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *mockLookup) GetInstance(ctx context.Context, key domain.InstanceKey) (domain.InstanceRecord, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.InstanceRecord), args.Error(1)
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	dom := domain.DomainFromName("dao")
	predicted := common.HexToAddress("0x00000000000000000000000000000000000000f1")
	recorded := common.HexToAddress("0x00000000000000000000000000000000000000e2")
	names := func(name string) (domain.ModuleID, error) {
		if name == "timelock" {
			return domain.ModuleTimelock, nil
		}
		return domain.ParseModuleID(name)
	}

	lookup := new(mockLookup)
	lookup.On("PredictCloneAddress", ctx, domain.ModuleTimelock, dom, domain.InstanceID(1)).Return(predicted, nil)
	lookup.On("GetInstance", ctx, domain.InstanceKey{Domain: dom, ModuleID: domain.ModuleTreasury, InstanceID: 0}).
		Return(domain.InstanceRecord{Address: recorded, Deployed: true}, nil)
	lookup.On("GetInstance", ctx, domain.InstanceKey{Domain: dom, ModuleID: domain.ModuleTreasury, InstanceID: 9}).
		Return(domain.InstanceRecord{}, nil)

	r := NewResolver(lookup, dom, names)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain value", "42", "42"},
		{"predict by name", "predict:timelock:1", predicted.Hex()},
		{"instance by id", "instance:3:0", recorded.Hex()},
		{"list", "[0x00000000000000000000000000000000000000a1, predict:timelock:1]", "[0x00000000000000000000000000000000000000a1," + predicted.Hex() + "]"},
		{"list without refs", "a,b", "a,b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unrecorded instance", func(t *testing.T) {
		_, err := r.Resolve(ctx, "instance:3:9")
		assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := r.Resolve(ctx, "predict:timelock")
		assert.Error(t, err)
		_, err = r.Resolve(ctx, "predict:0:1")
		assert.ErrorIs(t, err, domain.ErrInvalidModuleID)
	})

	all, err := r.ResolveAll(ctx, []string{"1", "predict:timelock:1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", predicted.Hex()}, all)
	lookup.AssertExpectations(t)
}
