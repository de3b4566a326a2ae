package clones

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/domain"
)

func TestRuntimeCode(t *testing.T) {
	impl := common.HexToAddress("0xbebebebebebebebebebebebebebebebebebebebe")

	code := RuntimeCode(impl)
	assert.Len(t, code, RuntimeSize)
	assert.Equal(t,
		"0x363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf3",
		hexutil.Encode(code),
	)

	creation := CreationCode(impl)
	assert.Len(t, creation, 55)
	assert.Equal(t, "3d602d80600a3d3981f3", common.Bytes2Hex(creation[:10]))
	assert.Equal(t, code, creation[10:])
}

func TestImplementation(t *testing.T) {
	impl := common.HexToAddress("0x1111111111111111111111111111111111111111")

	t.Run("parses runtime code", func(t *testing.T) {
		got, ok := Implementation(RuntimeCode(impl))
		require.True(t, ok)
		assert.Equal(t, impl, got)
	})

	t.Run("rejects creation code", func(t *testing.T) {
		_, ok := Implementation(CreationCode(impl))
		assert.False(t, ok)
	})

	t.Run("rejects arbitrary code", func(t *testing.T) {
		code := RuntimeCode(impl)
		code[0] = 0x60
		_, ok := Implementation(code)
		assert.False(t, ok)
		_, ok = Implementation(nil)
		assert.False(t, ok)
	})
}

func TestPredictDeterministicAddress(t *testing.T) {
	impl := common.HexToAddress("0x2222222222222222222222222222222222222222")
	deployer := common.HexToAddress("0x3333333333333333333333333333333333333333")
	salt := Salt(domain.ModuleTimelock, domain.DomainFromName("community"), 1)

	expected := crypto.CreateAddress2(deployer, salt, crypto.Keccak256(CreationCode(impl)))
	assert.Equal(t, expected, PredictDeterministicAddress(impl, salt, deployer))

	t.Run("stable for identical inputs", func(t *testing.T) {
		assert.Equal(t,
			PredictDeterministicAddress(impl, salt, deployer),
			PredictDeterministicAddress(impl, salt, deployer),
		)
	})

	t.Run("changes with each input", func(t *testing.T) {
		base := PredictDeterministicAddress(impl, salt, deployer)
		otherImpl := common.HexToAddress("0x4444444444444444444444444444444444444444")
		assert.NotEqual(t, base, PredictDeterministicAddress(otherImpl, salt, deployer))
		assert.NotEqual(t, base, PredictDeterministicAddress(impl, salt, otherImpl))
		assert.NotEqual(t, base, PredictDeterministicAddress(impl, Salt(domain.ModuleTimelock, domain.DomainFromName("community"), 2), deployer))
	})
}

func TestSalt(t *testing.T) {
	dom := domain.DomainFromName("community")

	expected := crypto.Keccak256Hash(
		common.LeftPadBytes([]byte{2}, 32),
		dom.Hash().Bytes(),
		common.LeftPadBytes([]byte{7}, 32),
	)
	assert.Equal(t, [32]byte(expected), Salt(domain.ModuleTimelock, dom, 7))

	assert.NotEqual(t, Salt(1, dom, 0), Salt(2, dom, 0))
	assert.NotEqual(t, Salt(1, dom, 0), Salt(1, domain.DomainFromName("other"), 0))
	assert.NotEqual(t, Salt(1, dom, 0), Salt(1, dom, 1))
}
