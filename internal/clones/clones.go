// Package clones implements EIP-1167 minimal proxies and the CREATE2
// address derivation used by the DAO factory.
package clones

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zerotreasury/zdao/internal/domain"
)

var (
	creationPrefix = common.FromHex("0x3d602d80600a3d3981f3")
	runtimePrefix  = common.FromHex("0x363d3d373d3d3d363d73")
	runtimeSuffix  = common.FromHex("0x5af43d82803e903d91602b57fd5bf3")
)

// RuntimeSize is the length of a minimal proxy's deployed code
const RuntimeSize = 45

// RuntimeCode returns the deployed bytecode of a minimal proxy forwarding to impl
func RuntimeCode(impl common.Address) []byte {
	code := make([]byte, 0, RuntimeSize)
	code = append(code, runtimePrefix...)
	code = append(code, impl.Bytes()...)
	code = append(code, runtimeSuffix...)
	return code
}

// CreationCode returns the init code that deploys RuntimeCode(impl)
func CreationCode(impl common.Address) []byte {
	code := make([]byte, 0, len(creationPrefix)+RuntimeSize)
	code = append(code, creationPrefix...)
	return append(code, RuntimeCode(impl)...)
}

// Implementation extracts the implementation address from minimal proxy runtime code
func Implementation(code []byte) (common.Address, bool) {
	if len(code) != RuntimeSize {
		return common.Address{}, false
	}
	if !bytes.HasPrefix(code, runtimePrefix) || !bytes.HasSuffix(code, runtimeSuffix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(code[len(runtimePrefix) : len(runtimePrefix)+common.AddressLength]), true
}

// PredictDeterministicAddress computes the CREATE2 address of a clone of impl
// deployed by deployer with the given salt.
func PredictDeterministicAddress(impl common.Address, salt [32]byte, deployer common.Address) common.Address {
	return crypto.CreateAddress2(deployer, salt, crypto.Keccak256(CreationCode(impl)))
}

// Salt derives the CREATE2 salt of a module instance as
// keccak256(abi.encode(uint256 moduleId, bytes32 domain, uint256 instanceId)).
func Salt(moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) [32]byte {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(moduleID.Big().Bytes(), 32),
		dom.Hash().Bytes(),
		common.LeftPadBytes(instanceID.Big().Bytes(), 32),
	)
}
