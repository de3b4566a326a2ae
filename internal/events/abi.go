// Package events holds the ABI of every event emitted by the registry, the
// factory and the access control layer, with encoders used by the contracts
// and a decoder used by clients.
package events

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Event names
const (
	NameModuleSet         = "ModuleSet"
	NameInstanceRecorded  = "DomainModuleInstanceRecorded"
	NameCanonicalPromoted = "CanonicalPromoted"
	NameModuleCloned      = "ModuleCloned"
	NameRoleGranted       = "RoleGranted"
	NameRoleRevoked       = "RoleRevoked"
	NameRoleAdminChanged  = "RoleAdminChanged"
)

const abiJSON = `[
  {"type":"event","name":"ModuleSet","anonymous":false,"inputs":[
    {"name":"moduleId","type":"uint256","indexed":true},
    {"name":"implementation","type":"address","indexed":false},
    {"name":"previous","type":"address","indexed":false}]},
  {"type":"event","name":"DomainModuleInstanceRecorded","anonymous":false,"inputs":[
    {"name":"domain","type":"bytes32","indexed":true},
    {"name":"moduleId","type":"uint256","indexed":true},
    {"name":"instanceId","type":"uint256","indexed":true},
    {"name":"deployed","type":"address","indexed":false},
    {"name":"isCanonical","type":"bool","indexed":false}]},
  {"type":"event","name":"CanonicalPromoted","anonymous":false,"inputs":[
    {"name":"domain","type":"bytes32","indexed":true},
    {"name":"moduleId","type":"uint256","indexed":true},
    {"name":"instanceId","type":"uint256","indexed":false},
    {"name":"canonical","type":"address","indexed":false},
    {"name":"previous","type":"address","indexed":false}]},
  {"type":"event","name":"ModuleCloned","anonymous":false,"inputs":[
    {"name":"moduleId","type":"uint256","indexed":true},
    {"name":"domain","type":"bytes32","indexed":true},
    {"name":"instanceId","type":"uint256","indexed":false},
    {"name":"clone","type":"address","indexed":false}]},
  {"type":"event","name":"RoleGranted","anonymous":false,"inputs":[
    {"name":"role","type":"bytes32","indexed":true},
    {"name":"account","type":"address","indexed":true},
    {"name":"sender","type":"address","indexed":true}]},
  {"type":"event","name":"RoleRevoked","anonymous":false,"inputs":[
    {"name":"role","type":"bytes32","indexed":true},
    {"name":"account","type":"address","indexed":true},
    {"name":"sender","type":"address","indexed":true}]},
  {"type":"event","name":"RoleAdminChanged","anonymous":false,"inputs":[
    {"name":"role","type":"bytes32","indexed":true},
    {"name":"previousAdminRole","type":"bytes32","indexed":true},
    {"name":"newAdminRole","type":"bytes32","indexed":true}]}
]`

// ABI is the parsed event ABI
var ABI = mustParse(abiJSON)

// Topic ids of each event
var (
	TopicModuleSet         = ABI.Events[NameModuleSet].ID
	TopicInstanceRecorded  = ABI.Events[NameInstanceRecorded].ID
	TopicCanonicalPromoted = ABI.Events[NameCanonicalPromoted].ID
	TopicModuleCloned      = ABI.Events[NameModuleCloned].ID
	TopicRoleGranted       = ABI.Events[NameRoleGranted].ID
	TopicRoleRevoked       = ABI.Events[NameRoleRevoked].ID
	TopicRoleAdminChanged  = ABI.Events[NameRoleAdminChanged].ID
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
