package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Deployment records where the core contracts of a project live
type Deployment struct {
	ChainID         uint64                    `json:"chainId"`
	Registry        common.Address            `json:"registry"`
	Factory         common.Address            `json:"factory"`
	Admin           common.Address            `json:"admin"`
	Implementations map[string]common.Address `json:"implementations,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// DeploymentPlan describes one deployModules batch
type DeploymentPlan struct {
	Domain  string      `yaml:"domain" json:"domain"`
	From    string      `yaml:"from,omitempty" json:"from,omitempty"`
	Modules []PlanEntry `yaml:"modules" json:"modules"`
}

// PlanEntry is one clone of a deployment plan. Either Method and Args or a raw
// Calldata hex string provide the initializer payload.
type PlanEntry struct {
	Module   string   `yaml:"module" json:"module"`
	Instance uint64   `yaml:"instance" json:"instance"`
	Method   string   `yaml:"method,omitempty" json:"method,omitempty"`
	Args     []string `yaml:"args,omitempty" json:"args,omitempty"`
	Calldata string   `yaml:"calldata,omitempty" json:"calldata,omitempty"`
}
