package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
)

// PredictAddressParams contains parameters for address prediction
type PredictAddressParams struct {
	Domain   string
	Module   string
	Instance domain.InstanceID
}

// PredictAddressResult is the deterministic address of a clone
type PredictAddressResult struct {
	Key      domain.InstanceKey `json:"key"`
	Name     string             `json:"module"`
	Address  common.Address     `json:"address"`
	Deployed bool               `json:"deployed"`
	// Recorded is the registry entry when the key is already deployed. It can
	// differ from Address if the catalog implementation changed since.
	Recorded common.Address `json:"recorded,omitempty"`
}

// PredictAddress computes where deployModules will place a clone
type PredictAddress struct {
	config  *config.RuntimeConfig
	backend ChainBackend
	modules ModuleResolver
}

// NewPredictAddress creates a new PredictAddress use case
func NewPredictAddress(cfg *config.RuntimeConfig, backend ChainBackend, modules ModuleResolver) *PredictAddress {
	return &PredictAddress{config: cfg, backend: backend, modules: modules}
}

// Run executes the prediction
func (uc *PredictAddress) Run(ctx context.Context, params PredictAddressParams) (*PredictAddressResult, error) {
	dom, err := selectDomain(uc.config, params.Domain)
	if err != nil {
		return nil, err
	}
	id, err := uc.modules.ResolveModule(ctx, params.Module)
	if err != nil {
		return nil, err
	}

	key := domain.InstanceKey{Domain: dom, ModuleID: id, InstanceID: params.Instance}
	addr, err := uc.backend.PredictCloneAddress(ctx, id, dom, params.Instance)
	if err != nil {
		return nil, err
	}

	record, err := uc.backend.GetInstance(ctx, key)
	if err != nil {
		return nil, err
	}

	return &PredictAddressResult{
		Key:      key,
		Name:     moduleLabel(uc.config, id),
		Address:  addr,
		Deployed: record.Deployed,
		Recorded: record.Address,
	}, nil
}
