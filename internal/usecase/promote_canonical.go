package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/events"
)

// PromoteCanonicalParams selects the instance to promote
type PromoteCanonicalParams struct {
	Module   string
	Instance domain.InstanceID
	// Yes skips the confirmation prompt
	Yes bool
}

// PromoteCanonicalResult describes the canonical pointer after promotion
type PromoteCanonicalResult struct {
	Key       domain.InstanceKey `json:"key"`
	Name      string             `json:"module"`
	Canonical common.Address     `json:"canonical"`
	Previous  common.Address     `json:"previous"`
	Changed   bool               `json:"changed"`
	Tx        *TxResult          `json:"tx,omitempty"`
}

// PromoteCanonical moves the canonical pointer of a module to a recorded instance
type PromoteCanonical struct {
	config    *config.RuntimeConfig
	backend   ChainBackend
	modules   ModuleResolver
	confirmer Confirmer
	progress  ProgressSink
	metrics   MetricsRecorder
}

// NewPromoteCanonical creates a new PromoteCanonical use case
func NewPromoteCanonical(
	cfg *config.RuntimeConfig,
	backend ChainBackend,
	modules ModuleResolver,
	confirmer Confirmer,
	progress ProgressSink,
	metrics MetricsRecorder,
) *PromoteCanonical {
	return &PromoteCanonical{
		config:    cfg,
		backend:   backend,
		modules:   modules,
		confirmer: confirmer,
		progress:  progress,
		metrics:   metrics,
	}
}

// Run executes the promotion
func (uc *PromoteCanonical) Run(ctx context.Context, params PromoteCanonicalParams) (*PromoteCanonicalResult, error) {
	dom, err := requireDomain(uc.config)
	if err != nil {
		return nil, err
	}
	id, err := uc.modules.ResolveModule(ctx, params.Module)
	if err != nil {
		return nil, err
	}
	key := domain.InstanceKey{Domain: dom, ModuleID: id, InstanceID: params.Instance}
	name := moduleLabel(uc.config, id)

	record, err := uc.backend.GetInstance(ctx, key)
	if err != nil {
		return nil, err
	}
	if !record.Deployed {
		return nil, fmt.Errorf("%w: %s instance %d", domain.ErrInstanceNotFound, name, params.Instance)
	}
	current, err := uc.backend.GetCanonical(ctx, dom, id)
	if err != nil {
		return nil, err
	}

	result := &PromoteCanonicalResult{
		Key:       key,
		Name:      name,
		Canonical: record.Address,
		Previous:  current.Address,
	}
	if current.Deployed && current.Address == record.Address {
		uc.progress.Info(fmt.Sprintf("%s instance %d is already canonical", name, params.Instance))
		return result, nil
	}

	if !params.Yes && !uc.config.NonInteractive {
		msg := fmt.Sprintf("Promote %s instance %d (%s) to canonical", name, params.Instance, record.Address.Hex())
		if current.Deployed {
			msg += fmt.Sprintf(", replacing %s", current.Address.Hex())
		}
		ok, err := uc.confirmer.Confirm(ctx, msg)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "promote",
		Message: fmt.Sprintf("Promoting %s instance %d", name, params.Instance),
		Spinner: true,
	})

	start := time.Now()
	tx, err := uc.backend.PromoteCanonical(ctx, uc.config.From, key)
	uc.metrics.ObserveTransaction("promoteCanonical", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Tx = tx
	for _, ev := range tx.Events {
		if p, ok := ev.(*events.CanonicalPromoted); ok {
			result.Changed = true
			result.Canonical = p.Canonical
			result.Previous = p.Previous
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Canonical instance updated"})
	return result, nil
}
