package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/zerotreasury/zdao/internal/calldata"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
)

// DeployModulesParams contains parameters for a batch deployment. Plan takes
// precedence over PlanPath.
type DeployModulesParams struct {
	PlanPath string
	Plan     *domain.DeploymentPlan
	DryRun   bool
}

// DeployedModule is one clone of a batch
type DeployedModule struct {
	Key     domain.InstanceKey `json:"key"`
	Name    string             `json:"module"`
	Address common.Address     `json:"address"`
	Method  string             `json:"method,omitempty"`
	Payload hexutil.Bytes      `json:"payload"`
}

// DeployModulesResult contains the outcome of a batch deployment
type DeployModulesResult struct {
	Domain  domain.Domain    `json:"domain"`
	From    common.Address   `json:"from"`
	Modules []DeployedModule `json:"modules"`
	DryRun  bool             `json:"dryRun"`
	Tx      *TxResult        `json:"tx,omitempty"`
}

// DeployModules turns a deployment plan into one atomic deployModules batch
type DeployModules struct {
	config   *config.RuntimeConfig
	backend  ChainBackend
	plans    PlanLoader
	modules  ModuleResolver
	progress ProgressSink
	metrics  MetricsRecorder
	log      *slog.Logger
}

// NewDeployModules creates a new DeployModules use case
func NewDeployModules(
	cfg *config.RuntimeConfig,
	backend ChainBackend,
	plans PlanLoader,
	modules ModuleResolver,
	progress ProgressSink,
	metrics MetricsRecorder,
	log *slog.Logger,
) *DeployModules {
	return &DeployModules{
		config:   cfg,
		backend:  backend,
		plans:    plans,
		modules:  modules,
		progress: progress,
		metrics:  metrics,
		log:      log.With("component", "DeployModules"),
	}
}

// Run executes the deployment
func (uc *DeployModules) Run(ctx context.Context, params DeployModulesParams) (*DeployModulesResult, error) {
	plan := params.Plan
	if plan == nil {
		if params.PlanPath == "" {
			return nil, fmt.Errorf("no deployment plan given")
		}
		var err error
		if plan, err = uc.plans.LoadPlan(ctx, params.PlanPath); err != nil {
			return nil, err
		}
	}
	if len(plan.Modules) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	dom, err := uc.planDomain(plan)
	if err != nil {
		return nil, err
	}
	from := uc.config.From
	if plan.From != "" {
		if from, err = uc.config.Project.ResolveAccount(plan.From); err != nil {
			return nil, err
		}
	}

	total := len(plan.Modules)
	result := &DeployModulesResult{
		Domain:  dom,
		From:    from,
		DryRun:  params.DryRun,
		Modules: make([]DeployedModule, 0, total),
	}
	resolver := calldata.NewResolver(uc.backend, dom, func(name string) (domain.ModuleID, error) {
		return uc.modules.ResolveModule(ctx, name)
	})

	batch := make([]ModuleDeployment, 0, total)
	for i, entry := range plan.Modules {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "encoding",
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("Encoding %s instance %d", entry.Module, entry.Instance),
			Spinner: true,
		})

		mod, err := uc.encode(ctx, resolver, dom, entry)
		if err != nil {
			return nil, fmt.Errorf("module %d of %d (%s): %w", i+1, total, entry.Module, err)
		}
		result.Modules = append(result.Modules, *mod)
		batch = append(batch, ModuleDeployment{
			ModuleID:   mod.Key.ModuleID,
			InstanceID: mod.Key.InstanceID,
			Payload:    mod.Payload,
		})
	}

	if params.DryRun {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Dry run complete"})
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Current: total,
		Total:   total,
		Message: fmt.Sprintf("Deploying %d module(s) for domain %s", total, dom.Hex()),
		Spinner: true,
	})

	start := time.Now()
	deployed, err := uc.backend.DeployModules(ctx, from, dom, batch)
	uc.metrics.ObserveTransaction("deployModules", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for i := range result.Modules {
		if result.Modules[i].Address != deployed.Addresses[i] {
			uc.log.Warn("clone address differs from prediction",
				"module", result.Modules[i].Name,
				"predicted", result.Modules[i].Address.Hex(),
				"deployed", deployed.Addresses[i].Hex())
		}
		result.Modules[i].Address = deployed.Addresses[i]
	}
	for name, mods := range lo.GroupBy(result.Modules, func(m DeployedModule) string { return m.Name }) {
		uc.metrics.AddModulesDeployed(name, len(mods))
	}
	result.Tx = deployed.Tx

	uc.log.Debug("batch deployed", "domain", dom.Hex(), "modules", total, "tx", deployed.Tx.TxHash.Hex())
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: total,
		Total:   total,
		Message: "Deployment complete",
	})
	return result, nil
}

func (uc *DeployModules) planDomain(plan *domain.DeploymentPlan) (domain.Domain, error) {
	if plan.Domain != "" {
		return domain.ParseDomain(plan.Domain)
	}
	return requireDomain(uc.config)
}

func (uc *DeployModules) encode(ctx context.Context, resolver *calldata.Resolver, dom domain.Domain, entry domain.PlanEntry) (*DeployedModule, error) {
	id, err := uc.modules.ResolveModule(ctx, entry.Module)
	if err != nil {
		return nil, err
	}
	instance := domain.InstanceID(entry.Instance)

	addr, err := uc.backend.PredictCloneAddress(ctx, id, dom, instance)
	if err != nil {
		return nil, err
	}

	mod := &DeployedModule{
		Key:     domain.InstanceKey{Domain: dom, ModuleID: id, InstanceID: instance},
		Name:    moduleLabel(uc.config, id),
		Address: addr,
	}

	if entry.Calldata != "" {
		payload, err := hexutil.Decode(entry.Calldata)
		if err != nil {
			return nil, fmt.Errorf("invalid calldata: %w", err)
		}
		mod.Payload = payload
		return mod, nil
	}

	moduleABI, err := uc.backend.ModuleABI(ctx, id)
	if err != nil {
		return nil, err
	}
	method := entry.Method
	if method == "" {
		if method, err = initializerMethod(moduleABI); err != nil {
			return nil, err
		}
	}
	args, err := resolver.ResolveAll(ctx, entry.Args)
	if err != nil {
		return nil, err
	}
	payload, err := calldata.Encode(moduleABI, method, args)
	if err != nil {
		return nil, err
	}
	mod.Method = method
	mod.Payload = payload
	return mod, nil
}

// initializerMethod picks "initialize" or the only initialize* method
func initializerMethod(contractABI *abi.ABI) (string, error) {
	if _, ok := contractABI.Methods["initialize"]; ok {
		return "initialize", nil
	}
	var candidates []string
	for name := range contractABI.Methods {
		if strings.HasPrefix(name, "initialize") {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("module has no initializer, set method or calldata")
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("ambiguous initializer, set method to one of %s", strings.Join(candidates, ", "))
	}
}
