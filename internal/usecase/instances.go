package usecase

import (
	"context"
	"sort"

	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
)

// InstanceParams selects one instance. Domain overrides the configured domain.
type InstanceParams struct {
	Domain   string
	Module   string
	Instance domain.InstanceID
}

// InstanceView is an instance record with its module name attached. Current
// reports whether the canonical pointer targets the record right now.
type InstanceView struct {
	domain.InstanceRecord
	Name    string `json:"module"`
	Current bool   `json:"current"`
}

// GetInstance reads one instance record
type GetInstance struct {
	config  *config.RuntimeConfig
	backend ChainBackend
	modules ModuleResolver
}

// NewGetInstance creates a new GetInstance use case
func NewGetInstance(cfg *config.RuntimeConfig, backend ChainBackend, modules ModuleResolver) *GetInstance {
	return &GetInstance{config: cfg, backend: backend, modules: modules}
}

// Run returns the record. Unset keys yield a record with Deployed false.
func (uc *GetInstance) Run(ctx context.Context, params InstanceParams) (*InstanceView, error) {
	dom, err := selectDomain(uc.config, params.Domain)
	if err != nil {
		return nil, err
	}
	id, err := uc.modules.ResolveModule(ctx, params.Module)
	if err != nil {
		return nil, err
	}
	key := domain.InstanceKey{Domain: dom, ModuleID: id, InstanceID: params.Instance}
	record, err := uc.backend.GetInstance(ctx, key)
	if err != nil {
		return nil, err
	}
	record.Key = key
	view := &InstanceView{InstanceRecord: record, Name: moduleLabel(uc.config, id)}
	if record.Deployed {
		canonical, err := uc.backend.GetCanonical(ctx, dom, id)
		if err != nil {
			return nil, err
		}
		view.Current = canonical.Deployed && canonical.Key.InstanceID == key.InstanceID
	}
	return view, nil
}

// ListInstancesParams filters the instance listing
type ListInstancesParams struct {
	Domain     string
	Module     string
	AllDomains bool
}

// ListInstancesResult contains the recorded instances
type ListInstancesResult struct {
	Instances []InstanceView
	Summary   InstanceSummary
}

// InstanceSummary counts instances
type InstanceSummary struct {
	Total     int
	Canonical int
	ByModule  map[string]int
	ByDomain  map[domain.Domain]int
}

// ListInstances lists recorded instances from the registry's event history.
// IsCanonical keeps the flag at record time, Current follows the canonical pointer.
type ListInstances struct {
	config  *config.RuntimeConfig
	backend ChainBackend
	modules ModuleResolver
	sink    ProgressSink
}

// NewListInstances creates a new ListInstances use case
func NewListInstances(cfg *config.RuntimeConfig, backend ChainBackend, modules ModuleResolver, sink ProgressSink) *ListInstances {
	return &ListInstances{config: cfg, backend: backend, modules: modules, sink: sink}
}

// Run executes the listing
func (uc *ListInstances) Run(ctx context.Context, params ListInstancesParams) (*ListInstancesResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading instances from registry events",
		Spinner: true,
	})

	var filter InstanceFilter
	if !params.AllDomains {
		dom, err := selectDomain(uc.config, params.Domain)
		if err != nil {
			return nil, err
		}
		filter.Domain = &dom
	}
	if params.Module != "" {
		id, err := uc.modules.ResolveModule(ctx, params.Module)
		if err != nil {
			return nil, err
		}
		filter.ModuleID = &id
	}

	records, err := uc.backend.InstanceHistory(ctx, filter)
	if err != nil {
		return nil, err
	}

	type pointer struct {
		dom domain.Domain
		id  domain.ModuleID
	}
	canonical := make(map[pointer]domain.InstanceRecord)
	views := make([]InstanceView, 0, len(records))
	for _, r := range records {
		p := pointer{r.Key.Domain, r.Key.ModuleID}
		current, ok := canonical[p]
		if !ok {
			if current, err = uc.backend.GetCanonical(ctx, p.dom, p.id); err != nil {
				return nil, err
			}
			canonical[p] = current
		}
		views = append(views, InstanceView{
			InstanceRecord: r,
			Name:           moduleLabel(uc.config, r.Key.ModuleID),
			Current:        current.Deployed && r.Key.InstanceID == current.Key.InstanceID,
		})
	}

	sortInstances(views)
	summary := summarizeInstances(views)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(views),
		Total:   len(views),
		Message: "Instances loaded",
	})

	return &ListInstancesResult{Instances: views, Summary: summary}, nil
}

// sortInstances sorts by domain, module id and instance id
func sortInstances(views []InstanceView) {
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i].Key, views[j].Key
		if a.Domain != b.Domain {
			return a.Domain.Hex() < b.Domain.Hex()
		}
		if a.ModuleID != b.ModuleID {
			return a.ModuleID < b.ModuleID
		}
		return a.InstanceID < b.InstanceID
	})
}

func summarizeInstances(views []InstanceView) InstanceSummary {
	summary := InstanceSummary{
		Total:    len(views),
		ByModule: make(map[string]int),
		ByDomain: make(map[domain.Domain]int),
	}
	for _, v := range views {
		summary.ByModule[v.Name]++
		summary.ByDomain[v.Key.Domain]++
		if v.Current {
			summary.Canonical++
		}
	}
	return summary
}

// GetCanonicalParams selects the module whose canonical instance is read
type GetCanonicalParams struct {
	Domain string
	Module string
}

// GetCanonical reads the canonical instance of a module for the configured domain
type GetCanonical struct {
	config  *config.RuntimeConfig
	backend ChainBackend
	modules ModuleResolver
}

// NewGetCanonical creates a new GetCanonical use case
func NewGetCanonical(cfg *config.RuntimeConfig, backend ChainBackend, modules ModuleResolver) *GetCanonical {
	return &GetCanonical{config: cfg, backend: backend, modules: modules}
}

// Run returns the canonical record. Deployed is false when none was promoted.
func (uc *GetCanonical) Run(ctx context.Context, params GetCanonicalParams) (*InstanceView, error) {
	dom, err := selectDomain(uc.config, params.Domain)
	if err != nil {
		return nil, err
	}
	id, err := uc.modules.ResolveModule(ctx, params.Module)
	if err != nil {
		return nil, err
	}
	record, err := uc.backend.GetCanonical(ctx, dom, id)
	if err != nil {
		return nil, err
	}
	record.Key.Domain = dom
	record.Key.ModuleID = id
	return &InstanceView{InstanceRecord: record, Name: moduleLabel(uc.config, id), Current: record.Deployed}, nil
}
