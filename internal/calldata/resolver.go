package calldata

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/domain"
)

// Reference prefixes understood by the resolver
const (
	PredictPrefix  = "predict:"
	InstancePrefix = "instance:"
)

// AddressLookup answers the address queries references need
type AddressLookup interface {
	PredictCloneAddress(ctx context.Context, moduleID domain.ModuleID, dom domain.Domain, instanceID domain.InstanceID) (common.Address, error)
	GetInstance(ctx context.Context, key domain.InstanceKey) (domain.InstanceRecord, error)
}

// ModuleIDFunc maps a module name or decimal id to a module id
type ModuleIDFunc func(name string) (domain.ModuleID, error)

// Resolver expands address references inside arguments:
//
//	predict:<module>:<instanceId>   CREATE2 address the factory would use
//	instance:<module>:<instanceId>  address already recorded in the registry
//
// References may appear as a whole argument or as elements of a list.
type Resolver struct {
	lookup   AddressLookup
	domain   domain.Domain
	moduleID ModuleIDFunc
}

// NewResolver creates a resolver scoped to one domain
func NewResolver(lookup AddressLookup, dom domain.Domain, moduleID ModuleIDFunc) *Resolver {
	if moduleID == nil {
		moduleID = domain.ParseModuleID
	}
	return &Resolver{lookup: lookup, domain: dom, moduleID: moduleID}
}

// IsReference reports whether s is an address reference
func IsReference(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, PredictPrefix) || strings.HasPrefix(s, InstancePrefix)
}

// ResolveAll resolves every argument
func (r *Resolver) ResolveAll(ctx context.Context, args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		v, err := r.Resolve(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Resolve expands the references in one argument. Arguments without
// references are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, arg string) (string, error) {
	if IsReference(arg) {
		addr, err := r.resolveRef(ctx, strings.TrimSpace(arg))
		if err != nil {
			return "", err
		}
		return addr.Hex(), nil
	}

	trimmed := strings.TrimSpace(arg)
	if !strings.Contains(trimmed, ",") && !strings.HasPrefix(trimmed, "[") {
		return arg, nil
	}
	items := SplitList(trimmed)
	changed := false
	for i, item := range items {
		if !IsReference(item) {
			continue
		}
		addr, err := r.resolveRef(ctx, item)
		if err != nil {
			return "", err
		}
		items[i] = addr.Hex()
		changed = true
	}
	if !changed {
		return arg, nil
	}
	return "[" + strings.Join(items, ",") + "]", nil
}

func (r *Resolver) resolveRef(ctx context.Context, ref string) (common.Address, error) {
	kind, rest, _ := strings.Cut(ref, ":")
	moduleName, instance, ok := strings.Cut(rest, ":")
	if !ok {
		return common.Address{}, fmt.Errorf("invalid reference %q: expected %s<module>:<instanceId>", ref, kind+":")
	}
	moduleID, err := r.moduleID(moduleName)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	instanceID, err := domain.ParseInstanceID(instance)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid reference %q: %w", ref, err)
	}

	switch kind + ":" {
	case PredictPrefix:
		return r.lookup.PredictCloneAddress(ctx, moduleID, r.domain, instanceID)
	case InstancePrefix:
		key := domain.InstanceKey{Domain: r.domain, ModuleID: moduleID, InstanceID: instanceID}
		rec, err := r.lookup.GetInstance(ctx, key)
		if err != nil {
			return common.Address{}, err
		}
		if !rec.Deployed {
			return common.Address{}, fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, key)
		}
		return rec.Address, nil
	}
	return common.Address{}, fmt.Errorf("invalid reference %q", ref)
}
