package plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Loader reads deployment plans written in YAML (JSON is accepted too)
type Loader struct {
	root string
}

// NewLoader creates a plan loader resolving relative paths against the project root
func NewLoader(cfg *config.RuntimeConfig) *Loader {
	return &Loader{root: cfg.ProjectRoot}
}

// LoadPlan reads, expands and validates the plan at path
func (l *Loader) LoadPlan(ctx context.Context, path string) (*domain.DeploymentPlan, error) {
	if !filepath.IsAbs(path) && l.root != "" {
		path = filepath.Join(l.root, path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("plan file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return plan, nil
}

// Parse decodes a plan and expands ${VAR} references in every string value
func Parse(data []byte) (*domain.DeploymentPlan, error) {
	var plan domain.DeploymentPlan

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	expand(&plan)

	if err := Validate(&plan); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

func expand(plan *domain.DeploymentPlan) {
	plan.Domain = os.ExpandEnv(plan.Domain)
	plan.From = os.ExpandEnv(plan.From)
	for i := range plan.Modules {
		m := &plan.Modules[i]
		m.Module = os.ExpandEnv(m.Module)
		m.Method = os.ExpandEnv(m.Method)
		m.Calldata = os.ExpandEnv(m.Calldata)
		for j, arg := range m.Args {
			m.Args[j] = os.ExpandEnv(arg)
		}
	}
}

// Validate checks the structure of a plan. Module names and arguments are
// resolved later against the catalog.
func Validate(plan *domain.DeploymentPlan) error {
	if len(plan.Modules) == 0 {
		return domain.ErrEmptyBatch
	}
	for i, m := range plan.Modules {
		if m.Module == "" {
			return fmt.Errorf("modules[%d]: module is required", i)
		}
		if m.Calldata != "" && (m.Method != "" || len(m.Args) > 0) {
			return fmt.Errorf("modules[%d] (%s): calldata cannot be combined with method or args", i, m.Module)
		}
	}
	return nil
}

// Ensure Loader implements PlanLoader
var _ usecase.PlanLoader = (*Loader)(nil)
