package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/modules"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// SelectorAdapter resolves module names typed by the user, asking them to
// pick when a name is ambiguous
type SelectorAdapter struct {
	config *config.RuntimeConfig
	choose func(label string, items []string) (int, error)
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg, choose: promptSelect}
}

// ResolveModule resolves, in order, a configured module name or decimal id, a
// contract logic name or alias, then a fuzzy match on the configured names
func (s *SelectorAdapter) ResolveModule(ctx context.Context, name string) (domain.ModuleID, error) {
	project := s.config.Project

	id, err := project.ModuleID(name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}

	if m, err := modules.Lookup(name); err == nil {
		for _, mod := range project.SortedModules() {
			if mod.Logic == m.Name() {
				return domain.ModuleID(mod.ID), nil
			}
		}
	}

	names := project.ModuleNames()
	matches := fuzzy.Find(strings.ToLower(name), names)
	switch {
	case len(matches) == 0:
		return 0, fmt.Errorf("%w: module %q (configured: %s)", domain.ErrNotFound, name, strings.Join(names, ", "))
	case len(matches) == 1:
		return project.ModuleID(matches[0].Str)
	}

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = m.Str
	}
	if s.config.NonInteractive {
		return 0, fmt.Errorf("%w: module %q is ambiguous, matches: %s", domain.ErrAmbiguousModule, name, strings.Join(candidates, ", "))
	}

	index, err := s.choose(fmt.Sprintf("Select module matching %q", name), candidates)
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return project.ModuleID(candidates[index])
}

func promptSelect(label string, items []string) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	sel := promptui.Select{
		Label:             label,
		Items:             items,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(items),
	}
	index, _, err := sel.Run()
	return index, err
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ModuleResolver = (*SelectorAdapter)(nil)
