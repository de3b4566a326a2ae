package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

func newSelector(nonInteractive bool, choose func(string, []string) (int, error)) *SelectorAdapter {
	project := config.DefaultProjectConfig()
	project.Modules["timelock-v2"] = config.ModuleConfig{ID: 12, Logic: "TimelockUpgradeable"}
	s := NewSelectorAdapter(&config.RuntimeConfig{Project: project, NonInteractive: nonInteractive})
	if choose != nil {
		s.choose = choose
	}
	return s
}

func TestResolveModule(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  domain.ModuleID
	}{
		{name: "configured name", input: "governor", want: domain.ModuleGovernor},
		{name: "case insensitive", input: "Treasury", want: domain.ModuleTreasury},
		{name: "decimal id", input: "42", want: 42},
		{name: "logic name", input: "ZDAOUpgradeable", want: domain.ModuleGovernor},
		{name: "alias", input: "safe", want: domain.ModuleTreasury},
		{name: "unique fuzzy match", input: "gvn", want: domain.ModuleGovernor},
	}

	s := newSelector(true, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ResolveModule(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("no match", func(t *testing.T) {
		_, err := s.ResolveModule(ctx, "xyz")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ambiguous in non-interactive mode", func(t *testing.T) {
		_, err := s.ResolveModule(ctx, "tmlk")
		assert.ErrorIs(t, err, domain.ErrAmbiguousModule)
		assert.ErrorContains(t, err, "is ambiguous")
	})

	t.Run("ambiguous prompts for a choice", func(t *testing.T) {
		var offered []string
		s := newSelector(false, func(_ string, items []string) (int, error) {
			offered = items
			for i, item := range items {
				if item == "timelock-v2" {
					return i, nil
				}
			}
			return 0, errors.New("not offered")
		})
		got, err := s.ResolveModule(ctx, "tmlk")
		require.NoError(t, err)
		assert.Equal(t, domain.ModuleID(12), got)
		assert.ElementsMatch(t, []string{"timelock", "timelock-v2"}, offered)
	})
}

func TestConfirmer(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		err     error
		want    bool
		wantErr error
	}{
		{name: "yes", want: true},
		{name: "no", err: promptui.ErrAbort, want: false},
		{name: "interrupt", err: promptui.ErrInterrupt, wantErr: usecase.ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Confirmer{prompt: func(string) (string, error) { return "", tt.err }}
			got, err := c.Confirm(ctx, "Promote?")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
