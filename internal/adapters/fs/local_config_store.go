package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// LocalConfigStoreAdapter keeps the per-checkout domain and sender in
// config.local.json, which SetupViper also reads as flag defaults
type LocalConfigStoreAdapter struct {
	path string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{path: filepath.Join(cfg.DataDir, config.LocalConfigFile)}
}

func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the stored settings, or the defaults when nothing was saved.
// A hand-edited domain that is not a name or a bytes32 id is rejected here
// rather than on the next command.
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	local := config.DefaultLocalConfig()
	found, err := readJSON(s.path, local)
	if err != nil {
		return nil, err
	}
	if !found {
		return local, nil
	}

	local.Domain = strings.TrimSpace(local.Domain)
	local.From = strings.TrimSpace(local.From)
	if local.From == "" {
		local.From = config.DefaultLocalConfig().From
	}
	if local.Domain != "" {
		if _, err := domain.ParseDomain(local.Domain); err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
	}
	return local, nil
}

func (s *LocalConfigStoreAdapter) Save(_ context.Context, cfg *config.LocalConfig) error {
	return writeJSON(s.path, cfg)
}

func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
