package fs

import (
	"context"
	"path/filepath"

	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// DeploymentFile holds the core contract addresses inside the data dir
const DeploymentFile = "deployment.json"

// DeploymentStoreAdapter implements DeploymentStore with a JSON manifest
type DeploymentStoreAdapter struct {
	path string
}

// NewDeploymentStoreAdapter creates a new DeploymentStoreAdapter
func NewDeploymentStoreAdapter(cfg *config.RuntimeConfig) *DeploymentStoreAdapter {
	return &DeploymentStoreAdapter{path: filepath.Join(cfg.DataDir, DeploymentFile)}
}

// Load reads the manifest. Returns domain.ErrNotBootstrapped if it does not exist.
func (s *DeploymentStoreAdapter) Load(_ context.Context) (*domain.Deployment, error) {
	var dep domain.Deployment
	found, err := readJSON(s.path, &dep)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotBootstrapped
	}
	return &dep, nil
}

// Save writes the manifest, creating the data dir if needed
func (s *DeploymentStoreAdapter) Save(_ context.Context, dep *domain.Deployment) error {
	return writeJSON(s.path, dep)
}

// Ensure DeploymentStoreAdapter implements DeploymentStore
var _ usecase.DeploymentStore = (*DeploymentStoreAdapter)(nil)
