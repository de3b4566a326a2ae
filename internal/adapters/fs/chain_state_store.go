package fs

import (
	"context"
	"fmt"
	"sync"

	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/config"
)

// ChainStateStoreAdapter persists chain snapshots as a JSON file
type ChainStateStoreAdapter struct {
	mu        sync.RWMutex
	statePath string
}

// NewChainStateStoreAdapter creates a new ChainStateStoreAdapter
func NewChainStateStoreAdapter(cfg *config.RuntimeConfig) *ChainStateStoreAdapter {
	return &ChainStateStoreAdapter{statePath: cfg.StorePath()}
}

// Load reads the snapshot from disk. Returns nil if the file does not exist.
func (s *ChainStateStoreAdapter) Load(_ context.Context) (*chain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap chain.Snapshot
	found, err := readJSON(s.statePath, &snap)
	if err != nil {
		return nil, fmt.Errorf("chain state: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &snap, nil
}

// Save replaces the state file atomically so readers never see a partially
// written state
func (s *ChainStateStoreAdapter) Save(_ context.Context, snap *chain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.statePath, snap); err != nil {
		return fmt.Errorf("chain state: %w", err)
	}
	return nil
}

// Path returns the location of the state file
func (s *ChainStateStoreAdapter) Path() string {
	return s.statePath
}

// Ensure ChainStateStoreAdapter implements SnapshotStore
var _ chain.SnapshotStore = (*ChainStateStoreAdapter)(nil)
