package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/usecase"
)

const projectHeader = `# zdao.toml - zdao project configuration
#
# [modules.<name>] maps a catalog module id to the contract logic whose
# implementation is deployed and registered by "zdao bootstrap".
# Values may reference environment variables from .env as ${VAR}.

`

// FileWriterAdapter handles file system operations for project files
type FileWriterAdapter struct{}

// NewFileWriterAdapter creates a new file writer adapter
func NewFileWriterAdapter() *FileWriterAdapter {
	return &FileWriterAdapter{}
}

// WriteFile writes content to a file
func (f *FileWriterAdapter) WriteFile(ctx context.Context, path string, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// WriteProjectConfig encodes cfg as TOML
func (f *FileWriterAdapter) WriteProjectConfig(ctx context.Context, path string, cfg *config.ProjectConfig) error {
	var buf bytes.Buffer
	buf.WriteString(projectHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode project config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// FileExists checks if a file exists
func (f *FileWriterAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDirectory ensures a directory exists
func (f *FileWriterAdapter) EnsureDirectory(ctx context.Context, path string) error {
	return os.MkdirAll(path, 0755)
}

// Ensure the adapter implements the interface
var _ usecase.ProjectWriter = (*FileWriterAdapter)(nil)
