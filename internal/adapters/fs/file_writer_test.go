package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/config"
)

func TestFileWriter_ProjectConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	w := NewFileWriterAdapter()

	path := filepath.Join(root, config.ProjectFile)
	exists, err := w.FileExists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, w.WriteProjectConfig(ctx, path, config.DefaultProjectConfig()))

	exists, err = w.FileExists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# zdao.toml")

	loaded, err := config.LoadProjectConfig(root)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultProjectConfig(), loaded)
}

func TestFileWriter_Directories(t *testing.T) {
	ctx := context.Background()
	w := NewFileWriterAdapter()
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, w.EnsureDirectory(ctx, dir))
	assert.DirExists(t, dir)

	file := filepath.Join(dir, "plan.yaml")
	require.NoError(t, w.WriteFile(ctx, file, "domain: x\n"))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "domain: x\n", string(data))
}
