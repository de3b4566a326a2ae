package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := LoadProjectConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultProjectConfig(), cfg)
		assert.Equal(t, []string{"governor", "timelock", "treasury"}, cfg.ModuleNames())
	})

	t.Run("file overrides tables and expands env", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".env", "ZDAO_TEST_OPERATOR=0x00000000000000000000000000000000000000b0\n")
		writeFile(t, dir, ProjectFile, `
[chain]
chain_id = 1337

[store]
driver = "sqlite"
path = "state.db"

[accounts]
admin = "0x00000000000000000000000000000000000000a0"
operator = "${ZDAO_TEST_OPERATOR}"

[modules.timelock]
id = 2
logic = "TimelockUpgradeable"

[modules.safe]
id = 7
logic = "TreasuryUpgradeable"
`)
		t.Cleanup(func() { os.Unsetenv("ZDAO_TEST_OPERATOR") })

		cfg, err := LoadProjectConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, uint64(1337), cfg.Chain.ChainID)
		assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
		assert.Equal(t, "state.db", cfg.Store.Path)
		assert.Equal(t, []string{"timelock", "safe"}, cfg.ModuleNames())

		operator, err := cfg.ResolveAccount("operator")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xb0"), operator)

		id, err := cfg.ModuleID("Safe")
		require.NoError(t, err)
		assert.Equal(t, domain.ModuleID(7), id)
		assert.Equal(t, "safe", cfg.ModuleName(7))
		assert.Equal(t, "9", cfg.ModuleName(9))
	})

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[chain]\nchain_idd = 1\n", "unknown keys"},
		{"bad driver", "[store]\ndriver = \"postgres\"\n", "unknown store driver"},
		{"zero module id", "[modules.x]\nid = 0\nlogic = \"L\"\n", "invalid module id"},
		{"duplicate module id", "[modules.a]\nid = 1\nlogic = \"L\"\n[modules.b]\nid = 1\nlogic = \"L\"\n", "share id"},
		{"missing logic", "[modules.a]\nid = 1\n", "logic is required"},
		{"bad account", "[accounts]\nadmin = \"nope\"\n", "invalid address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, ProjectFile, tt.content)
			_, err := LoadProjectConfig(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestModuleID(t *testing.T) {
	cfg := DefaultProjectConfig()

	id, err := cfg.ModuleID("timelock")
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleTimelock, id)

	id, err = cfg.ModuleID("42")
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleID(42), id)

	_, err = cfg.ModuleID("0")
	assert.ErrorIs(t, err, domain.ErrInvalidModuleID)

	_, err = cfg.ModuleID("bridge")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvider(t *testing.T) {
	dir := t.TempDir()

	t.Run("resolves domain and sender", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		v.Set("domain", "community")
		v.Set("from", "0x00000000000000000000000000000000000000c0")
		v.Set("json", true)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, DataDirName), cfg.DataDir)
		assert.Equal(t, domain.DomainFromName("community"), cfg.Domain)
		assert.Equal(t, common.HexToAddress("0xc0"), cfg.From)
		assert.True(t, cfg.JSON)
		assert.Equal(t, filepath.Join(dir, DataDirName, "chain.json"), cfg.StorePath())
	})

	t.Run("defaults to admin account", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, DefaultAdmin, cfg.From)
		assert.True(t, cfg.Domain.IsZero())
	})

	t.Run("unknown sender", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		v.Set("from", "mallory")
		_, err := Provider(v)
		assert.Error(t, err)
	})
}
