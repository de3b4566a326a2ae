package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/zerotreasury/zdao/internal/chain"
	"github.com/zerotreasury/zdao/internal/domain"
)

// ProjectFile is the name of the project configuration file
const ProjectFile = "zdao.toml"

// DefaultAdmin is the admin account used when no accounts are configured
var DefaultAdmin = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

// NamedModule is a module table together with its name
type NamedModule struct {
	Name string
	ModuleConfig
}

// DefaultProjectConfig returns the configuration written by `zdao init`
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Chain: ChainConfig{ChainID: chain.DefaultChainID},
		Store: StoreConfig{Driver: StoreDriverJSON, Path: "chain.json"},
		Serve: ServeConfig{Addr: "127.0.0.1:8645"},
		Accounts: map[string]string{
			"admin": DefaultAdmin.Hex(),
		},
		Modules: map[string]ModuleConfig{
			"governor": {ID: uint64(domain.ModuleGovernor), Logic: "ZDAOUpgradeable"},
			"timelock": {ID: uint64(domain.ModuleTimelock), Logic: "TimelockUpgradeable"},
			"treasury": {ID: uint64(domain.ModuleTreasury), Logic: "TreasuryUpgradeable"},
		},
	}
}

// loadEnvFiles loads .env and .env.local so values can be referenced as ${VAR}
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadProjectConfig loads zdao.toml from projectRoot. Missing files yield the
// defaults; tables present in the file replace the default tables.
func LoadProjectConfig(projectRoot string) (*ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := DefaultProjectConfig()
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw ProjectConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", ProjectFile, undecoded)
	}

	if meta.IsDefined("chain", "chain_id") {
		cfg.Chain.ChainID = raw.Chain.ChainID
	}
	if raw.Store.Driver != "" {
		cfg.Store.Driver = raw.Store.Driver
	}
	if raw.Store.Path != "" {
		cfg.Store.Path = os.ExpandEnv(raw.Store.Path)
	}
	if raw.Serve.Addr != "" {
		cfg.Serve.Addr = os.ExpandEnv(raw.Serve.Addr)
	}
	if len(raw.Accounts) > 0 {
		cfg.Accounts = make(map[string]string, len(raw.Accounts))
		for name, addr := range raw.Accounts {
			cfg.Accounts[name] = os.ExpandEnv(addr)
		}
	}
	if len(raw.Modules) > 0 {
		cfg.Modules = raw.Modules
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}
	return cfg, nil
}

// Validate checks module ids, accounts and the store driver
func (p *ProjectConfig) Validate() error {
	switch p.Store.Driver {
	case StoreDriverJSON, StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", p.Store.Driver)
	}
	seen := make(map[uint64]string, len(p.Modules))
	for name, m := range p.Modules {
		if m.ID == 0 {
			return fmt.Errorf("module %s: %w", name, domain.ErrInvalidModuleID)
		}
		if other, ok := seen[m.ID]; ok {
			return fmt.Errorf("modules %s and %s share id %d", other, name, m.ID)
		}
		seen[m.ID] = name
		if m.Logic == "" {
			return fmt.Errorf("module %s: logic is required", name)
		}
	}
	for name, addr := range p.Accounts {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("account %s: invalid address %q", name, addr)
		}
	}
	return nil
}

// SortedModules returns the module tables ordered by id
func (p *ProjectConfig) SortedModules() []NamedModule {
	out := make([]NamedModule, 0, len(p.Modules))
	for name, m := range p.Modules {
		out = append(out, NamedModule{Name: name, ModuleConfig: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ModuleNames returns configured module names ordered by id
func (p *ProjectConfig) ModuleNames() []string {
	mods := p.SortedModules()
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}

// ModuleID resolves a configured module name or a decimal id
func (p *ProjectConfig) ModuleID(name string) (domain.ModuleID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for n, m := range p.Modules {
		if strings.ToLower(n) == key {
			return domain.ModuleID(m.ID), nil
		}
	}
	if _, err := strconv.ParseUint(key, 10, 64); err == nil {
		return domain.ParseModuleID(key)
	}
	return 0, fmt.Errorf("%w: module %q", domain.ErrNotFound, name)
}

// ModuleName returns the configured name of a module id, or the id itself
func (p *ProjectConfig) ModuleName(id domain.ModuleID) string {
	for name, m := range p.Modules {
		if domain.ModuleID(m.ID) == id {
			return name
		}
	}
	return id.String()
}

// ResolveAccount resolves an account name or a hex address
func (p *ProjectConfig) ResolveAccount(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if addr, ok := p.Accounts[s]; ok {
		return common.HexToAddress(addr), nil
	}
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	return common.Address{}, fmt.Errorf("unknown account %q", s)
}

// StorePath returns the absolute path of the chain state store
func (c *RuntimeConfig) StorePath() string {
	if filepath.IsAbs(c.Project.Store.Path) {
		return c.Project.Store.Path
	}
	return filepath.Join(c.DataDir, c.Project.Store.Path)
}
