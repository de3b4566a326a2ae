package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	DomainName string        // tenant namespace as typed by the user
	Domain     domain.Domain // keccak256 of DomainName unless given as bytes32
	From       common.Address

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Resolved configurations
	Project *ProjectConfig
}

// ProjectConfig is the parsed zdao.toml
type ProjectConfig struct {
	Chain    ChainConfig             `toml:"chain"`
	Store    StoreConfig             `toml:"store"`
	Serve    ServeConfig             `toml:"serve"`
	Accounts map[string]string       `toml:"accounts"`
	Modules  map[string]ModuleConfig `toml:"modules"`
}

// ChainConfig configures the execution environment
type ChainConfig struct {
	ChainID uint64 `toml:"chain_id"`
}

// StoreDriver selects where chain state is persisted
type StoreDriver string

const (
	StoreDriverJSON   StoreDriver = "json"
	StoreDriverSQLite StoreDriver = "sqlite"
)

// StoreConfig configures chain state persistence
type StoreConfig struct {
	Driver StoreDriver `toml:"driver"`
	Path   string      `toml:"path"` // relative to the data dir unless absolute
}

// ServeConfig configures the read-only HTTP API
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// ModuleConfig is one [modules.<name>] table
type ModuleConfig struct {
	ID    uint64 `toml:"id"`
	Logic string `toml:"logic"`
}
