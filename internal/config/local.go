package config

// LocalConfigFile is the per-checkout settings file inside the data dir.
// SetupViper reads it, so its keys act as defaults for the matching flags.
const LocalConfigFile = "config.local.json"

// LocalConfig represents the local zdao configuration
type LocalConfig struct {
	Domain string `json:"domain,omitempty"`
	From   string `json:"from,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyDomain ConfigKey = "domain"
	ConfigKeyFrom   ConfigKey = "from"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{From: "admin"}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyDomain,
		ConfigKeyFrom,
	}
}

// NormalizeConfigKey normalizes a config key (e.g., "dom" -> "domain")
func NormalizeConfigKey(key string) (ConfigKey, bool) {
	switch key {
	case "dom", "d":
		return ConfigKeyDomain, true
	case "sender":
		return ConfigKeyFrom, true
	}
	for _, k := range ValidConfigKeys() {
		if string(k) == key {
			return k, true
		}
	}
	return "", false
}

// Get returns the value stored for key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyDomain:
		return c.Domain
	case ConfigKeyFrom:
		return c.From
	}
	return ""
}

// Set stores value under key
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyDomain:
		c.Domain = value
	case ConfigKeyFrom:
		c.From = value
	}
}
