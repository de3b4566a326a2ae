package modules

import (
	"fmt"
	"strings"

	"github.com/zerotreasury/zdao/internal/domain"
)

// All returns a fresh instance of every known module
func All() []*Module {
	return []*Module{Governor(), Timelock(), Treasury()}
}

// Aliases maps short names to logic names
var Aliases = map[string]string{
	"governor": GovernorLogicName,
	"zdao":     GovernorLogicName,
	"timelock": TimelockLogicName,
	"treasury": TreasuryLogicName,
	"safe":     TreasuryLogicName,
}

// Lookup finds a module by logic name, alias or well-known id
func Lookup(name string) (*Module, error) {
	key := strings.TrimSpace(name)
	if logic, ok := Aliases[strings.ToLower(key)]; ok {
		key = logic
	}
	for _, m := range All() {
		if m.Name() == key || m.ID().String() == key {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: module %q", domain.ErrNotFound, name)
}

// Names returns the logic names of all known modules
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name()
	}
	return names
}
