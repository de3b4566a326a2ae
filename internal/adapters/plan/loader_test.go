package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
)

const examplePlan = `
domain: community-domain
from: admin
modules:
  - module: timelock
    instance: 1
    args: ["3600", "[${PROPOSER}]", "[]"]
  - module: governor
    instance: 1
    args:
      - "1"
      - Community DAO
      - ${VOTES_TOKEN}
      - predict:timelock:1
      - "1"
      - "50400"
      - "0"
      - "4"
      - "7200"
`

func TestParse(t *testing.T) {
	t.Setenv("PROPOSER", "0x00000000000000000000000000000000000a11ce")
	t.Setenv("VOTES_TOKEN", "0x3000000000000000000000000000000000000003")

	plan, err := Parse([]byte(examplePlan))
	require.NoError(t, err)

	assert.Equal(t, "community-domain", plan.Domain)
	assert.Equal(t, "admin", plan.From)
	require.Len(t, plan.Modules, 2)
	assert.Equal(t, "timelock", plan.Modules[0].Module)
	assert.Equal(t, uint64(1), plan.Modules[0].Instance)
	assert.Equal(t, "[0x00000000000000000000000000000000000a11ce]", plan.Modules[0].Args[1])
	assert.Equal(t, "0x3000000000000000000000000000000000000003", plan.Modules[1].Args[2])
	assert.Equal(t, "predict:timelock:1", plan.Modules[1].Args[3])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty document", input: "", wantErr: "plan is empty"},
		{name: "unknown field", input: "domain: x\nmodules:\n  - module: a\n    instanse: 1\n", wantErr: "field instanse not found"},
		{name: "no modules", input: "domain: x\nmodules: []\n", wantErr: domain.ErrEmptyBatch.Error()},
		{name: "missing module", input: "modules:\n  - instance: 1\n", wantErr: "modules[0]: module is required"},
		{
			name:    "calldata with args",
			input:   "modules:\n  - module: timelock\n    calldata: \"0x01\"\n    args: [\"1\"]\n",
			wantErr: "calldata cannot be combined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_LoadPlan(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "plans"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "plans", "raw.json"),
		[]byte(`{"domain": "0x01", "modules": [{"module": "treasury", "instance": 0, "calldata": "0xdeadbeef"}]}`),
		0644,
	))

	loader := NewLoader(&config.RuntimeConfig{ProjectRoot: root})

	t.Run("relative path", func(t *testing.T) {
		plan, err := loader.LoadPlan(context.Background(), "plans/raw.json")
		require.NoError(t, err)
		require.Len(t, plan.Modules, 1)
		assert.Equal(t, uint64(0), plan.Modules[0].Instance)
		assert.Equal(t, "0xdeadbeef", plan.Modules[0].Calldata)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadPlan(context.Background(), "plans/missing.yaml")
		assert.ErrorContains(t, err, "plan file not found")
	})
}
