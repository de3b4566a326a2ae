package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/zerotreasury/zdao/internal/config"
)

// ExamplePlanPath is the plan written by init, relative to the project root
const ExamplePlanPath = "plans/example.yaml"

// InitProject handles project initialization
type InitProject struct {
	config     *config.RuntimeConfig
	fileWriter ProjectWriter
	progress   ProgressSink
}

// NewInitProject creates a new init project use case
func NewInitProject(cfg *config.RuntimeConfig, fileWriter ProjectWriter, progress ProgressSink) *InitProject {
	return &InitProject{
		config:     cfg,
		fileWriter: fileWriter,
		progress:   progress,
	}
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	DataDirCreated     bool
	ProjectFileCreated bool
	ExamplePlanCreated bool
	EnvExampleCreated  bool
	AlreadyInitialized bool
	Steps              []InitStep
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string
	Success bool
	Message string
	Error   error
}

// Run initializes a zdao project in the configured project root
func (i *InitProject) Run(ctx context.Context) (*InitProjectResult, error) {
	result := &InitProjectResult{}

	step := i.createDataDir(ctx)
	result.Steps = append(result.Steps, step)
	if !step.Success {
		return result, step.Error
	}
	result.DataDirCreated = true

	step, created := i.createProjectFile(ctx)
	result.Steps = append(result.Steps, step)
	if !step.Success {
		return result, step.Error
	}
	result.ProjectFileCreated = created
	result.AlreadyInitialized = !created

	step, created = i.writeIfMissing(ctx, "Create Example Plan", ExamplePlanPath, examplePlan)
	result.Steps = append(result.Steps, step)
	result.ExamplePlanCreated = created

	step, created = i.writeIfMissing(ctx, "Create Environment Example", ".env.example", envExample)
	result.Steps = append(result.Steps, step)
	result.EnvExampleCreated = created

	return result, nil
}

func (i *InitProject) path(rel string) string {
	return filepath.Join(i.config.ProjectRoot, rel)
}

func (i *InitProject) createDataDir(ctx context.Context) InitStep {
	if err := i.fileWriter.EnsureDirectory(ctx, i.path(config.DataDirName)); err != nil {
		return InitStep{
			Name:    "Create Data Directory",
			Success: false,
			Error:   fmt.Errorf("failed to create %s directory: %w", config.DataDirName, err),
		}
	}
	return InitStep{
		Name:    "Create Data Directory",
		Success: true,
		Message: fmt.Sprintf("Chain state will be stored in %s/", config.DataDirName),
	}
}

func (i *InitProject) createProjectFile(ctx context.Context) (InitStep, bool) {
	name := "Create " + config.ProjectFile
	path := i.path(config.ProjectFile)

	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to check %s: %w", config.ProjectFile, err)}, false
	}
	if exists {
		return InitStep{Name: name, Success: true, Message: config.ProjectFile + " already exists"}, false
	}

	if err := i.fileWriter.WriteProjectConfig(ctx, path, config.DefaultProjectConfig()); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to create %s: %w", config.ProjectFile, err)}, false
	}
	i.progress.Info("Created " + config.ProjectFile)
	return InitStep{
		Name:    name,
		Success: true,
		Message: fmt.Sprintf("Created %s with the governor, timelock and treasury modules", config.ProjectFile),
	}, true
}

func (i *InitProject) writeIfMissing(ctx context.Context, name, rel, content string) (InitStep, bool) {
	path := i.path(rel)
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to check %s: %w", rel, err)}, false
	}
	if exists {
		return InitStep{Name: name, Success: true, Message: rel + " already exists"}, false
	}
	if err := i.fileWriter.EnsureDirectory(ctx, filepath.Dir(path)); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to create directory for %s: %w", rel, err)}, false
	}
	if err := i.fileWriter.WriteFile(ctx, path, content); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to create %s: %w", rel, err)}, false
	}
	return InitStep{Name: name, Success: true, Message: "Created " + rel}, true
}

const examplePlan = `# Deploys a timelock and a governor for one domain in a single atomic batch.
# predict:<module>:<instance> expands to the address the clone will receive,
# instance:<module>:<instance> to an address already recorded in the registry.
domain: community-domain
modules:
  - module: timelock
    instance: 1
    method: initializeTimelock
    args:
      - "3600"
      - "[${PROPOSER}]"
      - "[0x0000000000000000000000000000000000000000]"
  - module: governor
    instance: 1
    method: initialize
    args:
      - "1"
      - "Community DAO"
      - "${VOTES_TOKEN}"
      - "predict:timelock:1"
      - "1"
      - "50400"
      - "0"
      - "4"
      - "7200"
`

const envExample = `# zdao configuration

# Default domain for every command
ZDAO_DOMAIN=

# Sender account name or address
ZDAO_FROM=admin

# Log level (debug, info, warn, error)
ZDAO_LOG_LEVEL=info

# Referenced by plans/example.yaml
PROPOSER=
VOTES_TOKEN=
`
