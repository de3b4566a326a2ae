package cli

import (
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "deploy <plan>",
		Short: "Deploy a batch of module clones from a plan",
		Long: `Deploy every module of a YAML deployment plan as one atomic deployModules
batch. Either all clones are created and recorded or none are.

Initializer arguments may reference other clones of the batch:
  predict:<module>:<instance>    address the clone will receive
  instance:<module>:<instance>   address already recorded in the registry`,
		Example: `  zdao deploy plans/example.yaml
  zdao deploy plans/example.yaml --dry-run --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployModules.Run(cmd.Context(), usecase.DeployModulesParams{
				PlanPath: args[0],
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config).Render(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Encode the batch and predict addresses without sending it")

	return cmd
}
