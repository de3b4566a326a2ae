package cli

import (
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewBootstrapCmd creates the bootstrap command
func NewBootstrapCmd() *cobra.Command {
	var admin string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Deploy the registry, the factory and the module implementations",
		Long: `Deploy the instance registry and the module factory, grant FACTORY_ROLE to
the factory and register one implementation per module configured in
zdao.toml. Running bootstrap again shows the existing deployment.`,
		Example: `  zdao bootstrap
  zdao bootstrap --admin 0x00000000000000000000000000000000000a11ce`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var params usecase.BootstrapParams
			if admin != "" {
				if params.Admin, err = app.Config.Project.ResolveAccount(admin); err != nil {
					return err
				}
			}

			result, err := app.Bootstrap.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewBootstrapRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&admin, "admin", "", "Registry admin account name or address (defaults to the sender)")

	return cmd
}
