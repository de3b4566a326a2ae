package cli

import (
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a zdao project",
		Long: `Initialize a zdao project in the current directory by creating zdao.toml,
the .zdao data directory, an example deployment plan and .env.example.
Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd)
		},
	}

	return cmd
}

// runInit executes the init command
func runInit(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	renderer := render.NewInitRenderer(cmd.OutOrStdout())
	result, err := app.InitProject.Run(cmd.Context())
	if err != nil {
		// Still render partial results even on error
		if result != nil {
			_ = renderer.Render(result)
		}
		return err
	}

	if app.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), result)
	}
	return renderer.Render(result)
}
