package cli

import (
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewRoleCmd creates the role command group
func NewRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "role",
		Aliases: []string{"roles"},
		Short:   "Manage registry roles",
		Long: `Grant, revoke and check registry roles.

Roles:
  DEFAULT_ADMIN_ROLE   administers every other role
  ADMIN_ROLE           manages the catalog and promotes canonical instances
  FACTORY_ROLE         records instances (held by the factory)`,
	}

	cmd.AddCommand(newRoleActionCmd(usecase.RoleActionGrant, "Grant a role to an account"))
	cmd.AddCommand(newRoleActionCmd(usecase.RoleActionRevoke, "Revoke a role from an account"))
	cmd.AddCommand(newRoleActionCmd(usecase.RoleActionCheck, "Check whether an account has a role"))

	return cmd
}

func newRoleActionCmd(action usecase.RoleAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:     string(action) + " <role> <account>",
		Short:   short,
		Example: "  zdao role " + string(action) + " admin 0x00000000000000000000000000000000000a11ce",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageRoles.Run(cmd.Context(), usecase.ManageRolesParams{
				Action:  action,
				Role:    args[0],
				Account: args[1],
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewRolesRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
