package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewModuleCmd creates the module command group
func NewModuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "module",
		Aliases: []string{"modules"},
		Short:   "Manage the module catalog",
		Long: `Manage the module catalog of the registry. Each module id points to the
implementation that new clones are created from.

When run without subcommands, lists the catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModuleList(cmd)
		},
	}

	cmd.AddCommand(NewModuleListCmd())
	cmd.AddCommand(NewModuleSetCmd())

	return cmd
}

// NewModuleListCmd creates the module list subcommand
func NewModuleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered module implementations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModuleList(cmd)
		},
	}
}

func runModuleList(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	entries, err := app.ShowCatalog.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), entries)
	}
	return render.NewCatalogRenderer(cmd.OutOrStdout()).Render(entries)
}

// NewModuleSetCmd creates the module set subcommand
func NewModuleSetCmd() *cobra.Command {
	var (
		implementation string
		logic          string
	)

	cmd := &cobra.Command{
		Use:   "set <module>",
		Short: "Register or replace the implementation of a module",
		Long: `Register or replace the implementation of a module id. Requires ADMIN_ROLE.

Without --implementation a fresh implementation of --logic (or of the logic
configured for the module in zdao.toml) is deployed and registered.
Existing clones keep pointing at the implementation they were created from.`,
		Example: `  zdao module set governor
  zdao module set treasury --logic TreasuryUpgradeable
  zdao module set 3 --implementation 0x1234...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.SetModuleParams{
				Module: args[0],
				Logic:  logic,
			}
			if implementation != "" {
				if !common.IsHexAddress(implementation) {
					return fmt.Errorf("invalid implementation address: %s", implementation)
				}
				params.Implementation = common.HexToAddress(implementation)
			}

			result, err := app.SetModule.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewCatalogRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}

	cmd.Flags().StringVar(&implementation, "implementation", "", "Register an already deployed implementation")
	cmd.Flags().StringVar(&logic, "logic", "", "Contract logic to deploy (e.g. ZDAOUpgradeable)")

	return cmd
}
