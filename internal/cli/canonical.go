package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewCanonicalCmd creates the canonical command group
func NewCanonicalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonical",
		Short: "Show or promote the canonical instance of a module",
		Long: `Every (domain, module) pair has at most one canonical instance, the one
integrations should use. Promotion requires ADMIN_ROLE.`,
	}

	cmd.AddCommand(NewCanonicalGetCmd())
	cmd.AddCommand(NewCanonicalPromoteCmd())

	return cmd
}

// NewCanonicalGetCmd creates the canonical get subcommand
func NewCanonicalGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <module>",
		Short:   "Show the canonical instance of a module",
		Example: `  zdao canonical get governor`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			view, err := app.GetCanonical.Run(cmd.Context(), usecase.GetCanonicalParams{Module: args[0]})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), view)
			}
			return render.NewInstancesRenderer(cmd.OutOrStdout(), app.Config).RenderCanonical(view)
		},
	}
}

// NewCanonicalPromoteCmd creates the canonical promote subcommand
func NewCanonicalPromoteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "promote <module> <instance>",
		Short: "Promote a recorded instance to canonical",
		Long: `Promote a recorded instance to canonical for the selected domain. The
previous canonical instance stays recorded. Promoting the instance that is
already canonical does nothing.`,
		Example: `  zdao canonical promote governor 2
  zdao canonical promote timelock 1 --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			instance, err := domain.ParseInstanceID(args[1])
			if err != nil {
				return err
			}

			result, err := app.PromoteCanonical.Run(cmd.Context(), usecase.PromoteCanonicalParams{
				Module:   args[0],
				Instance: instance,
				Yes:      yes,
			})
			if errors.Is(err, usecase.ErrCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Promotion cancelled"))
				return nil
			}
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewInstancesRenderer(cmd.OutOrStdout(), app.Config).RenderPromote(result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
