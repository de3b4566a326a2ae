package cli

import (
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewInstanceCmd creates the instance command group
func NewInstanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "instance",
		Aliases: []string{"instances", "i"},
		Short:   "Inspect recorded module instances",
		Long: `Inspect the instance registry. Every clone created by deployModules is
recorded under (domain, module, instance) and never overwritten.`,
	}

	cmd.AddCommand(NewInstanceGetCmd())
	cmd.AddCommand(NewInstanceListCmd())

	return cmd
}

// NewInstanceGetCmd creates the instance get subcommand
func NewInstanceGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <module> <instance>",
		Aliases: []string{"show"},
		Short:   "Show one instance record",
		Example: `  zdao instance get governor 1
  zdao instance get 2 1 --domain 0x6c1f...`,
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

			view, err := app.GetInstance.Run(cmd.Context(), usecase.InstanceParams{
				Module:   args[0],
				Instance: instance,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), view)
			}
			return render.NewInstancesRenderer(cmd.OutOrStdout(), app.Config).RenderInstance(view)
		},
	}
}

// NewInstanceListCmd creates the instance list subcommand
func NewInstanceListCmd() *cobra.Command {
	var (
		module     string
		allDomains bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded instances",
		Long: `List the instances recorded in the registry for the selected domain,
grouped by domain and ordered by module and instance id. The canonical
instance of each module is marked.`,
		Example: `  zdao instance list
  zdao instance list --module governor
  zdao instance list --all-domains --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListInstances.Run(cmd.Context(), usecase.ListInstancesParams{
				Module:     module,
				AllDomains: allDomains,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result.Instances)
			}
			return render.NewInstancesRenderer(cmd.OutOrStdout(), app.Config).RenderList(result)
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "Only list instances of this module")
	cmd.Flags().BoolVar(&allDomains, "all-domains", false, "List instances of every domain")

	return cmd
}
