package cli

import (
	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/cli/render"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <module> <instance>",
		Short: "Predict the address of a module clone",
		Long: `Predict the address deployModules gives the clone of a module for the
selected domain and instance id. The address depends on the current
implementation in the catalog, so it changes when the module is replaced.`,
		Example: `  zdao predict governor 1
  zdao predict timelock 2 --domain other-domain`,
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

			result, err := app.PredictAddress.Run(cmd.Context(), usecase.PredictAddressParams{
				Module:   args[0],
				Instance: instance,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config).RenderPrediction(result)
		},
	}
}
