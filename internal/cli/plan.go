package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the constructor parameters a run would deploy",
		Long: `Resolve payees, shares and the relayer share for a network exactly like
'splitter run' does, without connecting to the chain.`,
		Example: `  splitter plan --network rinkeby
  splitter plan -n hardhat --variant plain --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, app)
			if err != nil {
				return err
			}

			plan, err := app.PlanDeployment.Run(cmd.Context(), usecase.PlanDeploymentParams{
				Network: app.Config.NetworkName,
				Variant: app.Config.VariantName,
			})
			if err != nil {
				return err
			}

			return render.NewPlanRenderer(cmd.OutOrStdout(), format).Render(plan)
		},
	}

	cmd.Flags().String("format", "", "Output format: table, json or yaml")

	return cmd
}
