package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var dumpCommand bool

	cmd := &cobra.Command{
		Use:   "verify <address>",
		Short: "Verify an already deployed Splitter",
		Long: `Verify a deployed Splitter on Etherscan and Sourcify without redeploying it.

Constructor arguments come from the deployment registry when the address was
recorded by 'splitter run', otherwise they are resolved from configuration.`,
		Example: `  splitter verify 0x5FbDB2315678afecb367f032d93F642f64180aa3 --network rinkeby

  # Print the forge commands instead of running them
  splitter verify 0x5FbD... -n rinkeby --dump-command`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, app)
			if err != nil {
				return err
			}
			renderer := render.NewVerifyRenderer(cmd.OutOrStdout(), format)

			if dumpCommand {
				commands, err := dumpVerifyCommands(cmd, args[0])
				if err != nil {
					return err
				}
				return renderer.RenderCommands(commands)
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), usecase.VerifyDeploymentParams{
				Network: app.Config.NetworkName,
				Variant: app.Config.VariantName,
				Address: args[0],
			})
			if renderErr := renderer.Render(result); renderErr != nil && err == nil {
				err = renderErr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dumpCommand, "dump-command", false, "Print the forge verify-contract commands without running them")
	cmd.Flags().String("format", "", "Output format: text, json or yaml")

	return cmd
}

// dumpVerifyCommands resolves constructor arguments from configuration and
// returns the forge commands that verification would run
func dumpVerifyCommands(cmd *cobra.Command, address string) ([]string, error) {
	app, err := getApp(cmd)
	if err != nil {
		return nil, err
	}
	variant, err := domain.ParseContractVariant(app.Config.VariantName)
	if err != nil {
		return nil, err
	}
	params, err := app.ResolveParameters.Resolve(cmd.Context(), app.Config.NetworkName, variant)
	if err != nil {
		return nil, err
	}
	return app.Verifier.DumpVerifyCommands(cmd.Context(), &domain.DeploymentResult{
		Address: address,
		Network: params.Network,
		Args:    params.Args,
	})
}
