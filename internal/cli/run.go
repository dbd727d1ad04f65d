package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
	"github.com/trebuchet-org/splitter-cli/internal/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"deploy"},
		Short:   "Deploy the Splitter contract and verify it",
		Long: `Resolve payees and shares for the network, deploy the Splitter contract once,
record it in .splitter/deployments.json and, on public networks, verify it on
Etherscan and Sourcify.

A verification failure does not undo the deployment: the address is reported
and the command exits 0 unless --require-verification is set.`,
		Example: `  # Deploy the relayer variant to a local node
  splitter run --network hardhat

  # Deploy the plain variant to rinkeby without prompting
  splitter run --network rinkeby --variant plain --non-interactive

  # Fail the command when verification fails
  splitter run -n rinkeby --require-verification`,
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

			network := app.Config.NetworkName
			if network == "" {
				if app.Config.NonInteractive || app.Config.JSON {
					return fmt.Errorf("--network is required in non-interactive mode")
				}
				profile, err := app.Selector.SelectNetwork(cmd.Context())
				if err != nil {
					return err
				}
				network = profile.String()
			}

			result, err := app.DeploySplitter.Run(cmd.Context(), usecase.DeploySplitterParams{
				Network:    network,
				Variant:    app.Config.VariantName,
				SkipVerify: skipVerify,
			})
			if errors.Is(err, usecase.ErrDeploymentCancelled) {
				fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning("Deployment cancelled"))
				return nil
			}

			// the result is rendered even when --require-verification turns a
			// verification failure into a command error
			if renderErr := render.NewDeployRenderer(cmd.OutOrStdout(), format).Render(result); renderErr != nil && err == nil {
				err = renderErr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&skipVerify, config.KeySkipVerify, false, "Skip explorer verification")
	cmd.Flags().Bool(config.KeyRequireVerification, false, "Exit non-zero when verification fails")
	cmd.Flags().String("format", "", "Output format: text, json or yaml")

	return cmd
}
