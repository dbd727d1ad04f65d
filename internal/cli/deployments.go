package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls", "list"},
		Short:   "List recorded Splitter deployments",
		Example: `  splitter deployments
  splitter deployments --network rinkeby --status failed`,
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

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Network: app.Config.NetworkName,
				Status:  domain.VerificationStatus(strings.ToUpper(status)),
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), format).Render(result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by verification status (verified, partial, failed, unverified, skipped)")
	cmd.Flags().String("format", "", "Output format: table, json or yaml")

	return cmd
}
