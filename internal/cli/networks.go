package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List the recognized network profiles",
		Long: `List every network profile with whether it is local, whether it supports
verification, how many payees each variant uses and the RPC endpoint it resolves to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, app)
			if err != nil {
				return err
			}

			// Run use case
			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout(), format).Render(result)
		},
	}

	return cmd
}
