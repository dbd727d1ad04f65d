package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/adapters/anvil"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
)

// NewNodeCmd creates the node command group for the local anvil node
func NewNodeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node used by the hardhat profile",
		Long: `Start, stop and inspect a local anvil node. The hardhat profile deploys to
http://127.0.0.1:8545 unless foundry.toml overrides it, so 'splitter node start'
is all a local run needs.`,
	}
	cmd.PersistentFlags().StringVar(&port, "port", anvil.DefaultPort, "Port for the node to listen on")

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the node in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			node := app.Node.Node(port)
			if err := app.Node.Start(cmd.Context(), node); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Anvil started on %s", node.RPCURL())))
			fmt.Fprintf(cmd.OutOrStdout(), "📋 Logs: %s\n", node.LogFile)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := app.Node.Stop(cmd.Context(), app.Node.Node(port)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Anvil stopped"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the node is running and answering RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			status := app.Node.Status(cmd.Context(), app.Node.Node(port))
			out := cmd.OutOrStdout()

			if !status.Running {
				color.New(color.FgRed).Fprintln(out, "Status: 🔴 Not running")
				return nil
			}
			color.New(color.FgGreen).Fprintf(out, "Status: 🟢 Running (PID %d)\n", status.PID)
			fmt.Fprintf(out, "RPC URL: %s\n", status.RPCURL)
			fmt.Fprintf(out, "Log file: %s\n", status.LogFile)
			if status.HealthErr != nil {
				color.New(color.FgRed).Fprintf(out, "RPC Health: ❌ Not responding (%v)\n", status.HealthErr)
			} else {
				color.New(color.FgGreen).Fprintf(out, "RPC Health: ✅ Chain ID %d\n", status.ChainID)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logs",
		Short: "Print the node log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(app.Node.Node(port).LogFile)
			if err != nil {
				return fmt.Errorf("failed to read node log: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return cmd
}
