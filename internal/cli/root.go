package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/splitter-cli/internal/app"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
	"github.com/trebuchet-org/splitter-cli/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// skipsApp lists commands that run without project configuration
var skipsApp = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splitter",
		Short: "Deploy and verify Splitter payment contracts",
		Long: `splitter deploys the Splitter payment-splitting contract to a named network
profile and verifies it on the block explorer.

Payees and shares come from the local node accounts on hardhat and from
PAYEE_<NETWORK>_<n>, SHARE_<NETWORK>_<n> and RELAYER_SHARE_<NETWORK> in .env
on public networks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp[cmd.Name()] {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString(config.KeyProjectRoot)
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			// Set up viper; flags are bound so that only changed flags override
			v, err := config.SetupViper(projectRoot, cmd.Flags())
			if err != nil {
				return err
			}

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP(config.KeyNetwork, "n", "", "Network profile to use (hardhat, rinkeby)")
	flags.String(config.KeyVariant, "relayer", "Contract variant: relayer or plain")
	flags.Bool(config.KeyDebug, false, "Enable debug output")
	flags.Bool(config.KeyNonInteractive, false, "Disable interactive prompts")
	flags.Bool(config.KeyJSON, false, "Output results as JSON")
	flags.Duration(config.KeyDeployTimeout, 5*time.Minute, "Timeout for sending and mining the creation transaction")
	flags.Duration(config.KeyVerifyTimeout, 3*time.Minute, "Timeout for explorer verification")
	flags.String(config.KeyArtifact, "", "Path to the compiled Splitter artifact (default <out>/Splitter.sol/Splitter.json)")
	flags.String(config.KeyContractPath, "", "Forge contract identifier used for verification (default <src>/Splitter.sol:Splitter)")
	flags.String(config.KeyProjectRoot, "", "Project root (default: nearest directory with foundry.toml or .env)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	runCmd := NewRunCmd()
	runCmd.GroupID = "main"
	rootCmd.AddCommand(runCmd)

	verifyCmd := NewVerifyCmd()
	verifyCmd.GroupID = "main"
	rootCmd.AddCommand(verifyCmd)

	planCmd := NewPlanCmd()
	planCmd.GroupID = "main"
	rootCmd.AddCommand(planCmd)

	// Management commands
	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "management"
	rootCmd.AddCommand(deploymentsCmd)

	nodeCmd := NewNodeCmd()
	nodeCmd.GroupID = "management"
	rootCmd.AddCommand(nodeCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// outputFormat resolves --format against the global --json flag
func outputFormat(cmd *cobra.Command, a *app.App) (render.Format, error) {
	if f := cmd.Flag("format"); f != nil && f.Changed {
		return render.ParseFormat(f.Value.String())
	}
	if a.Config.JSON {
		return render.FormatJSON, nil
	}
	return render.FormatText, nil
}
