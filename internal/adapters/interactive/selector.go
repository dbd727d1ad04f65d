package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/domain/config"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompting is disabled
var ErrNonInteractive = errors.New("interactive selection not available in non-interactive mode")

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// ConfirmDeployment shows the resolved parameters and asks before broadcasting.
// Non-interactive runs are treated as confirmed.
func (s *SelectorAdapter) ConfirmDeployment(_ context.Context, params *domain.DeploymentParameters, deployer *domain.DeployerAccount) (bool, error) {
	if s.config.NonInteractive || s.config.JSON {
		return true, nil
	}

	fmt.Println(FormatParameters(params, deployer))

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Deploy %s to %s", domain.SplitterContractName, params.Network),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// SelectNetwork asks for one of the recognized network profiles
func (s *SelectorAdapter) SelectNetwork(_ context.Context) (domain.NetworkProfile, error) {
	if s.config.NonInteractive {
		return "", ErrNonInteractive
	}

	profiles := domain.KnownNetworkProfiles()
	options := formatNetworkOptions(profiles)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select network",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: len(options) > 5,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return profiles[index], nil
}

// FormatParameters renders the resolved constructor arguments for a confirmation prompt
func FormatParameters(params *domain.DeploymentParameters, deployer *domain.DeployerAccount) string {
	var b strings.Builder
	bold := color.New(color.Bold)

	fmt.Fprintf(&b, "%s %s (%s)\n", bold.Sprint("Network:"), params.Network, params.Network.Description())
	fmt.Fprintf(&b, "%s %s\n", bold.Sprint("Variant:"), params.Variant())
	if deployer != nil {
		fmt.Fprintf(&b, "%s %s\n", bold.Sprint("Deployer:"), deployer.Address)
	}
	if relayer, ok := params.RelayerShare(); ok {
		fmt.Fprintf(&b, "%s %s\n", bold.Sprint("Relayer share:"), relayer)
	}
	payees, shares := params.Args.Payees(), params.Args.Shares()
	for i := range payees {
		fmt.Fprintf(&b, "  %d. %s  %s\n", i+1, payees[i], color.New(color.FgYellow).Sprint(shares[i]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNetworkOptions(profiles []domain.NetworkProfile) []string {
	options := make([]string, len(profiles))
	for i, p := range profiles {
		name := color.New(color.FgWhite, color.Bold).Sprint(p.String())
		options[i] = fmt.Sprintf("%s (%s)", name, color.New(color.FgBlue).Sprint(p.Description()))
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.DeployConfirmer = (*SelectorAdapter)(nil)
