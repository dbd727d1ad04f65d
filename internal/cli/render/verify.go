package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out    io.Writer
	format Format
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer, format Format) *VerifyRenderer {
	return &VerifyRenderer{out: out, format: format}
}

// Render renders the result of verifying one deployment
func (r *VerifyRenderer) Render(result *usecase.VerifyDeploymentResult) error {
	if result == nil || result.Deployment == nil {
		return nil
	}
	record := domain.NewDeploymentRecord(result.Deployment)
	if done, err := write(r.out, r.format, record); done {
		return err
	}

	source := "configuration"
	if result.FromRegistry {
		source = "registry"
	}
	fmt.Fprintf(r.out, "%s %s on %s (arguments from %s)\n",
		headerStyle.Sprint(domain.SplitterContractName),
		addressStyle.Sprint(record.Address),
		labelStyle.Sprint(record.Network),
		source)
	renderVerification(r.out, result.Deployment.Verification)
	if result.RecordErr != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Registry was not updated: %v", result.RecordErr)))
	}
	return nil
}

// RenderCommands prints the forge commands a verification would run
func (r *VerifyRenderer) RenderCommands(commands []string) error {
	if done, err := write(r.out, r.format, commands); done {
		return err
	}
	for _, c := range commands {
		fmt.Fprintln(r.out, c)
	}
	return nil
}
