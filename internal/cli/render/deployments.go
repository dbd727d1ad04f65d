package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// DeploymentsRenderer renders the deployment registry
type DeploymentsRenderer struct {
	out    io.Writer
	format Format
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format Format) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out, format: format}
}

// Render renders recorded deployments, newest first
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	records := result.Deployments
	if records == nil {
		records = []*domain.DeploymentRecord{}
	}
	if done, err := write(r.out, r.format, records); done {
		return err
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Network", "Variant", "Address", "Payees", "Verification", "Deployed"})
	for _, d := range result.Deployments {
		t.AppendRow(table.Row{
			labelStyle.Sprint(d.Network),
			d.Variant,
			addressStyle.Sprint(d.Address),
			len(d.Payees),
			statusStyle(d.Verification.Status).Sprint(d.Verification.Status),
			timestampStyle.Sprint(d.DeployedAt.Local().Format(time.DateTime)),
		})
	}
	t.Render()

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total: %d", len(result.Deployments))
	for _, status := range []domain.VerificationStatus{
		domain.VerificationStatusVerified,
		domain.VerificationStatusPartial,
		domain.VerificationStatusFailed,
		domain.VerificationStatusUnverified,
		domain.VerificationStatusSkipped,
	} {
		if n := result.ByStatus[status]; n > 0 {
			fmt.Fprintf(r.out, "  %s: %d", status, n)
		}
	}
	fmt.Fprintln(r.out)
	return nil
}
