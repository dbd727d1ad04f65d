package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// PlanRenderer renders a deployment plan
type PlanRenderer struct {
	out    io.Writer
	format Format
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer, format Format) *PlanRenderer {
	return &PlanRenderer{out: out, format: format}
}

// Render renders the plan
func (r *PlanRenderer) Render(plan *usecase.DeploymentPlan) error {
	if done, err := write(r.out, r.format, plan); done {
		return err
	}

	headerStyle.Fprintf(r.out, "Deployment plan for %s\n\n", labelStyle.Sprint(title(plan.Network.String())))
	fmt.Fprintf(r.out, "  Variant: %s\n", plan.Variant)
	if plan.RelayerShare != "" {
		fmt.Fprintf(r.out, "  Relayer share: %s\n", plan.RelayerShare)
	}
	verify := "no"
	if plan.Verify {
		verify = "yes"
	}
	fmt.Fprintf(r.out, "  Verify: %s\n\n", verify)

	payeeTable(r.out, plan.Payees)

	if len(plan.ConfigKeys) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, timestampStyle.Sprint("Configuration keys: "))
		for _, key := range plan.ConfigKeys {
			fmt.Fprintf(r.out, "  %s\n", key)
		}
	}
	return nil
}
