package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// DeployOutput is the structured form of a run result
type DeployOutput struct {
	Deployment        *domain.DeploymentRecord `json:"deployment" yaml:"deployment"`
	Verified          bool                     `json:"verified" yaml:"verified"`
	VerificationError string                   `json:"verificationError,omitempty" yaml:"verificationError,omitempty"`
	RecordError       string                   `json:"recordError,omitempty" yaml:"recordError,omitempty"`
}

// NewDeployOutput flattens a run result
func NewDeployOutput(result *usecase.DeploySplitterResult) *DeployOutput {
	out := &DeployOutput{
		Deployment: domain.NewDeploymentRecord(result.Deployment),
		Verified:   result.Verified(),
	}
	if result.VerificationErr != nil {
		out.VerificationError = result.VerificationErr.Error()
	}
	if result.RecordErr != nil {
		out.RecordError = result.RecordErr.Error()
	}
	return out
}

// DeployRenderer renders the outcome of `splitter run`
type DeployRenderer struct {
	out    io.Writer
	format Format
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, format Format) *DeployRenderer {
	return &DeployRenderer{out: out, format: format}
}

// Render reports deployment and verification as separate outcomes
func (r *DeployRenderer) Render(result *usecase.DeploySplitterResult) error {
	if result == nil || result.Deployment == nil {
		return nil
	}
	output := NewDeployOutput(result)
	if done, err := write(r.out, r.format, output); done {
		return err
	}

	d := result.Deployment
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed to: %s", domain.SplitterContractName, d.Address)))
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Network:  %s (chain %d)\n", labelStyle.Sprint(d.Network), d.ChainID)
	fmt.Fprintf(r.out, "  Variant:  %s\n", d.Args.Variant())
	fmt.Fprintf(r.out, "  Tx Hash:  %s\n", d.TxHash)
	if d.BlockNumber > 0 {
		fmt.Fprintf(r.out, "  Block:    %d\n", d.BlockNumber)
	}
	if d.Deployer != "" {
		fmt.Fprintf(r.out, "  Deployer: %s\n", addressStyle.Sprint(d.Deployer))
	}
	if relayer, ok := d.Args.(domain.RelayerSplitterArgs); ok {
		fmt.Fprintf(r.out, "  Relayer share: %s\n", relayer.RelayerShare)
	}
	fmt.Fprintln(r.out)
	payeeTable(r.out, output.Deployment.Payees)
	fmt.Fprintln(r.out)

	renderVerification(r.out, d.Verification)
	if result.VerificationErr != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verification failed, the contract is deployed: %v", result.VerificationErr)))
	}
	if result.RecordErr != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Deployment was not recorded: %v", result.RecordErr)))
	}
	return nil
}

func renderVerification(out io.Writer, info domain.VerificationInfo) {
	headerStyle.Fprint(out, "Verification: ")
	statusStyle(info.Status).Fprintln(out, info.Status)
	if info.Reason != "" && info.Status != domain.VerificationStatusVerified {
		fmt.Fprintf(out, "  Reason: %s\n", info.Reason)
	}
	verifierLines(out, info.Verifiers)
}
