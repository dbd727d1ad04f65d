package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	addressStyle   = color.New(color.FgWhite)
	timestampStyle = color.New(color.Faint)
	labelStyle     = color.New(color.FgCyan)
	verifiedStyle  = color.New(color.FgGreen)
	failedStyle    = color.New(color.FgRed)
	pendingStyle   = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatCommandError renders err as "Error (<kind>): msg", or "Error: msg" when untagged
func FormatCommandError(err error) string {
	var tagged *domain.Error
	if errors.As(err, &tagged) {
		return fmt.Sprintf("Error (%s): %s", tagged.Kind, err.Error())
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// PrintError writes the command error to out
func PrintError(out io.Writer, err error) {
	color.New(color.FgRed).Fprintln(out, FormatCommandError(err))
}

// title capitalizes a verifier or network name
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// statusStyle picks the color for a verification status
func statusStyle(status domain.VerificationStatus) *color.Color {
	switch status {
	case domain.VerificationStatusVerified:
		return verifiedStyle
	case domain.VerificationStatusFailed:
		return failedStyle
	case domain.VerificationStatusPartial, domain.VerificationStatusUnverified:
		return pendingStyle
	default:
		return timestampStyle
	}
}

// newTable returns a borderless table writer in the house style
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.Style().Format.Header = text.FormatUpper
	return t
}

// payeeTable renders payees and shares as indexed rows
func payeeTable(out io.Writer, payees []domain.PayeeShare) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Payee", "Share"})
	for i, p := range payees {
		t.AppendRow(table.Row{i + 1, addressStyle.Sprint(p.Payee), p.Share})
	}
	t.Render()
}

// verifierLines prints one line per verifier outcome
func verifierLines(out io.Writer, verifiers map[string]domain.VerifierStatus) {
	names := lo.Keys(verifiers)
	sort.Strings(names)
	for _, name := range names {
		status := verifiers[name]
		switch status.Status {
		case "verified":
			verifiedStyle.Fprintf(out, "  %s: ✓ Verified", title(name))
			if status.URL != "" {
				fmt.Fprintf(out, " - %s", status.URL)
			}
		case "failed":
			failedStyle.Fprintf(out, "  %s: ✗ Failed", title(name))
			if status.Reason != "" {
				fmt.Fprintf(out, " - %s", status.Reason)
			}
		default:
			pendingStyle.Fprintf(out, "  %s: %s", title(name), status.Status)
		}
		fmt.Fprintln(out)
	}
}
