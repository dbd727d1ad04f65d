package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/splitter-cli/internal/domain"
	"github.com/trebuchet-org/splitter-cli/internal/usecase"
)

// NetworkOutput is the structured form of one network row
type NetworkOutput struct {
	Name                 string `json:"name" yaml:"name"`
	Local                bool   `json:"local" yaml:"local"`
	SupportsVerification bool   `json:"supportsVerification" yaml:"supportsVerification"`
	RelayerPayees        int    `json:"relayerPayees" yaml:"relayerPayees"`
	PlainPayees          int    `json:"plainPayees" yaml:"plainPayees"`
	RPCURL               string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	Error                string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	format Format
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, format Format) *NetworksRenderer {
	return &NetworksRenderer{out: out, format: format}
}

// Render renders the list of recognized networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	rows := make([]NetworkOutput, 0, len(result.Networks))
	for _, n := range result.Networks {
		row := NetworkOutput{
			Name:                 n.Profile.String(),
			Local:                n.Local,
			SupportsVerification: n.SupportsVerification,
			RelayerPayees:        n.PayeeSlots[domain.VariantRelayer],
			PlainPayees:          n.PayeeSlots[domain.VariantPlain],
			RPCURL:               n.RPCURL,
		}
		if n.Error != nil {
			row.Error = n.Error.Error()
		}
		rows = append(rows, row)
	}
	if done, err := write(r.out, r.format, rows); done {
		return err
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"", "Network", "Kind", "Verify", "Payees (relayer/plain)", "RPC"})
	for _, row := range rows {
		icon := "✅"
		rpc := row.RPCURL
		if row.Error != "" {
			icon = "❌"
			rpc = failedStyle.Sprint(row.Error)
		}
		kind := "public"
		if row.Local {
			kind = "local"
		}
		verify := "-"
		if row.SupportsVerification {
			verify = "yes"
		}
		t.AppendRow(table.Row{icon, labelStyle.Sprint(row.Name), kind, verify,
			fmt.Sprintf("%d/%d", row.RelayerPayees, row.PlainPayees), rpc})
	}
	t.Render()
	return nil
}
