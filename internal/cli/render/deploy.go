package render

import (
	"fmt"
	"io"

	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// DeployRenderer renders deployModules batches and address predictions
type DeployRenderer struct {
	out    io.Writer
	config *config.RuntimeConfig
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, cfg *config.RuntimeConfig) *DeployRenderer {
	return &DeployRenderer{out: out, config: cfg}
}

// Render prints the clones of a batch
func (r *DeployRenderer) Render(result *usecase.DeployModulesResult) error {
	if result.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run, nothing was sent"))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %d module(s) in one batch", len(result.Modules))))
	}
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Domain:"), DomainLabel(r.config, result.Domain))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("From:  "), result.From.Hex())
	fmt.Fprintln(r.out)

	data := TableData{{
		labelStyle.Sprint("MODULE"),
		labelStyle.Sprint("INSTANCE"),
		labelStyle.Sprint("ADDRESS"),
		labelStyle.Sprint("INITIALIZER"),
	}}
	for _, m := range result.Modules {
		method := m.Method
		if method == "" {
			method = mutedStyle.Sprintf("raw (%d bytes)", len(m.Payload))
		}
		data = append(data, []string{m.Name, m.Key.InstanceID.String(), addressStyle.Sprint(m.Address.Hex()), method})
	}
	fmt.Fprint(r.out, renderTableWithWidths(data, calculateTableColumnWidths([]TableData{data}), ""))
	fmt.Fprintln(r.out)

	if result.Tx != nil {
		fmt.Fprintln(r.out)
		renderTx(r.out, result.Tx)
	}
	return nil
}

// RenderPrediction prints a predicted clone address
func (r *DeployRenderer) RenderPrediction(result *usecase.PredictAddressResult) error {
	fmt.Fprintf(r.out, "%s %s / %s / %d\n",
		labelStyle.Sprint("Instance:"),
		DomainLabel(r.config, result.Key.Domain),
		result.Name,
		result.Key.InstanceID)
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Address: "), addressStyle.Sprint(result.Address.Hex()))

	switch {
	case result.Deployed && result.Recorded != result.Address:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Already deployed at %s by an earlier implementation", result.Recorded.Hex())))
	case result.Deployed:
		fmt.Fprintln(r.out, FormatWarning("Already deployed"))
	default:
		mutedStyle.Fprintln(r.out, "Not deployed yet")
	}
	return nil
}
