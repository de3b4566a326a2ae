package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

var (
	domainHeader     = color.New(color.BgYellow, color.FgBlack)
	domainHeaderBold = color.New(color.BgYellow, color.FgBlack, color.Bold)
	canonicalStyle   = color.New(color.FgCyan, color.Bold)
)

// InstancesRenderer renders instance records grouped by domain
type InstancesRenderer struct {
	out    io.Writer
	config *config.RuntimeConfig
}

// NewInstancesRenderer creates a new instances renderer
func NewInstancesRenderer(out io.Writer, cfg *config.RuntimeConfig) *InstancesRenderer {
	return &InstancesRenderer{out: out, config: cfg}
}

// RenderList prints one section per domain
func (r *InstancesRenderer) RenderList(result *usecase.ListInstancesResult) error {
	if len(result.Instances) == 0 {
		fmt.Fprintln(r.out, "No instances found")
		return nil
	}

	groups := make(map[domain.Domain][]usecase.InstanceView)
	var order []domain.Domain
	for _, v := range result.Instances {
		if _, ok := groups[v.Key.Domain]; !ok {
			order = append(order, v.Key.Domain)
		}
		groups[v.Key.Domain] = append(groups[v.Key.Domain], v)
	}

	tables := make([]TableData, len(order))
	for i, d := range order {
		tables[i] = r.buildTable(groups[d])
	}
	widths := calculateTableColumnWidths(tables)

	for i, d := range order {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintf(r.out, "%s%s\n",
			domainHeader.Sprint(" ◎ domain: "),
			domainHeaderBold.Sprintf("%s ", strings.ToUpper(DomainLabel(r.config, d))))
		fmt.Fprint(r.out, renderTableWithWidths(tables[i], widths, "  "))
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out)
	r.renderSummary(result.Summary)
	return nil
}

func (r *InstancesRenderer) buildTable(views []usecase.InstanceView) TableData {
	data := make(TableData, 0, len(views))
	for _, v := range views {
		marker := ""
		if v.Current {
			marker = canonicalStyle.Sprint("★ canonical")
		}
		data = append(data, []string{
			v.Name,
			"#" + v.Key.InstanceID.String(),
			v.Address.Hex(),
			marker,
		})
	}
	return data
}

func (r *InstancesRenderer) renderSummary(summary usecase.InstanceSummary) {
	names := make([]string, 0, len(summary.ByModule))
	for name := range summary.ByModule {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, summary.ByModule[name])
	}

	fmt.Fprintf(r.out, "Total instances: %d (%d canonical) across %d domain(s)\n",
		summary.Total, summary.Canonical, len(summary.ByDomain))
	if len(parts) > 0 {
		mutedStyle.Fprintln(r.out, strings.Join(parts, ", "))
	}
}

// RenderInstance prints a single record
func (r *InstancesRenderer) RenderInstance(view *usecase.InstanceView) error {
	fmt.Fprintf(r.out, "%s %s / %s / %d\n",
		labelStyle.Sprint("Instance: "),
		DomainLabel(r.config, view.Key.Domain),
		view.Name,
		view.Key.InstanceID)
	if !view.Deployed {
		fmt.Fprintln(r.out, FormatWarning("Not deployed"))
		return nil
	}
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Address:  "), addressStyle.Sprint(view.Address.Hex()))
	fmt.Fprintf(r.out, "%s %t\n", labelStyle.Sprint("Canonical:"), view.Current)
	return nil
}

// RenderCanonical prints the canonical instance of a module
func (r *InstancesRenderer) RenderCanonical(view *usecase.InstanceView) error {
	label := fmt.Sprintf("%s / %s", DomainLabel(r.config, view.Key.Domain), view.Name)
	if !view.Deployed {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No canonical instance for %s", label)))
		return nil
	}
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Module:   "), label)
	fmt.Fprintf(r.out, "%s #%d\n", labelStyle.Sprint("Canonical:"), view.Key.InstanceID)
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Address:  "), addressStyle.Sprint(view.Address.Hex()))
	return nil
}

// RenderPromote prints the canonical pointer after a promotion
func (r *InstancesRenderer) RenderPromote(result *usecase.PromoteCanonicalResult) error {
	if !result.Changed {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s #%d is already canonical", result.Name, result.Key.InstanceID)))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Promoted %s #%d to canonical in %s",
		result.Name, result.Key.InstanceID, DomainLabel(r.config, result.Key.Domain))))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Canonical:"), addressStyle.Sprint(result.Canonical.Hex()))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Previous: "), formatAddress(result.Previous))
	renderTx(r.out, result.Tx)
	return nil
}
