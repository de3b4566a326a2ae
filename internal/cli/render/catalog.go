package render

import (
	"fmt"
	"io"

	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// CatalogRenderer renders the module catalog and catalog updates
type CatalogRenderer struct {
	out io.Writer
}

// NewCatalogRenderer creates a new catalog renderer
func NewCatalogRenderer(out io.Writer) *CatalogRenderer {
	return &CatalogRenderer{out: out}
}

// Render prints one row per registered module
func (r *CatalogRenderer) Render(entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No modules registered")
		return nil
	}

	data := TableData{{
		labelStyle.Sprint("ID"),
		labelStyle.Sprint("MODULE"),
		labelStyle.Sprint("LOGIC"),
		labelStyle.Sprint("IMPLEMENTATION"),
	}}
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = mutedStyle.Sprint("-")
		}
		data = append(data, []string{e.ModuleID.String(), name, e.Logic, e.Implementation.Hex()})
	}
	fmt.Fprint(r.out, renderTableWithWidths(data, calculateTableColumnWidths([]TableData{data}), ""))
	fmt.Fprintln(r.out)
	return nil
}

// RenderSet prints the outcome of `module set`
func (r *CatalogRenderer) RenderSet(result *usecase.SetModuleResult) error {
	if result.Deployed {
		fmt.Fprintf(r.out, "Deployed implementation %s\n", addressStyle.Sprint(result.Implementation.Hex()))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Module %s (%d) now points to %s", result.Name, result.ModuleID, result.Implementation.Hex())))
	if result.Previous != (result.Implementation) {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Previous:"), formatAddress(result.Previous))
	}
	renderTx(r.out, result.Tx)
	return nil
}
