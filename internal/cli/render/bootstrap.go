package render

import (
	"fmt"
	"io"

	"github.com/zerotreasury/zdao/internal/usecase"
)

// BootstrapRenderer renders the core deployment
type BootstrapRenderer struct {
	out io.Writer
}

// NewBootstrapRenderer creates a new bootstrap renderer
func NewBootstrapRenderer(out io.Writer) *BootstrapRenderer {
	return &BootstrapRenderer{out: out}
}

// Render prints the core addresses followed by the catalog
func (r *BootstrapRenderer) Render(result *usecase.BootstrapResult) error {
	dep := result.Deployment
	if result.Created {
		fmt.Fprintln(r.out, FormatSuccess("Core contracts deployed"))
	} else {
		fmt.Fprintln(r.out, FormatWarning("Already bootstrapped, showing the existing deployment"))
	}
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "%s %d\n", labelStyle.Sprint("Chain:   "), dep.ChainID)
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Registry:"), addressStyle.Sprint(dep.Registry.Hex()))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Factory: "), addressStyle.Sprint(dep.Factory.Hex()))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Admin:   "), dep.Admin.Hex())
	fmt.Fprintln(r.out)

	headerStyle.Fprintln(r.out, "Catalog")
	return NewCatalogRenderer(r.out).Render(result.Catalog)
}
