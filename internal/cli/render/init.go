package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init project result
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	failed := false
	for _, step := range result.Steps {
		if step.Success {
			msg := step.Message
			if msg == "" {
				msg = step.Name
			}
			okStyle.Fprintf(r.out, "✅ %s\n", msg)
			continue
		}
		failed = true
		failStyle.Fprintf(r.out, "❌ %s\n", step.Name)
		if step.Message != "" {
			fmt.Fprintf(r.out, "   %s\n", step.Message)
		}
		if step.Error != nil {
			fmt.Fprintf(r.out, "   %s\n", step.Error.Error())
		}
	}

	if !failed {
		r.printSuccessMessage(result)
	}
	return nil
}

func (r *InitRenderer) printSuccessMessage(result *usecase.InitProjectResult) {
	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		warnStyle.Fprintln(r.out, "⚠️  zdao was already initialized in this project")
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(r.out, "🎉 zdao initialized successfully!")
	}

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "📋 Next steps:")

	fmt.Fprintln(r.out, "1. Review zdao.toml:")
	fmt.Fprintln(r.out, "   • Set [accounts] for the admin and any other senders")
	fmt.Fprintln(r.out, "   • Map [modules.<name>] to the module ids of your catalog")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "2. Deploy the registry, the factory and the module implementations:")
	mutedStyle.Fprintln(r.out, "   zdao bootstrap")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "3. Pick a domain and deploy a DAO from the example plan:")
	mutedStyle.Fprintln(r.out, "   zdao config set domain community-domain")
	mutedStyle.Fprintln(r.out, "   zdao predict timelock 1")
	mutedStyle.Fprintf(r.out, "   zdao deploy %s\n", usecase.ExamplePlanPath)
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, "4. Inspect and promote instances:")
	mutedStyle.Fprintln(r.out, "   zdao instance list")
	mutedStyle.Fprintln(r.out, "   zdao canonical promote governor 1")
}
