package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zerotreasury/zdao/internal/adapters/httpapi"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only registry API",
		Long: `Serve a read-only JSON API over the catalog and the instance registry,
plus Prometheus metrics on /metrics. The domain is part of every request path.

Routes:
  GET /healthz
  GET /v1/modules
  GET /v1/instances[?module=]
  GET /v1/domains/{domain}/modules/{module}/canonical
  GET /v1/domains/{domain}/modules/{module}/instances
  GET /v1/domains/{domain}/modules/{module}/instances/{instance}
  GET /v1/domains/{domain}/modules/{module}/instances/{instance}/predict`,
		Example: `  zdao serve
  zdao serve --addr :8645`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = app.Config.Project.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return httpapi.NewServer(addr, app.HTTPHandler, app.Log).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to [serve].addr in zdao.toml)")

	return cmd
}
