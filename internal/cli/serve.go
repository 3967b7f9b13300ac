package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/portraitgrid/internal/server"
	"github.com/matzehuels/portraitgrid/pkg/buildinfo"
)

// serveCommand creates the "serve" command for the HTTP planning API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout planning API over HTTP",
		Long: `Serve the layout planning API over HTTP.

Endpoints:
  GET  /healthz
  GET  /v1/defaults
  POST /v1/plan
  POST /v1/placements
  POST /v1/wrap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := c.loadApp()
			if addr == "" {
				addr = app.Server.Addr
			}

			resolver, closeFonts := c.newResolver(ctx, app)
			defer closeFonts()

			return server.New(buildinfo.Current(), resolver, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}
