package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labforge/internal/server"
	"github.com/matzehuels/labforge/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the workspace over HTTP",
		Long: `Serve one workspace over a JSON HTTP API under /api/v1, with Prometheus
metrics on /metrics. The listen address comes from [server] addr in the
config file unless --addr is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), argPath(args), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string) error {
	prom := observability.NewPrometheus()
	prom.Install()
	defer observability.Reset()

	ws, err := c.openWorkspace(ctx, path)
	if err != nil {
		return err
	}
	defer ws.Close()

	if addr == "" {
		addr = ws.cfg.Server.Addr
	}
	if ws.cfg.Assistant.Enabled {
		ws.SetAssistant(ctx, true)
	}

	srv := server.New(server.Options{
		Session: ws.Session,
		Logger:  loggerFromContext(ctx),
		Metrics: prom.Handler(),
	})
	view := ws.View()
	printInfo("Serving %s on %s", formatStats(view.Stats), StyleLink.Render("http://"+addr))
	printKeyValue("session", view.ID)
	printKeyValue("assistant", string(view.Assistant.State))
	printKeyValue("metrics", "http://"+addr+"/metrics")
	return srv.Run(ctx, addr)
}
