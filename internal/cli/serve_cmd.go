package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/glazingpm/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and download endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := httpapi.NewServer(cfg, httpapi.Deps{
				Catalog:    app.Catalog,
				Projects:   app.Projects,
				Generation: app.Generation,
				Metrics:    app.Metrics,
				Logger:     app.Logger,
			})

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", srv.Addr())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

