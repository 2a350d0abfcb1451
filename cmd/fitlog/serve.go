// ABOUTME: CLI command for the local HTTP JSON API.
// ABOUTME: Serves the gin router until interrupted.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlog/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP JSON API",
	Long: `Serve fitlog over a local HTTP JSON API.

The listen address comes from --addr, then FITLOG_API_ADDR, then
"api.addr" in the config file, and defaults to 127.0.0.1:8420.

EXAMPLES:

  fitlog serve
  fitlog serve --addr :9000
  curl localhost:8420/api/history/day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetAPIAddr()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return api.New(svc, newAnalyzer()).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
