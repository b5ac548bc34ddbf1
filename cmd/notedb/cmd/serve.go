/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/api"
	"github.com/ssargent/notedb/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the NoteDB REST API server. Requests to /api/v1 must carry the
configured API key in the X-API-Key header; /metrics is left open for scraping.

Examples:
  notedb serve
  notedb serve --port 9400 --bind 0.0.0.0`,
	Args: cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, args []string, store *storage.Store) error {
		cfg := configFrom(cmd)
		log := loggerFrom(cmd)
		reg := registryFrom(cmd)

		port := cfg.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		bind := cfg.Bind
		if cmd.Flags().Changed("bind") {
			bind, _ = cmd.Flags().GetString("bind")
		}
		if cfg.Security.APIKey == "" {
			log.Warn("no API key configured, the API is open")
		}

		server := api.NewServer(store, api.ServerConfig{
			Bind:         bind,
			Port:         port,
			APIKey:       cfg.Security.APIKey,
			MaxBodyBytes: int64(2 * cfg.Decode.BufferSize),
			Gatherer:     reg,
		}, api.NewMetrics(reg), log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.ListenAndServe(ctx)
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 9300, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind (overrides config)")
}
