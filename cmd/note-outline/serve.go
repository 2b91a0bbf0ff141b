// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/note-outline/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the outline HTTP service",
	Long: `Serve exposes GET and POST /note_top_outline plus the /, /health and
/ping liveness endpoints. The SerpAPI key comes from SERPAPI_KEY (or
.secrets/serpapi-key). If API_TOKEN is unset the outline endpoint accepts
unauthenticated requests; set it for anything beyond local development.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", defaultPort, "TCP port to listen on (env PORT)")
	_ = viper.BindPFlag(keyPort, serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, newService(cfg, logger), logger.Named("http"))
	return srv.Run(ctx)
}
