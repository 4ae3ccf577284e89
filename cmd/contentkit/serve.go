package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contentkit/contentkit/internal/cli/ui"
	"github.com/contentkit/contentkit/internal/config"
	"github.com/contentkit/contentkit/internal/host/sqlitehost"
	"github.com/contentkit/contentkit/internal/web"
	"github.com/contentkit/contentkit/internal/web/middleware"
)

var serveSkipProvision bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Provision the schema, then serve the query API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		h, err := sqlitehost.Open(ctx, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer h.Close()

		if !serveSkipProvision {
			if err := runProvisioning(ctx, cfg, h, logger); err != nil {
				ui.Error(os.Stderr, "provisioning failed: %v", err)
				return err
			}
			ui.Success(os.Stdout, "provisioning complete")
		}

		cors := middleware.DefaultCORSConfig()
		if len(cfg.CORS.AllowedOrigins) > 0 {
			cors.AllowedOrigins = cfg.CORS.AllowedOrigins
		}

		api := web.NewAPI(h.Services().ContentTypes, logger)
		serverConfig := web.DefaultServerConfig(api.Router(cfg.Server.BasePath, cors))
		serverConfig.Address = cfg.Server.Address()

		server, err := web.NewServer(serverConfig)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("query API listening", zap.String("address", serverConfig.Address))
			errCh <- server.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSkipProvision, "skip-provision", false,
		"serve the API without running the provisioning handlers first")
}
