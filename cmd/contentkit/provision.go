package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contentkit/contentkit/internal/cli/ui"
	"github.com/contentkit/contentkit/internal/config"
	"github.com/contentkit/contentkit/internal/host/sqlitehost"
	"github.com/contentkit/contentkit/internal/provision"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Run the provisioning handlers against the configured host",
	Long: `Runs every registered provisioning handler once, in dependency order.
Handlers are idempotent: artifacts that already exist are left untouched.`,
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

		if err := runProvisioning(ctx, cfg, h, logger); err != nil {
			ui.Error(os.Stderr, "provisioning failed: %v", err)
			return err
		}

		ui.Success(os.Stdout, "provisioning complete (%s)", cfg.Database.Path)
		return nil
	},
}

func runProvisioning(ctx context.Context, cfg *config.Config, h *sqlitehost.Host, logger *zap.Logger) error {
	policy := provision.AbortOnFailure
	if cfg.Provisioning.ContinueOnFailure {
		policy = provision.ContinueOnFailure
	}

	orch := provision.NewOrchestrator(h, logger, provision.WithPolicy(policy))
	orch.Register(provision.DefaultHandlers()...)
	return orch.Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
