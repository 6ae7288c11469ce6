package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/keepalive/config"
	"github.com/angeloszaimis/keepalive/internal/pinger"
	"github.com/angeloszaimis/keepalive/internal/scheduler"
	"github.com/angeloszaimis/keepalive/pkg/logger"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "keepalive",
		Short: "Keep remote services warm by pinging them every minute",
		Long: `keepalive pings every configured target with an HTTP GET once per round.

Rounds start 15 seconds after launch and repeat one minute after the previous
round finished. Each ping times out after 25 seconds.

Example config:
  environment: prod
  logging:
    level: info
  ping_targets:
    - name: api
      address: https://api.example.com/health
      interval_minutes: 10`,
		SilenceUsage: true,
		RunE:         runWorker,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file (default config.yaml in ./config or .)")

	root.AddCommand(newValidateCmd(), newVersionCmd())

	return root
}

func runWorker(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configFile)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		return err
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Environment)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	newScheduler(cfg, log).Run(ctx)

	if errors.Is(ctx.Err(), context.Canceled) {
		log.Info("Shutting down gracefully...")
	}

	return nil
}

func newScheduler(cfg *config.Config, log *slog.Logger, opts ...scheduler.Option) *scheduler.RoundScheduler {
	return scheduler.New(cfg.Targets(), pinger.New(log), log, opts...)
}
