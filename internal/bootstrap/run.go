package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/refund-ui/config"
	"github.com/target/refund-ui/internal/adapters/reaper"
)

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

// backgroundService describes a startable component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) ([]backgroundService, error) {
	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return nil, fmt.Errorf("determine enabled services: %w", err)
	}

	var out []backgroundService
	if enabled[config.ServiceModeHTTP] {
		srv, err := NewHTTPServer(&HTTPServerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger})
		if err != nil {
			return nil, err
		}
		out = append(out, backgroundService{
			mode:  config.ServiceModeHTTP,
			name:  "http server",
			start: func(ctx context.Context) error { return serveHTTP(ctx, srv, logger) },
		})
	}
	if cfg.Config.IsSessionReaperEnabled() {
		runner, err := reaper.NewRunner(reaper.RunnerOptions{
			DB:      cfg.DB,
			Config:  cfg.Config.Sessions,
			Logger:  logger,
			Metrics: metricsSink(cfg.Services.Metrics),
		})
		if err != nil {
			return nil, fmt.Errorf("session reaper: %w", err)
		}
		out = append(out, backgroundService{
			mode:  config.ServiceModeSessionReaper,
			name:  "session reaper",
			start: runner.Run,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no runnable services enabled")
	}
	return out, nil
}

// RunServicesWithShutdown starts all enabled services and blocks until SIGINT/SIGTERM
// or until one of them fails, in which case the others are stopped too.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	services, err := buildBackgroundServices(cfg, logger)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	for _, svc := range services {
		g.Go(func() error {
			logger.InfoContext(gctx, "service started", "service", svc.name, "mode", svc.mode)
			if err := svc.start(gctx); err != nil {
				return fmt.Errorf("%s failed: %w", svc.name, err)
			}
			logger.Info(svc.name + " stopped")
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		logger.Error("service error", "error", err)
	}
	return err
}
