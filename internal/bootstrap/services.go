package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/refund-ui/config"
	"github.com/target/refund-ui/internal/adapters/refundapi"
	httpx "github.com/target/refund-ui/internal/http"
	"github.com/target/refund-ui/internal/http/ui/viewmodel"
	"github.com/target/refund-ui/internal/observability/statsd"
	"github.com/target/refund-ui/internal/ports"
	"github.com/target/refund-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Refunds      *service.RefundService
	Amounts      *viewmodel.AmountFormatter
	Sessions     ports.SessionStore
	HealthChecks map[string]httpx.HealthCheck
	Metrics      *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
// DB and RedisClient are nil when the configured session store does not use them.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildMetrics returns the StatsD client, or nil when metrics are disabled or the dial fails.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// metricsSink avoids handing services a typed-nil interface.
//
//nolint:ireturn // nil is a meaningful "no metrics" value.
func metricsSink(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}

func buildHealthChecks(db *sql.DB, rdb redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// NewServices builds the auth and refund services over the configured backends.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := buildMetrics(logger, cfg.Observability.Metrics)
	sink := metricsSink(metrics)

	store, err := BuildSessionStore(cfg.Sessions.Store, cfg.Redis.KeyPrefix, deps.DB, deps.RedisClient)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("session store: %w", err)
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:      cfg.Auth,
		Sessions:  cfg.Sessions,
		RefundAPI: cfg.RefundAPI,
		Store:     store,
		Metrics:   sink,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("auth service: %w", err)
	}

	client, err := refundapi.NewClient(refundapi.Config{
		BaseURL:          cfg.RefundAPI.BaseURL,
		Timeout:          cfg.RefundAPI.Timeout,
		ErrorMessagePath: cfg.RefundAPI.ErrorMessagePath,
		Logger:           logger,
		Metrics:          sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("refund api client: %w", err)
	}

	refunds, err := service.NewRefundService(service.RefundServiceOptions{
		API:      client,
		PageSize: cfg.RefundAPI.PageSize,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("refund service: %w", err)
	}

	return ServiceContainer{
		Auth:         auth,
		Refunds:      refunds,
		Amounts:      viewmodel.NewAmountFormatter(cfg.RefundAPI.Locale, cfg.RefundAPI.CurrencySymbol),
		Sessions:     store,
		HealthChecks: buildHealthChecks(deps.DB, deps.RedisClient),
		Metrics:      metrics,
	}, nil
}
