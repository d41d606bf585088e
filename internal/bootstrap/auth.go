package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/refund-ui/config"
	"github.com/target/refund-ui/internal/adapters/apiauth"
	"github.com/target/refund-ui/internal/adapters/authroles"
	"github.com/target/refund-ui/internal/adapters/devauth"
	"github.com/target/refund-ui/internal/adapters/oidc"
	redisadapter "github.com/target/refund-ui/internal/adapters/redis"
	"github.com/target/refund-ui/internal/data"
	"github.com/target/refund-ui/internal/observability/statsd"
	"github.com/target/refund-ui/internal/ports"
	"github.com/target/refund-ui/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth      config.AuthConfig
	Sessions  config.SessionsConfig
	RefundAPI config.RefundAPIConfig
	Store     ports.SessionStore
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// BuildSessionStore returns the configured session store backend.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildSessionStore(kind config.SessionStoreKind, prefix string, db *sql.DB, rdb redis.UniversalClient) (ports.SessionStore, error) {
	switch kind {
	case config.SessionStorePostgres:
		if db == nil {
			return nil, errors.New("postgres session store requires a database connection")
		}
		return data.NewSessionRepo(db, nil), nil
	case config.SessionStoreRedis, "":
		if rdb == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		return redisadapter.NewSessionStore(rdb, prefix), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// BuildAuthService creates an auth service for the configured auth mode.
// Misconfiguration is an error: the UI is useless without sign-in.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Store == nil {
		return nil, errors.New("auth service requires a session store")
	}

	opts := service.AuthServiceOptions{
		Sessions: cfg.Store,
		Roles: authroles.StaticRoleMapper{
			ManagerGroup:  cfg.Auth.ManagerGroup,
			EmployeeGroup: cfg.Auth.EmployeeGroup,
		},
		SessionTTL:    cfg.Auth.SessionTTL,
		LookupTimeout: cfg.Sessions.LookupTimeout,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:      cfg.Auth.DevAuth.UserID,
			Name:        cfg.Auth.DevAuth.Name,
			Email:       cfg.Auth.DevAuth.Email,
			Groups:      cfg.Auth.DevAuth.Groups,
			AccessToken: cfg.Auth.DevAuth.AccessToken,
		})
		if err != nil {
			return nil, fmt.Errorf("dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("dev auth enabled; every visitor signs in as the configured identity",
				"user_id", cfg.Auth.DevAuth.UserID)
		}
		opts.Provider = prov

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			return nil, fmt.Errorf("oauth mode requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET")
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("oidc provider: %w", err)
		}
		opts.Provider = prov

	case config.AuthModeAPI:
		authn, err := apiauth.New(apiauth.Config{
			BaseURL:          cfg.RefundAPI.BaseURL,
			DefaultTTL:       cfg.Auth.SessionTTL,
			ErrorMessagePath: cfg.RefundAPI.ErrorMessagePath,
			Metrics:          cfg.Metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("api authenticator: %w", err)
		}
		opts.Credentials = authn

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}

	return service.NewAuthService(opts), nil
}
