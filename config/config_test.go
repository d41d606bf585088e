package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - session-reaper",
			input:    "session-reaper",
			expected: map[ServiceMode]bool{ServiceModeSessionReaper: true},
		},
		{
			name:  "services with spaces and duplicates",
			input: " http , session-reaper , http ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:          true,
				ServiceModeSessionReaper: true,
			},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only spaces and commas", input: " , , ", expectError: true},
		{name: "invalid service name", input: "http,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "api")
	t.Setenv("EMPLOYEE_GROUP", "refund-employees")
	t.Setenv("MANAGER_GROUP", "refund-managers")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_NAME", "Dev")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_GROUPS", "employee;manager")
	t.Setenv("DEV_AUTH_ACCESS_TOKEN", "tok")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeAPI,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://app.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			UserID:      "dev-user",
			Name:        "Dev",
			Email:       "dev@example.com",
			Groups:      []string{"employee", "manager"},
			AccessToken: "tok",
		},
		EmployeeGroup: "refund-employees",
		ManagerGroup:  "refund-managers",
		SessionTTL:    2 * time.Hour,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseRefundAPIEnv(t *testing.T) {
	t.Setenv("REFUND_API_BASE_URL", "https://api.example.com/")
	t.Setenv("REFUND_PAGE_SIZE", "10")
	t.Setenv("REFUND_API_TIMEOUT", "3s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.RefundAPI.BaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.RefundAPI.BaseURL)
	}
	if cfg.RefundAPI.PublicURL != cfg.RefundAPI.BaseURL {
		t.Fatalf("expected public url to default to base url, got %q", cfg.RefundAPI.PublicURL)
	}
	if cfg.RefundAPI.PageSize != 10 {
		t.Fatalf("expected page size 10, got %d", cfg.RefundAPI.PageSize)
	}
	if cfg.RefundAPI.Timeout != 3*time.Second {
		t.Fatalf("expected timeout 3s, got %v", cfg.RefundAPI.Timeout)
	}
	if cfg.RefundAPI.ErrorMessagePath != "message" {
		t.Fatalf("expected default error path, got %q", cfg.RefundAPI.ErrorMessagePath)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.RefundAPI.PageSize != 5 {
		t.Fatalf("expected default page size 5, got %d", cfg.RefundAPI.PageSize)
	}
	if cfg.Sessions.Store != SessionStoreRedis {
		t.Fatalf("expected redis session store, got %q", cfg.Sessions.Store)
	}
	if cfg.Auth.Mode != AuthModeOAuth {
		t.Fatalf("expected oauth mode, got %q", cfg.Auth.Mode)
	}
	if cfg.HTTP.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MiB upload cap, got %d", cfg.HTTP.MaxUploadBytes)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	if err := m.UnmarshalText([]byte(" API ")); err != nil || m != AuthModeAPI {
		t.Fatalf("expected api mode, got %q (%v)", m, err)
	}
	if err := m.UnmarshalText([]byte("saml")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSessionStoreKind_UnmarshalText(t *testing.T) {
	var k SessionStoreKind
	if err := k.UnmarshalText([]byte("Postgres")); err != nil || k != SessionStorePostgres {
		t.Fatalf("expected postgres, got %q (%v)", k, err)
	}
	if err := k.UnmarshalText([]byte("memcached")); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name         string
		services     string
		store        SessionStoreKind
		expectedHTTP bool
		expectedReap bool
	}{
		{name: "default - http only", services: "http", store: SessionStoreRedis, expectedHTTP: true},
		{name: "reaper with redis is a no-op", services: "http,session-reaper", store: SessionStoreRedis, expectedHTTP: true},
		{name: "reaper with postgres", services: "http,session-reaper", store: SessionStorePostgres, expectedHTTP: true, expectedReap: true},
		{name: "reaper only", services: "session-reaper", store: SessionStorePostgres, expectedReap: true},
		{name: "invalid config", services: "invalid-service", store: SessionStorePostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services, Sessions: SessionsConfig{Store: tt.store}}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}
			if cfg.IsSessionReaperEnabled() != tt.expectedReap {
				t.Errorf("IsSessionReaperEnabled(): expected %v, got %v", tt.expectedReap, cfg.IsSessionReaperEnabled())
			}
		})
	}
}

func TestSessionsConfig_Sanitize(t *testing.T) {
	cfg := SessionsConfig{ReaperInterval: time.Second, ReaperBatchSize: 50000}
	cfg.Sanitize()

	if cfg.Store != SessionStoreRedis {
		t.Fatalf("expected redis default, got %q", cfg.Store)
	}
	if cfg.LookupTimeout != 2*time.Second {
		t.Fatalf("expected lookup timeout default, got %v", cfg.LookupTimeout)
	}
	if cfg.ReaperInterval != time.Minute {
		t.Fatalf("expected interval floor, got %v", cfg.ReaperInterval)
	}
	if cfg.ReaperBatchSize != 10000 {
		t.Fatalf("expected batch cap, got %d", cfg.ReaperBatchSize)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}
