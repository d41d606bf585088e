package bootstrap

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/refund-ui/config"
)

func TestGetEnabledServices(t *testing.T) {
	cfg := &config.AppConfig{Services: "session-reaper, http"}
	assert.Equal(t, []string{"http", "session-reaper"}, GetEnabledServices(cfg))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.Empty(t, GetEnabledServices(nil))
}

func TestValidateServiceConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AppConfig
		wantErr bool
	}{
		{name: "nil", cfg: nil, wantErr: true},
		{name: "http on redis", cfg: &config.AppConfig{Services: "http", Sessions: config.SessionsConfig{Store: config.SessionStoreRedis}}},
		{
			name:    "reaper on redis",
			cfg:     &config.AppConfig{Services: "http,session-reaper", Sessions: config.SessionsConfig{Store: config.SessionStoreRedis}},
			wantErr: true,
		},
		{
			name: "reaper on postgres",
			cfg:  &config.AppConfig{Services: "session-reaper", Sessions: config.SessionsConfig{Store: config.SessionStorePostgres}},
		},
		{name: "empty", cfg: &config.AppConfig{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceConfig(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewServices_RequiresConfig(t *testing.T) {
	_, err := NewServices(nil)
	require.Error(t, err)
}

func TestNewServices_SessionStoreBackendMissing(t *testing.T) {
	cfg := &config.AppConfig{Sessions: config.SessionsConfig{Store: config.SessionStorePostgres}}
	_, err := NewServices(&ServiceDeps{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session store")
}

func TestBuildHealthChecks(t *testing.T) {
	assert.Empty(t, buildHealthChecks(nil, nil))
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.RedisConfig
		wantAddrs []string
		wantDesc  string
		wantErr   bool
	}{
		{name: "plain address", cfg: config.RedisConfig{URI: "localhost:6379"}, wantAddrs: []string{"localhost:6379"}, wantDesc: "localhost:6379"},
		{name: "url", cfg: config.RedisConfig{URI: "redis://user:pw@cache:6380/2"}, wantAddrs: []string{"cache:6380"}, wantDesc: "cache:6380"},
		{name: "no uri", cfg: config.RedisConfig{}, wantErr: true},
		{
			name:      "cluster nodes",
			cfg:       config.RedisConfig{UseCluster: true, ClusterNodes: []string{" a:1 ", "", "b:2"}},
			wantAddrs: []string{"a:1", "b:2"},
			wantDesc:  "cluster:a:1,b:2",
		},
		{
			name:      "cluster falls back to uri",
			cfg:       config.RedisConfig{UseCluster: true, URI: "redis://c:7000"},
			wantAddrs: []string{"c:7000"},
			wantDesc:  "cluster:c:7000",
		},
		{
			name:      "sentinel",
			cfg:       config.RedisConfig{UseSentinel: true, SentinelNodes: []string{"s:26379"}, SentinelMasterName: "mymaster"},
			wantAddrs: []string{"s:26379"},
			wantDesc:  "sentinel:mymaster",
		},
		{name: "sentinel without nodes", cfg: config.RedisConfig{UseSentinel: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, desc, err := redisOptions(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddrs, opts.Addrs)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestRedisOptions_URLCredentials(t *testing.T) {
	opts, _, err := redisOptions(config.RedisConfig{URI: "redis://user:pw@cache:6380/2", Password: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "user", opts.Username)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestBuildBackgroundServices(t *testing.T) {
	t.Run("http only", func(t *testing.T) {
		cfg := &ServiceOrchestrationConfig{Config: &config.AppConfig{Services: "http"}}
		services, err := buildBackgroundServices(cfg, slog.Default())
		require.NoError(t, err)
		require.Len(t, services, 1)
		assert.Equal(t, config.ServiceModeHTTP, services[0].mode)
	})

	t.Run("reaper needs a database", func(t *testing.T) {
		cfg := &ServiceOrchestrationConfig{Config: &config.AppConfig{
			Services: "session-reaper",
			Sessions: config.SessionsConfig{Store: config.SessionStorePostgres},
		}}
		_, err := buildBackgroundServices(cfg, slog.Default())
		require.Error(t, err)
	})

	t.Run("reaper skipped on redis", func(t *testing.T) {
		cfg := &ServiceOrchestrationConfig{Config: &config.AppConfig{
			Services: "session-reaper",
			Sessions: config.SessionsConfig{Store: config.SessionStoreRedis},
		}}
		_, err := buildBackgroundServices(cfg, slog.Default())
		require.Error(t, err)
	})
}

func TestRunServicesWithShutdown_RequiresConfig(t *testing.T) {
	require.Error(t, RunServicesWithShutdown(context.Background(), nil))
}
