package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/refund-ui/config"
	mockauth "github.com/target/refund-ui/internal/mocks/auth"
)

func TestBuildAuthService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mockauth.NewMemorySessionStore()

	tests := []struct {
		name         string
		auth         config.AuthConfig
		wantErr      bool
		wantPassword bool
		wantRedirect bool
	}{
		{
			name: "dev auth mode",
			auth: config.AuthConfig{
				Mode:    config.AuthModeMock,
				DevAuth: config.DevAuthConfig{UserID: "dev", Email: "dev@example.com", Groups: []string{"employee"}},
			},
			wantRedirect: true,
		},
		{
			name:    "dev auth without identity",
			auth:    config.AuthConfig{Mode: config.AuthModeMock},
			wantErr: true,
		},
		{
			name:         "api mode",
			auth:         config.AuthConfig{Mode: config.AuthModeAPI},
			wantPassword: true,
		},
		{
			name:    "oauth mode missing discovery",
			auth:    config.AuthConfig{Mode: config.AuthModeOAuth, OAuth: config.OAuthConfig{ClientID: "id", ClientSecret: "secret"}},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			auth:    config.AuthConfig{Mode: config.AuthMode("saml")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := BuildAuthService(AuthConfig{
				Auth:      tt.auth,
				RefundAPI: config.RefundAPIConfig{BaseURL: "http://localhost:3333", ErrorMessagePath: "message"},
				Store:     store,
				Logger:    logger,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPassword, svc.PasswordLoginEnabled())
			assert.Equal(t, tt.wantRedirect, svc.RedirectLoginEnabled())
		})
	}
}

func TestBuildAuthService_RequiresStore(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeAPI}})
	require.Error(t, err)
}

func TestBuildSessionStore(t *testing.T) {
	_, err := BuildSessionStore(config.SessionStorePostgres, "", nil, nil)
	require.Error(t, err)

	_, err = BuildSessionStore(config.SessionStoreRedis, "", nil, nil)
	require.Error(t, err)

	_, err = BuildSessionStore(config.SessionStoreKind("memcached"), "", nil, nil)
	require.Error(t, err)
}
