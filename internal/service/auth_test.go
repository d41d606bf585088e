package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	apperrors "github.com/target/refund-ui/internal/errors"
	mocks "github.com/target/refund-ui/internal/mocks/auth"
	"github.com/target/refund-ui/internal/ports"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

var testRoles = mocks.StaticRoleMapper{ManagerGroup: "manager", EmployeeGroup: "employee"}

func newTestAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		opts.Sessions = mocks.NewMemorySessionStore()
	}
	if opts.Roles == nil {
		opts.Roles = testRoles
	}
	return NewAuthService(opts)
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc := newTestAuthService(AuthServiceOptions{Provider: mocks.NewMockAuthProvider()})

	result, err := svc.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)

	_, err = svc.BeginLogin(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp down")
	}
	svc := newTestAuthService(AuthServiceOptions{Provider: provider})

	_, err := svc.BeginLogin(context.Background(), "http://cb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin auth flow")
}

func TestAuthService_BeginLogin_Disabled(t *testing.T) {
	svc := newTestAuthService(AuthServiceOptions{})
	assert.False(t, svc.RedirectLoginEnabled())
	_, err := svc.BeginLogin(context.Background(), "http://cb")
	require.Error(t, err)
}

func TestAuthService_CompleteLogin_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	provider := mocks.NewMockAuthProvider()
	provider.DefaultUser.Groups = []string{"employee", "manager"}
	svc := newTestAuthService(AuthServiceOptions{Provider: provider, Sessions: sessions})

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)

	sess := result.Session
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Mock User", sess.Name)
	assert.Equal(t, domainauth.RoleManager, sess.Role)
	assert.Equal(t, "mock-token", sess.AccessToken)
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthService_CompleteLogin_MissingParams(t *testing.T) {
	svc := newTestAuthService(AuthServiceOptions{Provider: mocks.NewMockAuthProvider()})

	tests := map[string]CompleteLoginInput{
		"code":  {State: "s", Nonce: "n"},
		"state": {Code: "c", Nonce: "n"},
		"nonce": {Code: "c", State: "s"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CompleteLogin(context.Background(), in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("bad code")
	}
	sessions := mocks.NewMemorySessionStore()
	svc := newTestAuthService(AuthServiceOptions{Provider: provider, Sessions: sessions})

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Zero(t, sessions.Len())
}

func TestAuthService_CompleteLogin_SessionSaveError(t *testing.T) {
	store := &mockSessionStore{saveFunc: func(context.Context, domainauth.Session) error {
		return errors.New("redis down")
	}}
	svc := newTestAuthService(AuthServiceOptions{Provider: mocks.NewMockAuthProvider(), Sessions: store})

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_SessionExpiryCappedByTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	provider := mocks.NewMockAuthProvider()
	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{UserID: "u", Groups: []string{"employee"}, ExpiresAt: now.Add(48 * time.Hour)}, nil
	}
	svc := newTestAuthService(AuthServiceOptions{
		Provider:   provider,
		SessionTTL: time.Hour,
		Now:        func() time.Time { return now },
	})

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.True(t, result.Session.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestAuthService_LoginWithPassword(t *testing.T) {
	creds := &mocks.MockCredentialsAuthenticator{
		Email:    "bia@example.com",
		Password: "secret",
		User: domainauth.Identity{
			UserID: "u-9", Name: "Bia", Email: "bia@example.com",
			Groups: []string{"manager"}, AccessToken: "api-token",
		},
	}
	sessions := mocks.NewMemorySessionStore()
	svc := newTestAuthService(AuthServiceOptions{Credentials: creds, Sessions: sessions})
	require.True(t, svc.PasswordLoginEnabled())

	sess, err := svc.LoginWithPassword(context.Background(), ports.Credentials{Email: "bia@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleManager, sess.Role)
	assert.Equal(t, "api-token", sess.AccessToken)
	assert.Equal(t, 1, sessions.Len())

	_, err = svc.LoginWithPassword(context.Background(), ports.Credentials{Email: "bia@example.com", Password: "nope"})
	require.ErrorIs(t, err, mocks.ErrInvalidCredentials)
}

func TestAuthService_LoginWithPassword_Validation(t *testing.T) {
	svc := newTestAuthService(AuthServiceOptions{Credentials: &mocks.MockCredentialsAuthenticator{}})

	_, err := svc.LoginWithPassword(context.Background(), ports.Credentials{Email: " "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_LoginWithPassword_Disabled(t *testing.T) {
	svc := newTestAuthService(AuthServiceOptions{})
	_, err := svc.LoginWithPassword(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	require.ErrorIs(t, err, ErrPasswordLoginDisabled)
}

func TestAuthService_ResolveSession(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID: "live", Role: domainauth.RoleEmployee, ExpiresAt: now.Add(time.Minute),
	}))
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID: "stale", Role: domainauth.RoleEmployee, ExpiresAt: now,
	}))
	svc := newTestAuthService(AuthServiceOptions{Sessions: sessions, Now: func() time.Time { return now }})

	t.Run("empty id", func(t *testing.T) {
		sess, err := svc.ResolveSession(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("live", func(t *testing.T) {
		sess, err := svc.ResolveSession(context.Background(), "live")
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, domainauth.RoleEmployee, sess.Role)
	})

	t.Run("unknown", func(t *testing.T) {
		sess, err := svc.ResolveSession(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("expired is deleted", func(t *testing.T) {
		sess, err := svc.ResolveSession(context.Background(), "stale")
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, 1, sessions.Len())
	})
}

func TestAuthService_ResolveSession_StoreUnavailable(t *testing.T) {
	store := &mockSessionStore{getFunc: func(context.Context, string) (domainauth.Session, error) {
		return domainauth.Session{}, errors.New("connection refused")
	}}
	svc := newTestAuthService(AuthServiceOptions{Sessions: store})

	sess, err := svc.ResolveSession(context.Background(), "abc")
	assert.Nil(t, sess)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestAuthService_ResolveSession_LookupTimeout(t *testing.T) {
	store := &mockSessionStore{getFunc: func(ctx context.Context, _ string) (domainauth.Session, error) {
		<-ctx.Done()
		return domainauth.Session{}, ctx.Err()
	}}
	svc := newTestAuthService(AuthServiceOptions{Sessions: store, LookupTimeout: 10 * time.Millisecond})

	_, err := svc.ResolveSession(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestAuthService_ResolveSession_CallerCanceled(t *testing.T) {
	store := &mockSessionStore{getFunc: func(ctx context.Context, _ string) (domainauth.Session, error) {
		return domainauth.Session{}, ctx.Err()
	}}
	svc := newTestAuthService(AuthServiceOptions{Sessions: store})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ResolveSession(ctx, "abc")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAuthService_Logout(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{ID: "s1"}))
	svc := newTestAuthService(AuthServiceOptions{Sessions: sessions})

	require.NoError(t, svc.Logout(context.Background(), "s1"))
	assert.Zero(t, sessions.Len())
	require.NoError(t, svc.Logout(context.Background(), ""))

	failing := newTestAuthService(AuthServiceOptions{Sessions: &mockSessionStore{
		deleteFunc: func(context.Context, string) error { return errors.New("boom") },
	}})
	require.Error(t, failing.Logout(context.Background(), "s1"))
}

func TestGenerateSessionID(t *testing.T) {
	a, b := generateSessionID(), generateSessionID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
