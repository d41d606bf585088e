package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider             = (*MockAuthProvider)(nil)
	_ ports.CredentialsAuthenticator = (*MockCredentialsAuthenticator)(nil)
	_ ports.SessionStore             = (*MemorySessionStore)(nil)
	_ ports.RoleMapper               = (*StaticRoleMapper)(nil)
)

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:      "mock-user-1",
		Name:        "Mock User",
		Email:       "mock.user@example.com",
		Groups:      []string{"employee"},
		AccessToken: "mock-token",
	}
}

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	user := defaultIdentity()
	user.ExpiresAt = time.Now().Add(time.Hour)
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: user,
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = defaultIdentity()
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MockCredentialsAuthenticator accepts a single email/password pair.
type MockCredentialsAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error)

	Email    string
	Password string
	User     domainauth.Identity
}

// ErrInvalidCredentials is returned for a wrong email/password pair.
var ErrInvalidCredentials = ports.ErrInvalidCredentials

func (m *MockCredentialsAuthenticator) Authenticate(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	if creds.Email != m.Email || creds.Password != m.Password {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	user := m.User
	if user.UserID == "" {
		user = defaultIdentity()
		user.Email = m.Email
	}
	if user.ExpiresAt.IsZero() {
		user.ExpiresAt = time.Now().Add(time.Hour)
	}
	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

func (notFoundError) Is(target error) bool { return target == domainauth.ErrSessionNotFound }

var ErrNotFound error = notFoundError{}

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	ManagerGroup  string
	EmployeeGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.ManagerGroup != "" && g == m.ManagerGroup {
			return domainauth.RoleManager
		}
	}
	for _, g := range groups {
		if m.EmployeeGroup != "" && g == m.EmployeeGroup {
			return domainauth.RoleEmployee
		}
	}
	return domainauth.RoleGuest
}
