package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	apperrors "github.com/target/refund-ui/internal/errors"
	"github.com/target/refund-ui/internal/ports"
)

// ErrPasswordLoginDisabled is returned when no credentials authenticator is configured.
var ErrPasswordLoginDisabled = errors.New("password sign-in is not enabled")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider    ports.AuthProvider             // redirect-based login (oauth, mock)
	Credentials ports.CredentialsAuthenticator // password login (api)
	Sessions    ports.SessionStore
	Roles       ports.RoleMapper

	SessionTTL    time.Duration // default 8h
	LookupTimeout time.Duration // default 2s
	Now           func() time.Time
}

// AuthService orchestrates authentication flows by coordinating provider, role mapping, and session persistence.
type AuthService struct {
	provider      ports.AuthProvider
	credentials   ports.CredentialsAuthenticator
	sessions      ports.SessionStore
	roles         ports.RoleMapper
	sessionTTL    time.Duration
	lookupTimeout time.Duration
	now           func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	lookup := opts.LookupTimeout
	if lookup <= 0 {
		lookup = 2 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider:      opts.Provider,
		credentials:   opts.Credentials,
		sessions:      opts.Sessions,
		roles:         opts.Roles,
		sessionTTL:    ttl,
		lookupTimeout: lookup,
		now:           now,
	}
}

// PasswordLoginEnabled reports whether LoginWithPassword can be used.
func (s *AuthService) PasswordLoginEnabled() bool { return s.credentials != nil }

// RedirectLoginEnabled reports whether BeginLogin/CompleteLogin can be used.
func (s *AuthService) RedirectLoginEnabled() bool { return s.provider != nil }

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("redirect login is not enabled")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the code for an identity, maps its role, and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("redirect login is not enabled")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session, err := s.startSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &CompleteLoginResult{Session: session}, nil
}

// LoginWithPassword signs the user in against the credentials authenticator
// and persists a session. Authenticator errors are returned unwrapped so the
// caller can surface remote messages verbatim.
func (s *AuthService) LoginWithPassword(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
	if s.credentials == nil {
		return nil, ErrPasswordLoginDisabled
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, apperrors.Validation("Informe e-mail e senha")
	}

	identity, err := s.credentials.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	session, err := s.startSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *AuthService) startSession(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	now := s.now()
	expires := now.Add(s.sessionTTL)
	if !identity.ExpiresAt.IsZero() && identity.ExpiresAt.Before(expires) {
		expires = identity.ExpiresAt
	}

	session := domainauth.Session{
		ID:          generateSessionID(),
		UserID:      identity.UserID,
		Name:        identity.Name,
		Email:       identity.Email,
		Role:        s.roles.Map(identity.Groups),
		AccessToken: identity.AccessToken,
		ExpiresAt:   expires,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// ResolveSession looks a session up for the role router.
//
// It returns (nil, nil) for an empty id, an unknown id, or an expired session:
// the caller is simply unauthenticated. Any other failure, including a lookup
// that exceeds the lookup timeout, is returned as an Unavailable AppError so the
// caller can render the loading state instead of guessing a tree.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	session, err := s.sessions.Get(lookupCtx, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, domainauth.ErrSessionNotFound):
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		if apperrors.IsUnavailable(err) {
			return nil, err
		}
		return nil, apperrors.Unavailable("session store unavailable", err)
	}

	if !s.now().Before(session.ExpiresAt) {
		// Best effort: an expired record is treated as absent either way.
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil
	}
	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.NewString()
}
