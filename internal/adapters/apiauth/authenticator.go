// Package apiauth signs users in with email and password against the refund API.
package apiauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/observability/metrics"
	"github.com/target/refund-ui/internal/observability/statsd"
	"github.com/target/refund-ui/internal/ports"
)

// ErrInvalidCredentials is returned when the API rejects the email/password pair
// without a message of its own.
var ErrInvalidCredentials = ports.ErrInvalidCredentials

// Config configures the API authenticator.
type Config struct {
	BaseURL string
	// DefaultTTL applies when the token carries no exp claim.
	DefaultTTL       time.Duration
	ErrorMessagePath string
	Client           *http.Client
	Metrics          statsd.Sink
	// Now is overridable for tests.
	Now func() time.Time
}

// Authenticator implements ports.CredentialsAuthenticator.
type Authenticator struct {
	endpoint   string
	defaultTTL time.Duration
	errorPath  string
	client     *http.Client
	metrics    statsd.Sink
	now        func() time.Time
}

var _ ports.CredentialsAuthenticator = (*Authenticator)(nil)

// New creates an Authenticator posting to {BaseURL}/sessions.
func New(cfg Config) (*Authenticator, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("refund api base url is required")
	}
	endpoint, err := url.JoinPath(base, "sessions")
	if err != nil {
		return nil, fmt.Errorf("build sessions url: %w", err)
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	path := cfg.ErrorMessagePath
	if path == "" {
		path = "message"
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Authenticator{
		endpoint:   endpoint,
		defaultTTL: ttl,
		errorPath:  path,
		client:     hc,
		metrics:    cfg.Metrics,
		now:        now,
	}, nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Authenticate exchanges credentials for an API token and identity.
func (a *Authenticator) Authenticate(ctx context.Context, creds ports.Credentials) (id domainauth.Identity, err error) {
	start := time.Now()
	status := 0
	defer func() {
		metrics.EmitAPICall(a.metrics, metrics.APICallMetric{
			Operation:  "sign_in",
			StatusCode: status,
			Duration:   time.Since(start),
			Err:        err,
		})
	}()

	body, err := json.Marshal(signInRequest{Email: strings.TrimSpace(creds.Email), Password: creds.Password})
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("encode sign-in: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("refund api sign_in: %w", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("read sign-in response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domainauth.Identity{}, a.signInError(resp.StatusCode, raw)
	}

	var out signInResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domainauth.Identity{}, fmt.Errorf("decode sign-in response: %w", err)
	}
	if out.Token == "" {
		return domainauth.Identity{}, errors.New("sign-in response missing token")
	}
	return a.identityFrom(out)
}

// identityFrom reads subject and expiry from the token without verifying the
// signature. The refund API verifies it on every call; the UI only forwards it.
func (a *Authenticator) identityFrom(out signInResponse) (domainauth.Identity, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(out.Token, &claims); err != nil {
		return domainauth.Identity{}, fmt.Errorf("parse api token: %w", err)
	}

	expires := a.now().Add(a.defaultTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if !expires.After(a.now()) {
		return domainauth.Identity{}, errors.New("api token already expired")
	}

	userID := out.User.ID
	if userID == "" {
		userID = claims.Subject
	}
	var groups []string
	if role := strings.TrimSpace(out.User.Role); role != "" {
		groups = []string{role}
	}

	return domainauth.Identity{
		UserID:      userID,
		Name:        out.User.Name,
		Email:       out.User.Email,
		Groups:      groups,
		AccessToken: out.Token,
		ExpiresAt:   expires,
	}, nil
}

func (a *Authenticator) signInError(status int, raw []byte) error {
	var doc any
	if json.Unmarshal(raw, &doc) == nil {
		if v, err := jmespath.Search(a.errorPath, doc); err == nil {
			if msg, ok := v.(string); ok && strings.TrimSpace(msg) != "" {
				return &ports.RemoteError{Operation: "sign_in", StatusCode: status, Message: strings.TrimSpace(msg)}
			}
		}
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusNotFound {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("refund api sign_in: unexpected status %d", status)
}
