package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
	// AuthModeAPI signs users in with email and password against the refund API.
	AuthModeAPI AuthMode = "api"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock", "api":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock, api)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"refund-ui"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"refund-ui"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Name   string   `env:"NAME"    envDefault:"Dev User"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"employee"        envSeparator:";"`
	// AccessToken is forwarded to the refund API as the bearer token.
	AccessToken string `env:"ACCESS_TOKEN" envDefault:"dev-token"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// EmployeeGroup is the IdP group (or API role) that grants the employee tree.
	EmployeeGroup string `env:"EMPLOYEE_GROUP" envDefault:"employee"`

	// ManagerGroup is the IdP group (or API role) that grants the manager tree.
	ManagerGroup string `env:"MANAGER_GROUP" envDefault:"manager"`

	// SessionTTL caps the session lifetime. Sessions never outlive the access token.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
}
