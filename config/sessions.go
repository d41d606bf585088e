package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects the session storage backend.
type SessionStoreKind string

const (
	// SessionStoreRedis keeps sessions in Redis with native key expiry.
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStorePostgres keeps sessions in the sessions table; expired rows are reaped.
	SessionStorePostgres SessionStoreKind = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "postgres":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStore: %q (valid options: redis, postgres)", v)
	}
}

// SessionsConfig controls where sessions live and how long lookups may take.
type SessionsConfig struct {
	Store SessionStoreKind `env:"SESSION_STORE" envDefault:"redis"`

	// LookupTimeout bounds a single session lookup. A lookup that exceeds it
	// renders the loading page instead of a route tree.
	LookupTimeout time.Duration `env:"SESSION_LOOKUP_TIMEOUT" envDefault:"2s"`

	// ReaperInterval is how often expired Postgres sessions are deleted.
	ReaperInterval time.Duration `env:"SESSION_REAPER_INTERVAL" envDefault:"10m"`

	// ReaperBatchSize is the maximum rows deleted per statement.
	ReaperBatchSize int `env:"SESSION_REAPER_BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionsConfig) Sanitize() {
	if s.Store == "" {
		s.Store = SessionStoreRedis
	}
	if s.LookupTimeout <= 0 {
		s.LookupTimeout = 2 * time.Second
	}
	if s.ReaperInterval < time.Minute {
		s.ReaperInterval = time.Minute
	}
	if s.ReaperBatchSize <= 0 {
		s.ReaperBatchSize = 500
	}
	if s.ReaperBatchSize > 10000 {
		s.ReaperBatchSize = 10000
	}
}
