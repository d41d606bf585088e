package redis

// Package redis provides the Redis-backed session store for the refund UI.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/refund-ui/internal/domain/auth"
	apperrors "github.com/target/refund-ui/internal/errors"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "refund-ui:session:"

// SessionStore is a Redis-based session store.
// Keys expire with the session, so no reaper is needed.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a Redis session store. An empty prefix selects DefaultPrefix.
func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return apperrors.Unavailable("redis set session", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, apperrors.Unavailable("redis get session", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		// A corrupt record cannot be recovered; treat it as signed out.
		_ = s.client.Del(ctx, s.prefix+id).Err()
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", errors.Join(ErrNotFound, unmarshalErr))
	}

	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return apperrors.Unavailable("redis delete session", err)
	}
	return nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

func (notFoundError) Is(target error) bool { return target == domainauth.ErrSessionNotFound }

// ErrNotFound is returned when a session is not found. It matches domainauth.ErrSessionNotFound.
var ErrNotFound error = notFoundError{}
