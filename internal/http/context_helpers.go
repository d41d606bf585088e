package httpx

import (
	"context"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// treeKey carries the route tree chosen by the role router.
type treeKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// SetTreeInContext records the route tree serving the request.
func SetTreeInContext(ctx context.Context, tree domainauth.Tree) context.Context {
	return context.WithValue(ctx, treeKey{}, tree)
}

// TreeFromContext returns the route tree recorded by the role router.
// Requests that bypass the router report the unauthenticated tree.
func TreeFromContext(ctx context.Context) domainauth.Tree {
	if tree, ok := ctx.Value(treeKey{}).(domainauth.Tree); ok {
		return tree
	}
	return domainauth.TreeUnauthenticated
}
