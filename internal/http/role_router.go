package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
)

// RoleRouter picks the route tree for every request from the caller's session.
// Each tree is a complete handler; routes absent from a tree are 404 there.
type RoleRouter struct {
	Auth AuthServiceInterface
	// Trees maps every domainauth.Tree value to its handler.
	Trees map[domainauth.Tree]http.Handler
	// Loading answers while the session cannot be resolved.
	Loading      http.Handler
	CookieDomain string
	Logger       *slog.Logger
}

func (rr *RoleRouter) logger() *slog.Logger {
	if rr.Logger != nil {
		return rr.Logger
	}
	return slog.Default()
}

// ServeHTTP resolves the session once, then dispatches to exactly one tree.
func (rr *RoleRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	session, err := rr.Auth.ResolveSession(r.Context(), id)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing left to render.
			return
		}
		rr.logger().WarnContext(r.Context(), "session lookup failed",
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		annotateTree(r.Context(), "loading")
		rr.Loading.ServeHTTP(w, r)
		return
	}

	if session == nil && id != "" {
		cookieJar{Domain: rr.CookieDomain}.clear(w, r, SessionCookieName)
	}

	tree := domainauth.TreeFor(session)
	handler, ok := rr.Trees[tree]
	if !ok {
		rr.logger().ErrorContext(r.Context(), "no handler for route tree", "tree", tree.String())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx := SetSessionInContext(r.Context(), session)
	ctx = SetTreeInContext(ctx, tree)
	annotateTree(ctx, tree.String())
	handler.ServeHTTP(w, r.WithContext(ctx))
}
