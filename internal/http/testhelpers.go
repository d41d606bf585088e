package httpx

import (
	"net/http"
	"os"
	"strings"
	"testing"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// CreateUIHandlersForTest creates UIHandlers with a template renderer for testing.
func CreateUIHandlersForTest(t *testing.T) *UIHandlers {
	t.Helper()
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return nil
	}
	return &UIHandlers{T: tr}
}

// WithTestSession returns r carrying sess and its route tree, as the role router would set them.
func WithTestSession(r *http.Request, sess *domainauth.Session) *http.Request {
	ctx := SetSessionInContext(r.Context(), sess)
	ctx = SetTreeInContext(ctx, domainauth.TreeFor(sess))
	return r.WithContext(ctx)
}
