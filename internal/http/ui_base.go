package httpx

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/domain/model"
	"github.com/target/refund-ui/internal/http/ui/viewmodel"
	"github.com/target/refund-ui/internal/ports"
	"github.com/target/refund-ui/internal/service"
)

// RefundsService is the slice of service.RefundService the UI needs.
type RefundsService interface {
	PageSize() int
	Search(ctx context.Context, sess domainauth.Session, in service.SearchInput) (service.SearchResult, error)
	Get(ctx context.Context, sess domainauth.Session, id string) (model.Refund, error)
	Submit(ctx context.Context, sess domainauth.Session, in service.SubmitInput) service.SubmitResult
}

var _ RefundsService = (*service.RefundService)(nil)

// UIHandlers serves browser-facing routes of every route tree.
type UIHandlers struct {
	T       *TemplateRenderer
	Auth    AuthServiceInterface
	Refunds RefundsService
	Amounts *viewmodel.AmountFormatter
	// PublicURL is the browser-reachable base of the refund API, used for receipt links.
	PublicURL      string
	MaxUploadBytes int64
	CookieDomain   string
	IsDev          bool // Development mode flag for enhanced error reporting
	Logger         *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) cookies() cookieJar { return cookieJar{Domain: h.CookieDomain} }

func (h *UIHandlers) amounts() *viewmodel.AmountFormatter {
	if h.Amounts == nil {
		h.Amounts = viewmodel.NewAmountFormatter("pt-BR", "R$")
	}
	return h.Amounts
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Tree:        TreeFromContext(r.Context()).String(),
	}

	if session := GetSessionFromContext(r.Context()); session != nil && !session.IsGuest() {
		layout.User = &viewmodel.User{
			Name:  session.Name,
			Email: session.Email,
			Role:  string(session.Role),
		}
		layout.IsAuthenticated = true
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"Tree":            layout.Tree,
		"IsAuthenticated": layout.IsAuthenticated,
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// renderPage renders a full page, or for htmx requests only the page content
// preceded by a <title> element so htmx updates document.title.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	title, _ := data["Title"].(string)
	page, _ := data["CurrentPage"].(string)

	var buf bytes.Buffer
	buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
	if err := h.T.t.ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write partial", "error", err)
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// sessionOrNotFound returns the request's session, or renders the 404 page.
// Tree handlers are only reachable with a session, so a miss means a wiring bug.
func (h *UIHandlers) sessionOrNotFound(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	s := GetSessionFromContext(r.Context())
	if s == nil {
		h.NotFound(w, r)
		return domainauth.Session{}, false
	}
	return *s, true
}

// expireOnUnauthorized ends the local session when the refund API rejected its
// token and sends the browser back to sign-in. It reports whether it answered.
func (h *UIHandlers) expireOnUnauthorized(w http.ResponseWriter, r *http.Request, sess domainauth.Session, err error) bool {
	if !ports.IsUnauthorized(err) {
		return false
	}
	if h.Auth != nil {
		if logoutErr := h.Auth.Logout(r.Context(), sess.ID); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout after rejected token failed", "error", logoutErr)
		}
	}
	h.cookies().clear(w, r, SessionCookieName)
	redirect(w, r, "/")
	return true
}
