package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	refundui "github.com/target/refund-ui"
	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/http/ui/viewmodel"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthServiceInterface
	Refunds RefundsService
	// Amounts formats currency values; pt-BR "R$" when nil.
	Amounts      *viewmodel.AmountFormatter
	CookieDomain string
	// PublicURL is the browser-reachable refund API base for receipt links.
	PublicURL      string
	MaxUploadBytes int64
	// HealthChecks are probed by /healthz.
	HealthChecks map[string]HealthCheck
	// TemplateFS overrides the embedded/dev template source (tests).
	TemplateFS fs.FS
	IsDev      bool         // Development mode flag for serving assets from disk
	Logger     *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP handler: shared endpoints on a top-level mux and
// everything else dispatched by the role router to one route tree per session.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:              tr,
		Auth:           services.Auth,
		Refunds:        services.Refunds,
		Amounts:        services.Amounts,
		PublicURL:      services.PublicURL,
		MaxUploadBytes: services.MaxUploadBytes,
		CookieDomain:   services.CookieDomain,
		IsDev:          services.IsDev,
		Logger:         logger,
	}
	authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}

	protect := func(h http.Handler) http.Handler {
		csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})
		return limitBody(services.MaxUploadBytes)(csrf(h))
	}

	mux := http.NewServeMux()
	health := healthHandler(services.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))
	registerAuthRoutes(mux, authHandlers, ui, protect)

	mux.Handle("/", &RoleRouter{
		Auth: services.Auth,
		Trees: map[domainauth.Tree]http.Handler{
			domainauth.TreeUnauthenticated: protect(unauthenticatedTree(ui)),
			domainauth.TreeEmployee:        protect(employeeTree(ui)),
			domainauth.TreeManager:         protect(managerTree(ui)),
		},
		Loading:      http.HandlerFunc(ui.Loading),
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	})
	return mux, nil
}

func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(refundui.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, ui *UIHandlers, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /auth/signed-out", ui.SignedOut)
	mux.Handle("POST /auth/logout", protect(http.HandlerFunc(h.Logout)))
	mux.Handle("POST /auth/sign-in", protect(http.HandlerFunc(ui.SignInSubmit)))
}

// unauthenticatedTree serves visitors without a usable session.
func unauthenticatedTree(ui *UIHandlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ui.SignIn)
	mux.HandleFunc("/", ui.NotFound)
	return mux
}

// employeeTree serves the refund form and its confirmation.
func employeeTree(ui *UIHandlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ui.RefundNew)
	mux.HandleFunc("POST /refunds", ui.RefundSubmit)
	mux.HandleFunc("GET /confirm", ui.Confirm)
	mux.HandleFunc("/", ui.NotFound)
	return mux
}

// managerTree serves the refund list and the read-only refund view.
func managerTree(ui *UIHandlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ui.Dashboard)
	mux.HandleFunc("GET /refund/{id}", ui.RefundView)
	mux.HandleFunc("/", ui.NotFound)
	return mux
}

// limitBody caps request bodies of state-changing requests at n bytes (n <= 0 disables).
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isSafeMethod(r.Method) && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// staticHandler serves /static/* assets.
// In dev mode, serves from disk; in production, serves from the embedded FS.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), "no-cache")
	}
	staticSub, err := fs.Sub(refundui.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), "no-cache")
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))), "public, max-age=3600")
}

// staticWithCacheHeaders wraps a static file handler with a Cache-Control policy.
func staticWithCacheHeaders(handler http.Handler, policy string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", policy)
		handler.ServeHTTP(w, r)
	})
}
