package httpx

import (
	"errors"
	"net/http"
)

// SignedOut renders a simple signed-out page with a sign-in link.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Sessão encerrada - Refund",
	}
	if h.T == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := h.T.Render(w, "signed-out-page", data); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Loading renders the placeholder shown while the session store cannot answer.
// The page refreshes itself, so no route tree is chosen until the session is known.
func (h *UIHandlers) Loading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", loadingRetryAfter)
	w.Header().Set("Cache-Control", "no-store")

	if wantsJSON(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "session_unavailable",
			Err:     errors.New("session lookup is temporarily unavailable"),
		})
		return
	}

	data := map[string]any{
		"Title":      "Carregando - Refund",
		"RetryAfter": loadingRetryAfter,
		"RetryURL":   r.URL.RequestURI(),
	}
	if h.T == nil {
		http.Error(w, "Carregando...", http.StatusServiceUnavailable)
		return
	}
	if err := h.T.RenderStatus(w, http.StatusServiceUnavailable, "loading-page", data); err != nil {
		http.Error(w, "Carregando...", http.StatusServiceUnavailable)
	}
}

// NotFound handles 404 errors with auth-aware behavior.
// For browser requests, it renders an HTML error page.
// For API requests, it returns a JSON error response.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}

	session := GetSessionFromContext(r.Context())
	isAuthenticated := session != nil && !session.IsGuest()

	data := map[string]any{
		"Title":           "Página não encontrada - Refund",
		"Code":            "404",
		"Message":         "A página que você procura não existe.",
		"IsAuthenticated": isAuthenticated,
		"ShowLogin":       !isAuthenticated,
	}

	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	if err := h.T.RenderError(w, http.StatusNotFound, data); err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}
