package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
)

func TestUIHandlers_NotFound(t *testing.T) {
	h := CreateUIHandlersForTest(t)

	t.Run("signed out", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.NotFound(w, WithTestSession(httptest.NewRequest(http.MethodGet, "/missing", nil), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, ContainsAll(w.Body.String(), []string{"404", "A página que você procura não existe.", ">Entrar</a>"}))
	})

	t.Run("signed in", func(t *testing.T) {
		sess := testSession(domainauth.RoleManager)
		w := httptest.NewRecorder()
		h.NotFound(w, WithTestSession(httptest.NewRequest(http.MethodGet, "/missing", nil), &sess))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Voltar ao início")
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		h.NotFound(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, w.Body.String(), "not_found")
	})

	t.Run("no renderer", func(t *testing.T) {
		w := httptest.NewRecorder()
		(&UIHandlers{}).NotFound(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUIHandlers_Loading(t *testing.T) {
	h := CreateUIHandlersForTest(t)

	w := httptest.NewRecorder()
	h.Loading(w, httptest.NewRequest(http.MethodGet, "/?page=2", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, loadingRetryAfter, w.Header().Get("Retry-After"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{"Carregando...", `http-equiv="refresh"`, `href="/?page=2"`}), body)
	assert.NotContains(t, body, "Solicitações", "no route tree content while the session is unknown")
}

func TestUIHandlers_Loading_JSON(t *testing.T) {
	h := &UIHandlers{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.Loading(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "session_unavailable")
}

func TestUIHandlers_SignedOut(t *testing.T) {
	h := CreateUIHandlersForTest(t)

	w := httptest.NewRecorder()
	h.SignedOut(w, httptest.NewRequest(http.MethodGet, "/auth/signed-out", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Você saiu da sua conta.")
	assert.Contains(t, w.Body.String(), "Entrar novamente")
}
