package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "TRUE")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))
}

func TestHTMX_ResponseHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).PushURL("/?page=2").Trigger("saved", map[string]any{"id": "123"})

	assert.Equal(t, "/?page=2", rr.Header().Get("Hx-Push-Url"))
	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, "123", payload["saved"]["id"])
	assert.Equal(t, http.StatusOK, rr.Code, "chainable setters must not write a status")
}

func TestHTMX_TriggerWithoutPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXTrigger(rr, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rr.Header().Get("Hx-Trigger"))
}

func TestHTMX_RedirectAndNoSwap(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Redirect("/confirm")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/confirm", rr.Header().Get("Hx-Redirect"))

	rr = httptest.NewRecorder()
	HTMX(rr).NoSwap()
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestRedirect_PlainAndHTMX(t *testing.T) {
	rr := httptest.NewRecorder()
	redirect(rr, httptest.NewRequest(http.MethodPost, "/refunds", nil), "/confirm")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/confirm", rr.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodPost, "/refunds", nil)
	req.Header.Set("Hx-Request", "true")
	rr = httptest.NewRecorder()
	redirect(rr, req, "/confirm")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/confirm", rr.Header().Get("Hx-Redirect"))
}

func TestTriggerToast(t *testing.T) {
	rr := httptest.NewRecorder()
	triggerToast(rr, "  ", "error")
	assert.Empty(t, rr.Header().Get("Hx-Trigger"))

	triggerToast(rr, "Não foi possível carregar", "error")
	assert.JSONEq(t,
		`{"showToast":{"message":"Não foi possível carregar","type":"error"}}`,
		rr.Header().Get("Hx-Trigger"))
}
