package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/domain/model"
	"github.com/target/refund-ui/internal/ports"
	"github.com/target/refund-ui/internal/service"
)

// stubRefunds answers Search with a fixed error.
type stubRefunds struct {
	RefundsService
	searchErr error
}

func (s *stubRefunds) Search(context.Context, domainauth.Session, service.SearchInput) (service.SearchResult, error) {
	return service.SearchResult{}, s.searchErr
}

func managerRequest(target string) *http.Request {
	manager := testSession(domainauth.RoleManager)
	return WithTestSession(httptest.NewRequest(http.MethodGet, target, nil), &manager)
}

func TestUIHandlers_Dashboard_RendersRowsAndPagination(t *testing.T) {
	h, api := newUIHandlersWithAPI(t, &mockAuthService{})
	api.EXPECT().List(gomock.Any(), "token-123", model.RefundListOptions{Name: "", Page: 2, PerPage: 5}).
		Return(model.RefundPage{
			Refunds: []model.Refund{
				{ID: "r-1", Name: "Táxi", Amount: 34.9, Category: model.CategoryTransport, User: model.RefundUser{Name: "Bruno"}},
				{ID: "r-2", Name: "Almoço", Amount: 1200, Category: model.CategoryFood, User: model.RefundUser{Name: "Carla"}},
			},
			TotalPages: 3,
		}, nil)

	w := httptest.NewRecorder()
	h.Dashboard(w, managerRequest("/?page=2"))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"Solicitações",
		`placeholder="Pesquisar pelo nome"`,
		`href="/refund/r-1"`,
		"Bruno",
		"R$ 34,90",
		"R$ 1.200,00",
		"img/categories/transport.svg",
		"img/categories/food.svg",
		"2/3",
		`href="/?total=3"`,
		`href="/?page=3&amp;total=3"`,
	}), body)
	assert.NotContains(t, body, "Nenhuma solicitação encontrada.")
	assert.Empty(t, w.Header().Get("Hx-Push-Url"), "full page loads do not push URLs")
}

func TestUIHandlers_Dashboard_FilterStartsAtFirstPage(t *testing.T) {
	h, api := newUIHandlersWithAPI(t, &mockAuthService{})
	api.EXPECT().List(gomock.Any(), gomock.Any(), model.RefundListOptions{Name: "ana", Page: 1, PerPage: 5}).
		Return(model.RefundPage{TotalPages: 0}, nil)

	req := managerRequest("/?name=+ana+")
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Nenhuma solicitação encontrada.")
	assert.Contains(t, body, `value="ana"`)
	assert.Contains(t, body, "<title>Solicitações - Refund</title>")
	assert.Equal(t, "/?name=ana", w.Header().Get("Hx-Push-Url"))
}

func TestUIHandlers_Dashboard_ClampsToKnownTotal(t *testing.T) {
	h, api := newUIHandlersWithAPI(t, &mockAuthService{})
	api.EXPECT().List(gomock.Any(), gomock.Any(), model.RefundListOptions{Page: 3, PerPage: 5}).
		Return(model.RefundPage{Refunds: []model.Refund{{ID: "r-9", Category: model.CategoryOthers}}, TotalPages: 3}, nil)

	w := httptest.NewRecorder()
	h.Dashboard(w, managerRequest("/?page=9&total=3"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3/3")
	assert.Contains(t, w.Body.String(), `aria-label="Próxima página"`)
}

func TestUIHandlers_Dashboard_BookmarkedPagePastEndShowsLastPage(t *testing.T) {
	h, api := newUIHandlersWithAPI(t, &mockAuthService{})
	gomock.InOrder(
		api.EXPECT().List(gomock.Any(), gomock.Any(), model.RefundListOptions{Page: 50, PerPage: 5}).
			Return(model.RefundPage{TotalPages: 3}, nil),
		api.EXPECT().List(gomock.Any(), gomock.Any(), model.RefundListOptions{Page: 3, PerPage: 5}).
			Return(model.RefundPage{
				Refunds:    []model.Refund{{ID: "r-11", Name: "Hotel", Category: model.CategoryAccommodation, User: model.RefundUser{Name: "Dora"}}},
				TotalPages: 3,
			}, nil),
	)

	req := managerRequest("/?page=50")
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "3/3")
	assert.Contains(t, body, "Dora")
	assert.Contains(t, body, `href="/?page=2&amp;total=3"`)
	assert.NotContains(t, body, "Nenhuma solicitação encontrada.")
	assert.Equal(t, "/?page=3", w.Header().Get("Hx-Push-Url"))
}

func TestUIHandlers_Dashboard_LoadFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "remote message",
			err:     &ports.RemoteError{Operation: "list", StatusCode: http.StatusBadGateway, Message: "Serviço indisponível"},
			wantMsg: "Serviço indisponível",
		},
		{name: "network", err: context.DeadlineExceeded, wantMsg: service.MsgLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CreateUIHandlersForTest(t)
			h.Auth = &mockAuthService{}
			h.Refunds = &stubRefunds{searchErr: tt.err}

			req := managerRequest("/?name=ana")
			req.Header.Set("Hx-Request", "true")
			w := httptest.NewRecorder()
			h.Dashboard(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, `role="alert"`)
			assert.Contains(t, body, tt.wantMsg)
			assert.Contains(t, body, `value="ana"`, "filter is kept")
			assert.NotContains(t, body, "Paginação")
			assert.Contains(t, w.Header().Get("Hx-Trigger"), "showToast")
		})
	}
}

func TestUIHandlers_Dashboard_SupersededLeavesPageAlone(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	h.Auth = &mockAuthService{}
	h.Refunds = &stubRefunds{searchErr: service.ErrSuperseded}

	req := managerRequest("/?page=2")
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Hx-Trigger"))
}

func TestUIHandlers_Dashboard_RejectedTokenEndsSession(t *testing.T) {
	var loggedOut bool
	h := CreateUIHandlersForTest(t)
	h.Auth = &mockAuthService{logoutFunc: func(context.Context, string) error { loggedOut = true; return nil }}
	h.Refunds = &stubRefunds{searchErr: &ports.RemoteError{Operation: "list", StatusCode: http.StatusUnauthorized, Message: "expired"}}

	w := httptest.NewRecorder()
	h.Dashboard(w, managerRequest("/"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, loggedOut)
	resp := w.Result()
	defer resp.Body.Close()
	c := findCookie(resp, SessionCookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}

func TestParseDashboardQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want dashboardQuery
	}{
		{raw: "", want: dashboardQuery{Page: 1}},
		{raw: "name=%20Ana%20&page=2&total=4", want: dashboardQuery{Name: "Ana", Page: 2, Total: 4}},
		{raw: "page=abc&total=-1", want: dashboardQuery{Page: 1}},
		{raw: "page=-5", want: dashboardQuery{Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parseDashboardQuery(q))
		})
	}
}

func TestDashboardURL(t *testing.T) {
	assert.Equal(t, "/", dashboardURL("", 1, 0))
	assert.Equal(t, "/?page=2", dashboardURL("", 2, 0))
	assert.Equal(t, "/?name=Jo%C3%A3o+Silva&page=3&total=7", dashboardURL("João Silva", 3, 7))
}
