package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/http/ui/viewmodel"
	"github.com/target/refund-ui/internal/service"
)

// dashboardQuery is the parsed manager list query.
type dashboardQuery struct {
	Name  string
	Page  int
	Total int // page count echoed by pagination links, 0 when unknown
}

func parseDashboardQuery(q url.Values) dashboardQuery {
	return dashboardQuery{
		Name:  strings.TrimSpace(q.Get("name")),
		Page:  positiveInt(q.Get("page"), 1),
		Total: positiveInt(q.Get("total"), 0),
	}
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// dashboardURL builds the list URL for a filter, page and known page count.
func dashboardURL(name string, page, total int) string {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if total > 0 {
		q.Set("total", strconv.Itoa(total))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func dashboardMeta() PageMeta {
	return PageMeta{Title: "Solicitações - Refund", PageTitle: "Solicitações", CurrentPage: PageDashboard}
}

func dashboardFilter(name string) map[string]any {
	return map[string]any{
		"Field": viewmodel.Field{
			Name:        "name",
			Value:       name,
			Placeholder: "Pesquisar pelo nome",
		},
		"Button": viewmodel.Button{Label: "Pesquisar", Variant: viewmodel.ButtonIcon},
	}
}

// Dashboard renders one page of refunds, the root of the manager tree.
// GET /?name=&page=&total=. A filter submission carries no page and starts at page 1.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionOrNotFound(w, r)
	if !ok {
		return
	}

	q := parseDashboardQuery(r.URL.Query())
	res, err := h.Refunds.Search(r.Context(), sess, service.SearchInput{
		Name:      q.Name,
		Page:      q.Page,
		TotalHint: q.Total,
	})
	if err != nil {
		h.dashboardError(w, r, sess, q, err)
		return
	}

	link := func(page int) string { return dashboardURL(res.Name, page, res.Pager.Total) }
	rows := viewmodel.NewRefundRows(res.Refunds, h.amounts())

	if IsHTMX(r) {
		HTMX(w).PushURL(dashboardURL(res.Name, res.Pager.Current, 0))
	}

	data := NewTemplateData(r, dashboardMeta()).
		With("Filter", dashboardFilter(res.Name)).
		With("Refunds", rows).
		With("Empty", len(rows) == 0).
		With("Pagination", viewmodel.NewPagination(res.Pager, link)).
		Build()
	h.renderPage(w, r, data)
}

func (h *UIHandlers) dashboardError(w http.ResponseWriter, r *http.Request, sess domainauth.Session, q dashboardQuery, err error) {
	switch {
	case errors.Is(err, service.ErrSuperseded):
		// A newer query from this session owns the list now.
		HTMX(w).NoSwap()
		return
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		return
	}

	if h.expireOnUnauthorized(w, r, sess, err) {
		return
	}

	msg := service.LoadErrorMessage(err)
	h.logger().WarnContext(r.Context(), "dashboard load failed", "name", q.Name, "page", q.Page, "error", err)
	if IsHTMX(r) {
		triggerToast(w, msg, "error")
	}

	data := NewTemplateData(r, dashboardMeta()).
		WithError(msg).
		With("Filter", dashboardFilter(q.Name)).
		With("Refunds", []viewmodel.RefundRow{}).
		With("Empty", false).
		Build()
	h.renderPage(w, r, data)
}
