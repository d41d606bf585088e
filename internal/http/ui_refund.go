package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/target/refund-ui/internal/domain/model"
	apperrors "github.com/target/refund-ui/internal/errors"
	"github.com/target/refund-ui/internal/http/ui/viewmodel"
	"github.com/target/refund-ui/internal/ports"
	"github.com/target/refund-ui/internal/service"
)

// submittedFlagMaxAge bounds how long the confirmation page stays reachable after a submit.
const submittedFlagMaxAge = 60

const msgUploadTooLarge = "O arquivo de comprovante é muito grande"

func refundMeta() PageMeta {
	return PageMeta{
		Title:       "Solicitação de reembolso - Refund",
		PageTitle:   "Solicitação de reembolso",
		CurrentPage: PageRefund,
	}
}

// RefundNew renders the empty create form, the root of the employee tree.
func (h *UIHandlers) RefundNew(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, refundMeta()).
		With("Form", viewmodel.NewCreateForm(model.RefundDraft{}, "")).
		Build()
	h.renderPage(w, r, data)
}

// RefundSubmit runs the create sequence for the employee form.
// POST /refunds (multipart: name, category, amount, file).
func (h *UIHandlers) RefundSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionOrNotFound(w, r)
	if !ok {
		return
	}

	if err := h.parseRefundForm(w, r); err != nil {
		var tooLarge *http.MaxBytesError
		msg := service.MsgSubmitFailed
		field := ""
		if errors.As(err, &tooLarge) {
			msg, field = msgUploadTooLarge, "file"
		}
		h.logger().InfoContext(r.Context(), "refund form rejected", "error", err)
		h.renderRefundFailure(w, r, draftFromRequest(r), service.SubmitResult{
			Kind:    service.SubmitValidation,
			Message: msg,
			Field:   field,
		})
		return
	}

	draft := draftFromRequest(r)
	in := service.SubmitInput{Draft: draft}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		in.File = &ports.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		h.logger().WarnContext(r.Context(), "reading receipt failed", "error", err)
	}

	res := h.Refunds.Submit(r.Context(), sess, in)
	if !res.OK() {
		if h.expireOnUnauthorized(w, r, sess, res.Err) {
			return
		}
		h.renderRefundFailure(w, r, draft, res)
		return
	}

	h.cookies().setShortLived(w, r, SubmittedCookieName, res.Refund.ID, submittedFlagMaxAge)
	redirect(w, r, "/confirm")
}

// parseRefundForm parses the multipart body unless the CSRF middleware already did.
func (h *UIHandlers) parseRefundForm(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	err := r.ParseMultipartForm(defaultMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func draftFromRequest(r *http.Request) model.RefundDraft {
	return model.RefundDraft{
		Name:     r.PostFormValue("name"),
		Category: r.PostFormValue("category"),
		Amount:   r.PostFormValue("amount"),
	}
}

// renderRefundFailure redisplays the create form with the failure banner.
// The submit button is never left in its loading state.
func (h *UIHandlers) renderRefundFailure(w http.ResponseWriter, r *http.Request, draft model.RefundDraft, res service.SubmitResult) {
	form := viewmodel.NewCreateForm(draft, res.Field)
	form.Submit.Loading = false

	if res.Kind != service.SubmitValidation && res.Err != nil {
		h.logger().WarnContext(r.Context(), "refund submit failed", "kind", res.Kind.String(), "error", res.Err)
	}
	if IsHTMX(r) {
		triggerToast(w, res.Message, "error")
	}

	data := NewTemplateData(r, refundMeta()).
		WithError(res.Message).
		With("ErrorField", res.Field).
		With("Form", form).
		Build()
	h.renderPage(w, r, data)
}

// Confirm renders the success page once per submission.
// GET /confirm without the submitted flag sends the user back to the form.
func (h *UIHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SubmittedCookieName)
	if err != nil || c.Value == "" {
		redirect(w, r, "/")
		return
	}
	h.cookies().clear(w, r, SubmittedCookieName)

	data := NewTemplateData(r, PageMeta{
		Title:       "Solicitação enviada - Refund",
		PageTitle:   "Solicitação enviada!",
		CurrentPage: PageConfirm,
	}).With("Back", viewmodel.Button{Label: "Nova solicitação", Variant: viewmodel.ButtonBase, Type: "button", Href: "/"}).
		Build()
	h.renderPage(w, r, data)
}

// RefundView renders a stored refund read-only for managers.
// GET /refund/{id}.
func (h *UIHandlers) RefundView(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionOrNotFound(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	refund, err := h.Refunds.Get(r.Context(), sess, id)
	if err != nil {
		if h.expireOnUnauthorized(w, r, sess, err) {
			return
		}
		if apperrors.IsNotFound(err) || isRemoteNotFound(err) {
			h.NotFound(w, r)
			return
		}
		msg := service.LoadErrorMessage(err)
		if IsHTMX(r) {
			triggerToast(w, msg, "error")
		}
		data := NewTemplateData(r, refundMeta()).WithError(msg).Build()
		h.renderPage(w, r, data)
		return
	}

	form := viewmodel.NewViewForm(refund, h.amounts(), viewmodel.ReceiptURL(h.PublicURL, refund.Filename))
	data := NewTemplateData(r, refundMeta()).
		With("Form", form).
		With("Refund", viewmodel.NewRefundRow(refund, h.amounts())).
		Build()
	h.renderPage(w, r, data)
}

func isRemoteNotFound(err error) bool {
	var re *ports.RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}
