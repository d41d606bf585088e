package httpx

import (
	"errors"
	"maps"
	"net/http"

	apperrors "github.com/target/refund-ui/internal/errors"
	"github.com/target/refund-ui/internal/service"
)

// PageRenderer renders page data as a full page or an htmx fragment.
type PageRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorOpts contains all options needed to render a page carrying an error banner.
type ErrorOpts struct {
	W   http.ResponseWriter
	R   *http.Request
	Err error
	// Fallback is shown when Err carries no user-facing message.
	Fallback string
	Renderer PageRenderer
	PageMeta PageMeta
	// Data is merged over the base page data (form values, lists, ...).
	Data map[string]any
	// ShowToast adds a showToast trigger with the banner text.
	ShowToast bool
}

// RenderError renders the page with an alert banner describing Err.
// The status stays 200 so htmx swaps the fragment.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	msg, field := userFacingError(opts.Err, opts.Fallback)
	builder := NewTemplateData(opts.R, opts.PageMeta).WithError(msg)
	if field != "" {
		builder.With("ErrorField", field)
	}
	data := builder.Build()
	maps.Copy(data, opts.Data)

	if opts.ShowToast {
		triggerToast(opts.W, msg, "error")
	}
	opts.Renderer(opts.W, opts.R, data)
}

// userFacingError picks the banner text for err: validation messages and
// refund API messages verbatim, fallback for everything else.
func userFacingError(err error, fallback string) (string, string) {
	if err == nil {
		return "", ""
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeValidation && appErr.Message != "" {
		return appErr.Message, appErr.Field
	}
	if msg, ok := service.RemoteMessage(err); ok {
		return msg, ""
	}
	return fallback, ""
}
