package httpx

import (
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/target/refund-ui/internal/errors"
	"github.com/target/refund-ui/internal/http/ui/viewmodel"
	"github.com/target/refund-ui/internal/ports"
)

// Sign-in failure messages.
const (
	msgInvalidCredentials = "E-mail e/ou senha incorretos"
	msgSignInFailed       = "Não foi possível entrar"
)

// signInForm drives the sign-in page.
type signInForm struct {
	Action        string
	Email         viewmodel.Field
	Password      viewmodel.Field
	Submit        viewmodel.Button
	PasswordLogin bool
	RedirectLogin bool
	LoginURL      string
}

func (h *UIHandlers) newSignInForm(email, invalidField string) signInForm {
	f := signInForm{
		Action: "/auth/sign-in",
		Email: viewmodel.Field{
			Name:        "email",
			Legend:      "E-mail",
			Type:        "email",
			Value:       email,
			Placeholder: "seu@email.com",
			Required:    true,
			Invalid:     invalidField == "email",
		},
		Password: viewmodel.Field{
			Name:        "password",
			Legend:      "Senha",
			Type:        "password",
			Placeholder: "123456",
			Required:    true,
			Invalid:     invalidField == "password",
		},
		Submit:   viewmodel.Button{Label: "Entrar", Variant: viewmodel.ButtonBase},
		LoginURL: "/auth/login",
	}
	if h.Auth != nil {
		f.PasswordLogin = h.Auth.PasswordLoginEnabled()
		f.RedirectLogin = h.Auth.RedirectLoginEnabled()
	}
	return f
}

func signInMeta() PageMeta {
	return PageMeta{Title: "Entrar - Refund", PageTitle: "Entrar", CurrentPage: PageSignIn}
}

// SignIn renders the sign-in page, the root of the unauthenticated tree.
func (h *UIHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, signInMeta()).
		With("Form", h.newSignInForm("", "")).
		Build()
	h.renderPage(w, r, data)
}

// SignInSubmit handles the password sign-in form.
// POST /auth/sign-in.
func (h *UIHandlers) SignInSubmit(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil || !h.Auth.PasswordLoginEnabled() {
		redirect(w, r, "/auth/login")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	creds := ports.Credentials{Email: email, Password: r.PostFormValue("password")}

	session, err := h.Auth.LoginWithPassword(r.Context(), creds)
	if err != nil {
		h.logger().InfoContext(r.Context(), "sign-in rejected", "error", err)
		RenderError(ErrorOpts{
			W:         w,
			R:         r,
			Err:       signInError(err),
			Fallback:  msgSignInFailed,
			Renderer:  h.renderPage,
			PageMeta:  signInMeta(),
			Data:      map[string]any{"Form": h.newSignInForm(email, "")},
			ShowToast: IsHTMX(r),
		})
		return
	}

	h.cookies().setSession(w, r, *session)
	redirect(w, r, "/")
}

// signInError maps authenticator failures to the banner the user sees.
func signInError(err error) error {
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return apperrors.Validation(msgInvalidCredentials)
	}
	return err
}
