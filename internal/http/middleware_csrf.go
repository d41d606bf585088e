package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the canonical form of the header htmx sends.
	DefaultCSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes  = 32
	csrfTokenMaxAge = 12 * 3600
)

var errCSRFMismatch = errors.New("csrf token mismatch")

// CSRFConfig configures CSRFProtection. Zero values fall back to the defaults above.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	// MultipartMemory bounds the in-memory part of a parsed multipart body.
	MultipartMemory int64
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormFieldName == "" {
		c.FormFieldName = DefaultCSRFCookieName
	}
	if c.MultipartMemory <= 0 {
		c.MultipartMemory = defaultMultipartMemory
	}
	return c
}

// CSRFProtection implements the double-submit cookie pattern.
// A token cookie is issued on first contact and every state-changing request
// must echo it, either in the X-Csrf-Token header (htmx) or in the csrf_token
// field of a urlencoded or multipart form.
//
// Multipart bodies are parsed here to reach the field, so the body must already
// be bounded by http.MaxBytesReader; an oversized body answers 413.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	jar := cookieJar{Domain: cfg.CookieDomain}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				jar.setCSRF(w, r, cfg.CookieName, token)
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if !isSafeMethod(r.Method) {
				if err := checkCSRFToken(r, token, cfg); err != nil {
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
						return
					}
					http.Error(w, "CSRF token validation failed", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

// newCSRFToken fails closed: no token is better than a predictable one.
func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func checkCSRFToken(r *http.Request, cookieToken string, cfg CSRFConfig) error {
	if cookieToken == "" {
		return errCSRFMismatch
	}
	if submitted := r.Header.Get(cfg.HeaderName); submitted != "" {
		return sameToken(submitted, cookieToken)
	}

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return err
		}
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(cfg.MultipartMemory); err != nil {
			return err
		}
	default:
		return errCSRFMismatch
	}
	return sameToken(r.PostFormValue(cfg.FormFieldName), cookieToken)
}

func sameToken(submitted, cookieToken string) error {
	if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) != 1 {
		return errCSRFMismatch
	}
	return nil
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token CSRFProtection placed on the request, for templates.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
