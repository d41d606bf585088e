package httpx

// Page identifiers used in templates and navigation.
const (
	PageSignIn    = "sign-in"
	PageRefund    = "refund"
	PageConfirm   = "confirm"
	PageDashboard = "dashboard"
)

// Cookie names.
const (
	SessionCookieName   = "session_id"
	SubmittedCookieName = "refund_submitted"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// defaultMultipartMemory bounds the in-memory part of a parsed upload; the rest spills to disk.
const defaultMultipartMemory = 1 << 20

// loadingRetryAfter is the Retry-After hint, in seconds, sent with the loading page.
const loadingRetryAfter = "2"

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageSignIn:    "sign-in-content",
	PageRefund:    "refund-content",
	PageConfirm:   "confirm-content",
	PageDashboard: "dashboard-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the sign-in form.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "sign-in-content"
}
