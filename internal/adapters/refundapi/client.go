// Package refundapi is the HTTP client for the remote refund API.
package refundapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/refund-ui/internal/domain/model"
	"github.com/target/refund-ui/internal/observability/metrics"
	"github.com/target/refund-ui/internal/observability/statsd"
	"github.com/target/refund-ui/internal/ports"
)

const (
	defaultErrorPath = "message"
	maxErrorBody     = 64 << 10
	maxSuccessBody   = 4 << 20
)

// Config configures the refund API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// ErrorMessagePath is a JMESPath expression evaluated against error bodies.
	ErrorMessagePath string
	Client           *http.Client
	Logger           *slog.Logger
	Metrics          statsd.Sink
}

// Client implements ports.RefundAPI over HTTP.
type Client struct {
	baseURL   *url.URL
	errorPath string
	client    *http.Client
	logger    *slog.Logger
	metrics   statsd.Sink
}

var _ ports.RefundAPI = (*Client)(nil)

// NewClient builds a refund API client. The error message path is compiled
// up front so a bad expression fails at startup.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("refund api base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse refund api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("refund api base url must be absolute: %q", raw)
	}

	path := strings.TrimSpace(cfg.ErrorMessagePath)
	if path == "" {
		path = defaultErrorPath
	}
	if _, err := jmespath.Compile(path); err != nil {
		return nil, fmt.Errorf("compile error message path %q: %w", path, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   base,
		errorPath: path,
		client:    hc,
		logger:    logger.With("component", "refund_api"),
		metrics:   cfg.Metrics,
	}, nil
}

type paginationDTO struct {
	Page         int `json:"page"`
	PerPage      int `json:"perPage"`
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
}

type listResponse struct {
	Refunds    []model.Refund `json:"refunds"`
	Pagination paginationDTO  `json:"pagination"`
}

type uploadResponse struct {
	Filename string `json:"filename"`
}

// List fetches one page of refunds filtered by requester/description name.
func (c *Client) List(ctx context.Context, token string, opts model.RefundListOptions) (model.RefundPage, error) {
	q := url.Values{}
	q.Set("name", opts.Name)
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("perPage", strconv.Itoa(opts.PerPage))

	var out listResponse
	if err := c.do(ctx, "list", token, http.MethodGet, "/refunds", q, nil, "", &out); err != nil {
		return model.RefundPage{}, err
	}

	page := model.RefundPage{
		Refunds:    out.Refunds,
		Page:       out.Pagination.Page,
		PerPage:    out.Pagination.PerPage,
		TotalPages: out.Pagination.TotalPages,
	}
	if page.Page == 0 {
		page.Page = opts.Page
	}
	if page.PerPage == 0 {
		page.PerPage = opts.PerPage
	}
	if page.Refunds == nil {
		page.Refunds = []model.Refund{}
	}
	return page, nil
}

// Get fetches a single refund.
func (c *Client) Get(ctx context.Context, token, id string) (model.Refund, error) {
	var out model.Refund
	err := c.do(ctx, "get", token, http.MethodGet, "/refunds/"+url.PathEscape(id), nil, nil, "", &out)
	return out, err
}

// Create registers a refund that references an uploaded receipt.
func (c *Client) Create(ctx context.Context, token string, req model.CreateRefundRequest) (model.Refund, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.Refund{}, fmt.Errorf("encode refund: %w", err)
	}
	var out model.Refund
	err = c.do(ctx, "create", token, http.MethodPost, "/refunds", nil, bytes.NewReader(body), "application/json", &out)
	return out, err
}

// Upload streams the receipt as multipart field "file" and returns the stored filename.
func (c *Client) Upload(ctx context.Context, token string, in ports.UploadInput) (string, error) {
	if in.Body == nil {
		return "", errors.New("upload body is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeFilePart(mw, in))
	}()

	var out uploadResponse
	err := c.do(ctx, "upload", token, http.MethodPost, "/uploads", nil, pr, mw.FormDataContentType(), &out)
	// Unblock the writer if the request ended before the body was consumed.
	_ = pr.Close()
	if err != nil {
		return "", err
	}
	if out.Filename == "" {
		return "", errors.New("refund api upload: response missing filename")
	}
	return out.Filename, nil
}

func writeFilePart(mw *multipart.Writer, in ports.UploadInput) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, in.Filename))
	ct := in.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in.Body); err != nil {
		return err
	}
	return mw.Close()
}

func (c *Client) do(
	ctx context.Context,
	op, token, method, path string,
	query url.Values,
	body io.Reader,
	contentType string,
	out any,
) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		metrics.EmitAPICall(c.metrics, metrics.APICallMetric{
			Operation:  op,
			StatusCode: status,
			Duration:   time.Since(start),
			Err:        err,
		})
	}()

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("refund api %s: %w", op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(ctx, op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSuccessBody))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSuccessBody)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// errorFromResponse returns a *ports.RemoteError when the body carries a
// message at the configured path, and a plain status error otherwise.
func (c *Client) errorFromResponse(ctx context.Context, op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	if msg := c.extractMessage(raw); msg != "" {
		return &ports.RemoteError{Operation: op, StatusCode: resp.StatusCode, Message: msg}
	}

	c.logger.DebugContext(ctx, "refund api error without message",
		"operation", op, "status", resp.StatusCode, "body_bytes", len(raw))
	return fmt.Errorf("refund api %s: unexpected status %d", op, resp.StatusCode)
}

func (c *Client) extractMessage(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	v, err := jmespath.Search(c.errorPath, doc)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
