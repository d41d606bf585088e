package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
	"github.com/target/refund-ui/internal/domain/model"
	apperrors "github.com/target/refund-ui/internal/errors"
	"github.com/target/refund-ui/internal/ports"
)

// Generic user-facing failure messages.
const (
	MsgLoadFailed   = "Não foi possível carregar"
	MsgSubmitFailed = "Não foi possível realizar a solicitação"
)

// RefundServiceOptions groups dependencies for RefundService.
type RefundServiceOptions struct {
	API      ports.RefundAPI // Required
	PageSize int             // default 5
	Logger   *slog.Logger
}

// RefundService runs the dashboard query and the employee submit sequence
// against the remote refund API on behalf of a session.
type RefundService struct {
	api      ports.RefundAPI
	pageSize int
	logger   *slog.Logger
	gate     *LatestGate
	flights  singleflight.Group
}

// NewRefundService constructs a RefundService.
func NewRefundService(opts RefundServiceOptions) (*RefundService, error) {
	if opts.API == nil {
		return nil, errors.New("refund api is required")
	}
	size := opts.PageSize
	if size <= 0 {
		size = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RefundService{
		api:      opts.API,
		pageSize: size,
		logger:   logger.With("component", "refund_service"),
		gate:     NewLatestGate(),
	}, nil
}

// PageSize is the fixed number of refunds per dashboard page.
func (s *RefundService) PageSize() int { return s.pageSize }

// SearchInput is a dashboard query.
type SearchInput struct {
	Name string
	Page int
	// TotalHint is the page count the client last saw, echoed by pagination
	// links. Zero when unknown (first load or new filter).
	TotalHint int
}

// SearchResult is one rendered page of the dashboard.
type SearchResult struct {
	Name    string
	Refunds []model.Refund
	Pager   model.Pager
}

// Search fetches one page of refunds. The requested page is clamped before
// the remote call. Without a total hint an out-of-range page can only be
// detected from the answer; the last page is then loaded instead, so rows and
// pager always describe the same page. A newer Search from the same session
// supersedes this one, in which case ErrSuperseded is returned and nothing
// should be rendered.
func (s *RefundService) Search(ctx context.Context, sess domainauth.Session, in SearchInput) (SearchResult, error) {
	name := strings.TrimSpace(in.Name)
	page := model.NewPager(in.Page, in.TotalHint).Current

	remote, err := s.list(ctx, sess, name, page)
	if err != nil {
		return SearchResult{}, err
	}
	switch last := remote.TotalPages; {
	case last <= 0:
		// No records at all: every page is empty, so report the first one.
		page = 1
	case page > last:
		s.logger.DebugContext(ctx, "requested page past the end, loading last page", "page", page, "total_pages", last)
		page = last
		if remote, err = s.list(ctx, sess, name, page); err != nil {
			return SearchResult{}, err
		}
	}

	return SearchResult{
		Name:    name,
		Refunds: remote.Refunds,
		Pager:   model.NewPager(page, remote.TotalPages),
	}, nil
}

// list runs one remote page query through the session's gate.
func (s *RefundService) list(ctx context.Context, sess domainauth.Session, name string, page int) (model.RefundPage, error) {
	opts := model.RefundListOptions{Name: name, Page: page, PerPage: s.pageSize}
	fingerprint := fmt.Sprintf("%s\x00%d\x00%d", name, page, s.pageSize)

	queryCtx, flightKey, release := s.gate.Enter(ctx, sess.ID, fingerprint)
	defer release()

	ch := s.flights.DoChan(flightKey, func() (any, error) {
		return s.api.List(queryCtx, sess.AccessToken, opts)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return model.RefundPage{}, ctx.Err()
	case res = <-ch:
	}

	if Superseded(queryCtx) {
		return model.RefundPage{}, ErrSuperseded
	}
	if res.Err != nil {
		s.logger.WarnContext(ctx, "refund list failed", "page", page, "error", res.Err)
		return model.RefundPage{}, res.Err
	}
	remote, _ := res.Val.(model.RefundPage)
	return remote, nil
}

// Get loads a single refund for the manager's view mode.
func (s *RefundService) Get(ctx context.Context, sess domainauth.Session, id string) (model.Refund, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Refund{}, apperrors.NotFound("refund not found")
	}
	refund, err := s.api.Get(ctx, sess.AccessToken, id)
	if err != nil {
		s.logger.WarnContext(ctx, "refund get failed", "refund_id", id, "error", err)
		return model.Refund{}, err
	}
	return refund, nil
}

// SubmitKind classifies the outcome of a submission.
type SubmitKind int

const (
	SubmitSuccess SubmitKind = iota
	// SubmitValidation failed locally; no remote call was made.
	SubmitValidation
	// SubmitRemote carries a message from the refund API.
	SubmitRemote
	// SubmitNetwork covers everything else.
	SubmitNetwork
)

func (k SubmitKind) String() string {
	switch k {
	case SubmitSuccess:
		return "success"
	case SubmitValidation:
		return "validation"
	case SubmitRemote:
		return "remote"
	default:
		return "network"
	}
}

// SubmitInput is the employee's create form.
type SubmitInput struct {
	Draft model.RefundDraft
	// File is nil when no receipt was attached.
	File *ports.UploadInput
}

// SubmitResult is the explicit outcome of Submit.
type SubmitResult struct {
	Kind    SubmitKind
	Message string
	Field   string // set for validation failures
	Refund  model.Refund
	Err     error // underlying failure for remote/network kinds
}

// OK reports a successful submission.
func (r SubmitResult) OK() bool { return r.Kind == SubmitSuccess }

// Submit runs the create sequence and stops at the first failure:
// receipt presence, field validation, receipt upload, refund creation.
// Nothing leaves the process until both local checks pass.
func (s *RefundService) Submit(ctx context.Context, sess domainauth.Session, in SubmitInput) SubmitResult {
	if in.File == nil || in.File.Body == nil || strings.TrimSpace(in.File.Filename) == "" {
		return SubmitResult{Kind: SubmitValidation, Field: "file", Message: model.MsgFileRequired}
	}

	req, err := in.Draft.Validate()
	if err != nil {
		return SubmitResult{
			Kind:    SubmitValidation,
			Field:   apperrors.GetField(err),
			Message: apperrors.UserMessage(err, MsgSubmitFailed),
		}
	}

	filename, err := s.api.Upload(ctx, sess.AccessToken, *in.File)
	if err != nil {
		s.logger.WarnContext(ctx, "receipt upload failed", "user_id", sess.UserID, "error", err)
		return failedSubmit(err)
	}
	req.Filename = filename

	refund, err := s.api.Create(ctx, sess.AccessToken, req)
	if err != nil {
		s.logger.WarnContext(ctx, "refund create failed", "user_id", sess.UserID, "error", err)
		return failedSubmit(err)
	}

	s.logger.InfoContext(ctx, "refund submitted", "user_id", sess.UserID, "refund_id", refund.ID)
	return SubmitResult{Kind: SubmitSuccess, Refund: refund}
}

func failedSubmit(err error) SubmitResult {
	if msg, ok := RemoteMessage(err); ok {
		return SubmitResult{Kind: SubmitRemote, Message: msg, Err: err}
	}
	return SubmitResult{Kind: SubmitNetwork, Message: MsgSubmitFailed, Err: err}
}

// RemoteMessage returns the refund API's own message carried by err.
func RemoteMessage(err error) (string, bool) {
	var re *ports.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, true
	}
	return "", false
}

// LoadErrorMessage is the banner text for a failed dashboard or view load.
func LoadErrorMessage(err error) string {
	if msg, ok := RemoteMessage(err); ok {
		return msg
	}
	return MsgLoadFailed
}
