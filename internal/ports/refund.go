package ports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/target/refund-ui/internal/domain/model"
)

// UploadInput is a receipt file forwarded to the refund API.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// RefundAPI is the remote backend that owns refund records and receipts.
// Every call is authorised with the caller's access token.
type RefundAPI interface {
	List(ctx context.Context, token string, opts model.RefundListOptions) (model.RefundPage, error)
	Get(ctx context.Context, token, id string) (model.Refund, error)
	Upload(ctx context.Context, token string, in UploadInput) (filename string, err error)
	Create(ctx context.Context, token string, req model.CreateRefundRequest) (model.Refund, error)
}

// RemoteError is a non-2xx answer from the refund API whose body carried a
// user-facing message. The message is shown verbatim.
type RemoteError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("refund api %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// MetricClass tags metrics with the status family.
func (e *RemoteError) MetricClass() string {
	if e.StatusCode >= 500 {
		return "remote_5xx"
	}
	return "remote_4xx"
}

// IsUnauthorized reports whether err is a remote 401, i.e. the access token was rejected.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized
}
