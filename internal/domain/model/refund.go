//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/target/refund-ui/internal/errors"
)

// User-facing validation messages.
const (
	MsgFileRequired    = "Selecione um arquivo de comprovante"
	MsgNameTooShort    = "Informe um nome claro para sua solicitação"
	MsgCategoryMissing = "Informe a categoria"
	MsgAmountInvalid   = "Informe um valor válido"
	MsgAmountPositive  = "Informe um valor válido e superior a zero."
)

const minRefundNameLen = 3

// RefundUser is the requester embedded in refund records.
type RefundUser struct {
	Name string `json:"name"`
}

// Refund is a reimbursement request as returned by the refund API.
type Refund struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Amount   float64    `json:"amount"`
	Category Category   `json:"category"`
	Filename string     `json:"filename,omitempty"`
	User     RefundUser `json:"user"`
}

// RefundListOptions filters and pages the refund list.
type RefundListOptions struct {
	Name    string
	Page    int
	PerPage int
}

// RefundPage is one page of refunds plus the server's page count.
type RefundPage struct {
	Refunds    []Refund
	Page       int
	PerPage    int
	TotalPages int
}

// RefundDraft is the raw form input of the create form.
type RefundDraft struct {
	Name     string
	Category string
	Amount   string
}

// CreateRefundRequest is the validated payload sent to the refund API.
type CreateRefundRequest struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
	Filename string   `json:"filename"`
}

// Validate checks the draft and returns the normalised request or the first
// violated rule as a validation AppError. Filename is left for the caller.
// Name length is counted after trimming, and the trimmed name is what is sent.
func (d RefundDraft) Validate() (CreateRefundRequest, error) {
	name := strings.TrimSpace(d.Name)
	if utf8.RuneCountInString(name) < minRefundNameLen {
		return CreateRefundRequest{}, apperrors.ValidationField("name", MsgNameTooShort)
	}

	category := Category(strings.TrimSpace(d.Category))
	if category == "" || !category.Valid() {
		return CreateRefundRequest{}, apperrors.ValidationField("category", MsgCategoryMissing)
	}

	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return CreateRefundRequest{}, err
	}

	return CreateRefundRequest{Name: name, Category: category, Amount: amount}, nil
}

// ParseAmount converts locale text such as "10,50" into a positive number.
// The first comma is treated as the decimal separator. Blank input coerces to
// zero and is rejected as non-positive.
func ParseAmount(raw string) (float64, error) {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	if s == "" {
		return 0, apperrors.ValidationField("amount", MsgAmountPositive)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.ValidationField("amount", MsgAmountInvalid)
	}
	if v <= 0 {
		return 0, apperrors.ValidationField("amount", MsgAmountPositive)
	}
	return v, nil
}
