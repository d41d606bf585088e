package viewmodel

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/target/refund-ui/internal/domain/model"
)

// AmountFormatter renders monetary amounts for a locale, e.g. "R$ 1.234,50" for pt-BR.
type AmountFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewAmountFormatter builds a formatter. An unparsable locale falls back to pt-BR.
func NewAmountFormatter(locale, symbol string) *AmountFormatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &AmountFormatter{
		printer: message.NewPrinter(tag),
		symbol:  strings.TrimSpace(symbol),
	}
}

// Number formats v with two decimals and locale separators, without the symbol.
func (f *AmountFormatter) Number(v float64) string {
	return f.printer.Sprintf("%.2f", v)
}

// Format formats v as currency.
func (f *AmountFormatter) Format(v float64) string {
	if f.symbol == "" {
		return f.Number(v)
	}
	return f.symbol + " " + f.Number(v)
}

// RefundRow is one dashboard list item.
type RefundRow struct {
	ID           string
	Requester    string
	Description  string
	Amount       string
	CategoryName string
	CategoryIcon string
	Href         string
}

// NewRefundRow projects a refund into a list row.
func NewRefundRow(r model.Refund, f *AmountFormatter) RefundRow {
	info := r.Category.Info()
	return RefundRow{
		ID:           r.ID,
		Requester:    r.User.Name,
		Description:  r.Name,
		Amount:       f.Format(r.Amount),
		CategoryName: info.Name,
		CategoryIcon: info.Icon,
		Href:         "/refund/" + url.PathEscape(r.ID),
	}
}

// NewRefundRows projects a page of refunds.
func NewRefundRows(refunds []model.Refund, f *AmountFormatter) []RefundRow {
	rows := make([]RefundRow, 0, len(refunds))
	for _, r := range refunds {
		rows = append(rows, NewRefundRow(r, f))
	}
	return rows
}

// FormMode distinguishes the employee create form from the manager's read-only view.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeView   FormMode = "view"
)

// RefundForm drives the refund page in both modes.
type RefundForm struct {
	Mode       FormMode
	Action     string
	Name       Field
	Category   SelectField
	Amount     Field
	Upload     Upload
	Submit     Button
	ReceiptURL string
}

// ReadOnly reports view mode.
func (f RefundForm) ReadOnly() bool { return f.Mode == FormModeView }

// NewCreateForm builds the employee form, echoing draft values back.
// invalidField marks the field that failed validation, if any.
func NewCreateForm(draft model.RefundDraft, invalidField string) RefundForm {
	category := CategorySelect(strings.TrimSpace(draft.Category), false)
	category.Invalid = invalidField == "category"
	return RefundForm{
		Mode:   FormModeCreate,
		Action: "/refunds",
		Name: Field{
			Name:     "name",
			Legend:   "Nome da solicitação",
			Value:    draft.Name,
			Required: true,
			Invalid:  invalidField == "name",
		},
		Category: category,
		Amount: Field{
			Name:        "amount",
			Legend:      "Valor",
			Value:       draft.Amount,
			Placeholder: "0,00",
			Required:    true,
			Invalid:     invalidField == "amount",
		},
		Upload: Upload{
			Name:    "file",
			Legend:  "Comprovante",
			Accept:  "image/*,application/pdf",
			Invalid: invalidField == "file",
		},
		Submit: Button{Label: "Enviar", Variant: ButtonBase, Type: "submit"},
	}
}

// NewViewForm builds the manager's read-only view of a stored refund.
func NewViewForm(r model.Refund, f *AmountFormatter, receiptURL string) RefundForm {
	return RefundForm{
		Mode: FormModeView,
		Name: Field{
			Name:     "name",
			Legend:   "Nome da solicitação",
			Value:    r.Name,
			Disabled: true,
		},
		Category: CategorySelect(string(r.Category), true),
		Amount: Field{
			Name:     "amount",
			Legend:   "Valor",
			Value:    f.Number(r.Amount),
			Disabled: true,
		},
		Upload:     Upload{Name: "file", Legend: "Comprovante", Filename: r.Filename, Disabled: true},
		Submit:     Button{Label: "Voltar", Variant: ButtonBase, Type: "button", Href: "/"},
		ReceiptURL: receiptURL,
	}
}

// ReceiptURL builds the public link of a stored receipt.
func ReceiptURL(publicBase, filename string) string {
	if strings.TrimSpace(filename) == "" {
		return ""
	}
	return strings.TrimRight(publicBase, "/") + "/uploads/" + url.PathEscape(filename)
}
