package viewmodel

import "github.com/target/refund-ui/internal/domain/model"

// ButtonVariant selects the button style.
type ButtonVariant string

const (
	ButtonBase      ButtonVariant = "base"
	ButtonIcon      ButtonVariant = "icon"
	ButtonIconSmall ButtonVariant = "icon-small"
)

// Button drives the button partial. A loading button is rendered disabled
// and shows the busy indicator instead of its label.
type Button struct {
	Label    string
	Variant  ButtonVariant
	Type     string
	Href     string
	Loading  bool
	Disabled bool
}

// Class returns the CSS class list for the variant.
func (b Button) Class() string {
	switch b.Variant {
	case ButtonIcon:
		return "btn btn-icon"
	case ButtonIconSmall:
		return "btn btn-icon btn-icon-small"
	default:
		return "btn btn-base"
	}
}

// InputType returns the button type attribute, defaulting to submit.
func (b Button) InputType() string {
	if b.Type == "" {
		return "submit"
	}
	return b.Type
}

// Field drives the labelled input partial.
type Field struct {
	Name        string
	Legend      string
	Value       string
	Type        string
	Placeholder string
	Required    bool
	Disabled    bool
	Invalid     bool
}

// InputType returns the input type attribute, defaulting to text.
func (f Field) InputType() string {
	if f.Type == "" {
		return "text"
	}
	return f.Type
}

// Option is one entry of a select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// SelectField drives the select partial.
type SelectField struct {
	Field
	Options []Option
}

// CategorySelect builds the category select from the catalog with value preselected.
func CategorySelect(value string, disabled bool) SelectField {
	cats := model.Categories()
	opts := make([]Option, 0, len(cats))
	for _, c := range cats {
		opts = append(opts, Option{
			Value:    string(c.Key),
			Label:    c.Name,
			Selected: string(c.Key) == value,
		})
	}
	return SelectField{
		Field: Field{
			Name:     "category",
			Legend:   "Categoria",
			Value:    value,
			Required: true,
			Disabled: disabled,
		},
		Options: opts,
	}
}

// Upload drives the receipt upload partial.
type Upload struct {
	Name     string
	Legend   string
	Filename string
	Accept   string
	Disabled bool
	Invalid  bool
}

// Label returns the selected filename or the empty-state prompt.
func (u Upload) Label() string {
	if u.Filename != "" {
		return u.Filename
	}
	return "Selecione o arquivo"
}
