package viewmodel

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/refund-ui/internal/domain/model"
)

func TestAmountFormatter_PtBR(t *testing.T) {
	f := NewAmountFormatter("pt-BR", "R$")
	assert.Equal(t, "R$ 10,50", f.Format(10.5))
	assert.Equal(t, "R$ 1.234,50", f.Format(1234.5))
	assert.Equal(t, "0,99", f.Number(0.99))
}

func TestAmountFormatter_BadLocaleFallsBack(t *testing.T) {
	f := NewAmountFormatter("not a locale!", "")
	assert.Equal(t, "10,50", f.Format(10.5))
}

func TestNewRefundRow(t *testing.T) {
	f := NewAmountFormatter("pt-BR", "R$")
	row := NewRefundRow(model.Refund{
		ID:       "a/b",
		Name:     "Almoço",
		Amount:   34.5,
		Category: model.CategoryFood,
		User:     model.RefundUser{Name: "Ana"},
	}, f)

	assert.Equal(t, "Ana", row.Requester)
	assert.Equal(t, "Almoço", row.Description)
	assert.Equal(t, "R$ 34,50", row.Amount)
	assert.Equal(t, "Alimentação", row.CategoryName)
	assert.Equal(t, "img/categories/food.svg", row.CategoryIcon)
	assert.Equal(t, "/refund/a%2Fb", row.Href)
}

func TestNewRefundRow_UnknownCategory(t *testing.T) {
	row := NewRefundRow(model.Refund{ID: "1", Category: model.Category("fuel")}, NewAmountFormatter("pt-BR", "R$"))
	assert.Equal(t, "fuel", row.CategoryName)
	assert.Equal(t, "img/categories/others.svg", row.CategoryIcon)
}

func TestNewPagination(t *testing.T) {
	link := func(p int) string { return "/?page=" + strconv.Itoa(p) }

	tests := []struct {
		name    string
		pager   model.Pager
		prevURL string
		nextURL string
	}{
		{name: "first of many", pager: model.NewPager(1, 3), nextURL: "/?page=2"},
		{name: "middle", pager: model.NewPager(2, 3), prevURL: "/?page=1", nextURL: "/?page=3"},
		{name: "last", pager: model.NewPager(3, 3), prevURL: "/?page=2"},
		{name: "single page", pager: model.NewPager(1, 1)},
		{name: "empty result", pager: model.NewPager(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewPagination(tt.pager, link)
			assert.Equal(t, tt.prevURL, vm.PrevURL)
			assert.Equal(t, tt.nextURL, vm.NextURL)
			assert.Equal(t, tt.prevURL != "", vm.HasPrev)
			assert.Equal(t, tt.nextURL != "", vm.HasNext)
		})
	}
}

func TestCategorySelect(t *testing.T) {
	sel := CategorySelect("transport", true)
	require.Len(t, sel.Options, len(model.Categories()))
	assert.True(t, sel.Disabled)

	selected := 0
	for _, o := range sel.Options {
		if o.Selected {
			selected++
			assert.Equal(t, "transport", o.Value)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestNewCreateForm_MarksInvalidField(t *testing.T) {
	form := NewCreateForm(model.RefundDraft{Name: "Táxi", Amount: "abc"}, "amount")
	assert.False(t, form.ReadOnly())
	assert.True(t, form.Amount.Invalid)
	assert.False(t, form.Name.Invalid)
	assert.Equal(t, "abc", form.Amount.Value)
	assert.Equal(t, "Enviar", form.Submit.Label)
	assert.False(t, form.Submit.Loading)
}

func TestNewViewForm(t *testing.T) {
	f := NewAmountFormatter("pt-BR", "R$")
	r := model.Refund{ID: "1", Name: "Hotel", Amount: 250, Category: model.CategoryAccommodation, Filename: "nota 1.pdf"}
	form := NewViewForm(r, f, ReceiptURL("http://api.local/", r.Filename))

	assert.True(t, form.ReadOnly())
	assert.True(t, form.Name.Disabled)
	assert.True(t, form.Category.Disabled)
	assert.True(t, form.Amount.Disabled)
	assert.Equal(t, "250,00", form.Amount.Value)
	assert.Equal(t, "Voltar", form.Submit.Label)
	assert.Equal(t, "http://api.local/uploads/nota%201.pdf", form.ReceiptURL)
}

func TestReceiptURL_EmptyFilename(t *testing.T) {
	assert.Empty(t, ReceiptURL("http://api.local", " "))
}

func TestButton_Defaults(t *testing.T) {
	assert.Equal(t, "submit", Button{}.InputType())
	assert.Equal(t, "btn btn-base", Button{}.Class())
	assert.Equal(t, "btn btn-icon", Button{Variant: ButtonIcon}.Class())
}

func TestUser_Greeting(t *testing.T) {
	assert.Equal(t, "Olá, Ana", User{Name: "Ana"}.Greeting())
	assert.Equal(t, "Olá, ana@example.com", User{Email: "ana@example.com"}.Greeting())
}
