package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/refund-ui/internal/errors"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantMsg string
	}{
		{in: "10,50", want: 10.5},
		{in: "10.50", want: 10.5},
		{in: " 7 ", want: 7},
		{in: "0,01", want: 0.01},
		{in: "1234,5", want: 1234.5},
		{in: "", wantMsg: MsgAmountPositive},
		{in: "   ", wantMsg: MsgAmountPositive},
		{in: "0", wantMsg: MsgAmountPositive},
		{in: "0,00", wantMsg: MsgAmountPositive},
		{in: "-3,20", wantMsg: MsgAmountPositive},
		{in: "abc", wantMsg: MsgAmountInvalid},
		{in: "1,2,3", wantMsg: MsgAmountInvalid},
		{in: "NaN", wantMsg: MsgAmountInvalid},
		{in: "Inf", wantMsg: MsgAmountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err, ""))
				assert.Equal(t, "amount", apperrors.GetField(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseAmount_CommaMatchesDot(t *testing.T) {
	for _, pair := range [][2]string{{"1,5", "1.5"}, {"99,99", "99.99"}, {"0,3", "0.3"}, {"150,00", "150.00"}} {
		comma, err := ParseAmount(pair[0])
		require.NoError(t, err)
		dot, err := ParseAmount(pair[1])
		require.NoError(t, err)
		assert.Equal(t, dot, comma)
	}
}

func TestRefundDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   RefundDraft
		wantMsg string
		field   string
	}{
		{name: "short name", draft: RefundDraft{Name: "Ta", Category: "food", Amount: "10"}, wantMsg: MsgNameTooShort, field: "name"},
		{name: "padded short name", draft: RefundDraft{Name: "  Ta  ", Category: "food", Amount: "10"}, wantMsg: MsgNameTooShort, field: "name"},
		{name: "padding counts for nothing", draft: RefundDraft{Name: " ab ", Category: "food", Amount: "10"}, wantMsg: MsgNameTooShort, field: "name"},
		{name: "only whitespace", draft: RefundDraft{Name: "\t   \n", Category: "food", Amount: "10"}, wantMsg: MsgNameTooShort, field: "name"},
		{name: "missing category", draft: RefundDraft{Name: "Taxi", Category: "", Amount: "10,50"}, wantMsg: MsgCategoryMissing, field: "category"},
		{name: "unknown category", draft: RefundDraft{Name: "Taxi", Category: "luxury", Amount: "10,50"}, wantMsg: MsgCategoryMissing, field: "category"},
		{name: "zero amount", draft: RefundDraft{Name: "Taxi", Category: "transport", Amount: "0"}, wantMsg: MsgAmountPositive, field: "amount"},
		{name: "garbage amount", draft: RefundDraft{Name: "Taxi", Category: "transport", Amount: "dez"}, wantMsg: MsgAmountInvalid, field: "amount"},
		{name: "first violation wins", draft: RefundDraft{Name: "T", Category: "", Amount: "-1"}, wantMsg: MsgNameTooShort, field: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err, ""))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestRefundDraft_Validate_OK(t *testing.T) {
	req, err := RefundDraft{Name: " Almoço cliente ", Category: "food", Amount: "42,90"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Almoço cliente", req.Name)
	assert.Equal(t, CategoryFood, req.Category)
	assert.InDelta(t, 42.9, req.Amount, 1e-9)
	assert.Empty(t, req.Filename)
}

func TestRefundDraft_Validate_MultibyteName(t *testing.T) {
	_, err := RefundDraft{Name: "Çãé", Category: "food", Amount: "1"}.Validate()
	assert.NoError(t, err)
}
