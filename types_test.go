package toyyibpay

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentStatus
	}{
		{`1`, StatusSuccess},
		{`"1"`, StatusSuccess},
		{`2`, StatusPending},
		{`"3"`, StatusFailed},
		{`4`, StatusPendingTransaction},
	}
	for _, tt := range tests {
		var s PaymentStatus
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &s), "raw %s", tt.raw)
		assert.Equal(t, tt.want, s)
	}

	var s PaymentStatus
	assert.Error(t, json.Unmarshal([]byte(`"paid"`), &s))
}

func TestPaymentStatusString(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown(9)", PaymentStatus(9).String())
}

func TestStringBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`"1"`, true},
		{`"0"`, false},
		{`1`, true},
		{`0`, false},
		{`true`, true},
		{`false`, false},
		{`null`, false},
	}
	for _, tt := range tests {
		var b StringBool
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &b), "raw %s", tt.raw)
		assert.Equal(t, tt.want, bool(b), "raw %s", tt.raw)
	}

	var b StringBool
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &b))

	out, err := json.Marshal(StringBool(true))
	require.NoError(t, err)
	assert.Equal(t, `"1"`, string(out))
}

func validCreateBillInput() CreateBillInput {
	return CreateBillInput{
		CategoryCode:        "cat123",
		BillName:            "Order 42",
		BillDescription:     "Payment for order 42",
		Amount:              decimal.NewFromInt(100),
		ExternalReferenceNo: "ORD-42",
		BillTo:              "Ali",
		Email:               "ali@example.com",
		Phone:               "0123456789",
	}
}

func TestCreateBillInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateBillInput)
		wantErr string
	}{
		{"valid", func(*CreateBillInput) {}, ""},
		{"missing category", func(in *CreateBillInput) { in.CategoryCode = "" }, "CategoryCode"},
		{"bill name too long", func(in *CreateBillInput) { in.BillName = "0123456789012345678901234567890" }, "BillName"},
		{"bill name bad chars", func(in *CreateBillInput) { in.BillName = "Order #42!" }, "alphanumeric"},
		{"bad email", func(in *CreateBillInput) { in.Email = "not-an-email" }, "Email"},
		{"zero amount", func(in *CreateBillInput) { in.Amount = decimal.Zero }, "Amount must be greater than 0"},
		{"expiry days out of range", func(in *CreateBillInput) { in.ExpiryDays = 101 }, "ExpiryDays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateBillInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormValues(t *testing.T) {
	in := validCreateBillInput()
	in.Amount = decimal.RequireFromString("100.50")
	in.BillPriceSetting = PriceFixed
	in.BillPayorInfo = PayerInfoShow
	in.PaymentChannel = ChannelFPXAndCreditCard

	form := in.formValues()
	assert.Equal(t, "10050", form.Get("billAmount"))
	assert.Equal(t, "1", form.Get("billPriceSetting"))
	assert.Equal(t, "1", form.Get("billPayorInfo"))
	assert.Equal(t, "2", form.Get("billPaymentChannel"))
	assert.Equal(t, "0", form.Get("billSplitPayment"))
	assert.Equal(t, "1", form.Get("billExpiryDays"))
	assert.Empty(t, form.Get("billContentEmail"))
}

func TestCallbackDataJSON(t *testing.T) {
	raw := `{"refno":"TP1","order_id":"ORD-1","billcode":"bc","status":"1","amount":"100.00","transaction_time":"2024-01-15 10:30:00"}`

	var data CallbackData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	assert.Equal(t, StatusSuccess, data.Status)
	assert.True(t, data.Amount.Equal(decimal.NewFromInt(100)))
}
