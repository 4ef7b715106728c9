package webhook

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

const validPayload = `{
	"refno": "TP2401000001",
	"order_id": "ORD-001",
	"billcode": "abc123xy",
	"status": 1,
	"reason": "Approved",
	"amount": 10000,
	"transaction_time": "2024-01-15 10:30:00"
}`

func TestEventForStatus(t *testing.T) {
	tests := []struct {
		status toyyibpay.PaymentStatus
		want   Event
	}{
		{toyyibpay.StatusSuccess, EventPaymentSuccess},
		{toyyibpay.StatusFailed, EventPaymentFailed},
		{toyyibpay.StatusPending, EventPaymentPending},
		{toyyibpay.StatusPendingTransaction, EventPaymentPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EventForStatus(tt.status))
	}
}

func TestProcessValidPayload(t *testing.T) {
	h := NewHandler()

	data, err := h.Process([]byte(validPayload), nil)
	require.NoError(t, err)

	assert.Equal(t, "TP2401000001", data.RefNo)
	assert.Equal(t, "ORD-001", data.OrderID)
	assert.Equal(t, "abc123xy", data.BillCode)
	assert.Equal(t, toyyibpay.StatusSuccess, data.Status)
	assert.True(t, data.Amount.Equal(decimal.NewFromInt(100)), "10000 minor units is 100.00, got %s", data.Amount)
}

func TestProcessStringStatusAndAmount(t *testing.T) {
	payload := `{"refno":"r","order_id":"o","billcode":"b","status":"3","amount":"2550","transaction_time":"t"}`

	data, err := NewHandler().Process([]byte(payload), nil)
	require.NoError(t, err)

	assert.Equal(t, toyyibpay.StatusFailed, data.Status)
	assert.True(t, data.Amount.Equal(decimal.NewFromFloat(25.50)))
}

func TestProcessInvalidJSON(t *testing.T) {
	_, err := NewHandler().Process([]byte("not valid json"), nil)
	require.Error(t, err)
	assert.True(t, toyyibpay.IsWebhookError(err))
	assert.Contains(t, err.Error(), "Invalid JSON payload")
}

func TestProcessUnexpectedShape(t *testing.T) {
	_, err := NewHandler().Process([]byte(`{"unexpected": "shape"}`), nil)
	require.Error(t, err)
	assert.True(t, toyyibpay.IsWebhookError(err))
	assert.Contains(t, err.Error(), "Invalid callback data")
}

func TestProcessDispatchOrder(t *testing.T) {
	h := NewHandler()

	var calls []string
	h.OnPaymentSuccess(func(*toyyibpay.CallbackData) error {
		calls = append(calls, "success-1")
		return nil
	})
	h.OnPaymentSuccess(func(*toyyibpay.CallbackData) error {
		calls = append(calls, "success-2")
		return nil
	})
	h.OnPaymentFailed(func(*toyyibpay.CallbackData) error {
		calls = append(calls, "failed")
		return nil
	})
	h.OnAllEvents(func(*toyyibpay.CallbackData) error {
		calls = append(calls, "all")
		return nil
	})

	_, err := h.Process([]byte(validPayload), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"success-1", "success-2", "all"}, calls)
}

func TestProcessHandlerIsolation(t *testing.T) {
	h := NewHandler()

	var ran []string
	h.OnPaymentSuccess(func(*toyyibpay.CallbackData) error {
		panic("handler exploded")
	})
	h.OnPaymentSuccess(func(*toyyibpay.CallbackData) error {
		ran = append(ran, "second")
		return assert.AnError
	})
	h.OnAllEvents(func(*toyyibpay.CallbackData) error {
		ran = append(ran, "all")
		return nil
	})

	data, err := h.Process([]byte(validPayload), nil)
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, []string{"second", "all"}, ran)
}

func TestProcessSignature(t *testing.T) {
	const secret = "whsec_test"
	payload := []byte(validPayload)

	h := NewHandler(WithSecretKey(secret), WithSignatureVerification(true))

	t.Run("no headers", func(t *testing.T) {
		_, err := h.Process(payload, nil)
		require.Error(t, err)
		assert.True(t, toyyibpay.IsSignatureVerificationError(err))
		assert.Contains(t, err.Error(), "No headers provided for signature verification")
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := h.Process(payload, map[string]string{"Content-Type": "application/json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "No signature header found")
	})

	t.Run("invalid signature", func(t *testing.T) {
		_, err := h.Process(payload, map[string]string{SignatureHeader: "deadbeef"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid signature")
	})

	t.Run("valid signature", func(t *testing.T) {
		headers := map[string]string{SignatureHeader: Sign(secret, payload)}
		_, err := h.Process(payload, headers)
		assert.NoError(t, err)
	})

	t.Run("case-insensitive header", func(t *testing.T) {
		headers := map[string]string{"x-toyyibpay-signature": Sign(secret, payload)}
		_, err := h.Process(payload, headers)
		assert.NoError(t, err)
	})

	t.Run("verification disabled", func(t *testing.T) {
		off := NewHandler(WithSecretKey(secret))
		_, err := off.Process(payload, nil)
		assert.NoError(t, err)
	})
}

func TestProcessMap(t *testing.T) {
	h := NewHandler()

	data, err := h.ProcessMap(map[string]interface{}{
		"refno":            "TP1",
		"order_id":         "ORD-2",
		"billcode":         "bc",
		"status":           "2",
		"amount":           "1500",
		"transaction_time": "2024-01-15 10:30:00",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, toyyibpay.StatusPending, data.Status)
	assert.True(t, data.Amount.Equal(decimal.NewFromInt(15)))
}

func TestProcessRequestForm(t *testing.T) {
	h := NewHandler()

	var got *toyyibpay.CallbackData
	h.OnPaymentSuccess(func(d *toyyibpay.CallbackData) error {
		got = d
		return nil
	})

	form := "refno=TP9&order_id=ORD-9&billcode=bc9&status=1&amount=9900&transaction_time=now"
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	data, err := h.ProcessRequest(req)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "ORD-9", data.OrderID)
	assert.True(t, data.Amount.Equal(decimal.NewFromInt(99)))
}

func TestProcessRequestJSON(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(validPayload))
	req.Header.Set("Content-Type", "application/json")

	data, err := h.ProcessRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "abc123xy", data.BillCode)
}

func TestNewAck(t *testing.T) {
	ack := NewAck(true, "")
	assert.True(t, ack.Success)
	assert.Equal(t, "OK", ack.Message)
	assert.NotEmpty(t, ack.Timestamp)

	ack = NewAck(false, "Invalid signature")
	assert.False(t, ack.Success)
	assert.Equal(t, "Invalid signature", ack.Message)
}
