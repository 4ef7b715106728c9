package toyyibpay

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

var alphanumericRule = validation.Match(regexp.MustCompile(`^[a-zA-Z0-9 _]+$`)).
	Error("only alphanumeric characters, space and underscore allowed")

// StringBool is a boolean the gateway encodes as the literal strings "1"/"0".
// UnmarshalJSON also accepts plain JSON booleans and numbers, since the
// gateway is inconsistent about types across endpoints.
type StringBool bool

// UnmarshalJSON decodes "1"/"0", 1/0 and true/false.
func (b *StringBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch s {
	case "1", "true":
		*b = true
	case "0", "false", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", s)
	}
	return nil
}

// MarshalJSON encodes the value the way the gateway expects it: "1" or "0".
func (b StringBool) MarshalJSON() ([]byte, error) {
	if b {
		return json.Marshal("1")
	}
	return json.Marshal("0")
}

// CreateBillInput is the full wire-level payload for the createBill endpoint.
// Amount is carried in major currency units; the conversion to minor units
// happens exactly once, when the form body is built.
type CreateBillInput struct {
	CategoryCode        string
	BillName            string
	BillDescription     string
	BillPriceSetting    PriceSetting
	BillPayorInfo       PayerInfo
	Amount              decimal.Decimal
	ReturnURL           string
	CallbackURL         string
	ExternalReferenceNo string
	BillTo              string
	Email               string
	Phone               string
	ContentEmail        string
	ExpiryDate          string
	ExpiryDays          int
	SplitPayment        bool
	SplitPaymentArgs    string
	PaymentChannel      PaymentChannel
	ChargeToCustomer    ChargeParty
	ChargeFPXB2B        ChargeParty
	EnableFPXB2B        bool
}

// Validate applies the gateway's field constraints.
func (in CreateBillInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.CategoryCode, validation.Required, validation.Length(1, 12)),
		validation.Field(&in.BillName, validation.Required, validation.Length(1, 30), alphanumericRule),
		validation.Field(&in.BillDescription, validation.Required, validation.Length(1, 100), alphanumericRule),
		validation.Field(&in.ReturnURL, validation.Length(0, 255)),
		validation.Field(&in.CallbackURL, validation.Length(0, 255)),
		validation.Field(&in.ExternalReferenceNo, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.BillTo, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Phone, validation.Required, validation.Length(1, 20)),
		validation.Field(&in.ContentEmail, validation.Length(0, 1000)),
		validation.Field(&in.ExpiryDays, validation.Min(0), validation.Max(100)),
	)
	if err != nil {
		return NewValidationError(err.Error())
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return NewValidationError("Amount must be greater than 0")
	}
	return nil
}

// BillResponse is the result of creating a bill. PaymentURL is derived from
// the bill code and the configured environment at construction time.
type BillResponse struct {
	BillCode   string `json:"BillCode"`
	PaymentURL string `json:"payment_url"`
}

func newBillResponse(billCode string, cfg *Config) *BillResponse {
	return &BillResponse{
		BillCode:   billCode,
		PaymentURL: cfg.PaymentURL(billCode),
	}
}

// TransactionData is one entry of a bill's transaction history. Status codes
// and the split-payment flag arrive as heterogeneous types and are normalized
// during decoding.
type TransactionData struct {
	BillName            string          `json:"billName"`
	BillDescription     string          `json:"billDescription"`
	BillTo              string          `json:"billTo"`
	BillEmail           string          `json:"billEmail"`
	BillPhone           string          `json:"billPhone"`
	BillStatus          PaymentStatus   `json:"billStatus"`
	BillPaymentStatus   PaymentStatus   `json:"billpaymentStatus"`
	BillPaymentAmount   decimal.Decimal `json:"billpaymentAmount"`
	BillPaymentDate     string          `json:"billPaymentDate"`
	BillPaymentChannel  string          `json:"billpaymentChannel"`
	BillPaymentInvoice  string          `json:"billpaymentInvoiceNo"`
	ExternalReferenceNo string          `json:"billExternalReferenceNo"`
	PaymentSettlement   *string         `json:"billpaymentSettlement"`
	SettlementReference *string         `json:"settlementReferenceNo"`
	SplitPayment        StringBool      `json:"billSplitPayment"`
	SplitPaymentArgs    *string         `json:"billSplitPaymentArgs"`
}

// CallbackData is the record built from an inbound webhook callback.
// Amount is in major currency units: the wire carries minor units (cents)
// and the webhook processor divides by 100 exactly once at parse time.
// Immutable after construction.
type CallbackData struct {
	RefNo           string          `json:"refno"`
	OrderID         string          `json:"order_id"`
	BillCode        string          `json:"billcode"`
	Status          PaymentStatus   `json:"status"`
	Reason          string          `json:"reason,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionTime string          `json:"transaction_time"`
}

// InitPaymentInput is the caller-facing input for initiating a payment.
type InitPaymentInput struct {
	OrderID   string          `json:"orderId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Amount    decimal.Decimal `json:"amount"`
	ReturnURL string          `json:"returnURL,omitempty"`
}

// Validate checks field constraints, including that the amount is positive
// and has at most two decimal places.
func (in InitPaymentInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.OrderID, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Phone, validation.Required, validation.Length(1, 20)),
		validation.Field(&in.ReturnURL, validation.Length(0, 255)),
	)
	if err != nil {
		return NewValidationError(err.Error())
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return NewValidationError("Amount must be greater than 0")
	}
	if in.Amount.Exponent() < -2 {
		return NewValidationError("Amount cannot have more than 2 decimal places")
	}
	return nil
}

// CategoryInput is the input for creating a payment category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate applies the gateway's field constraints.
func (in CategoryInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Description, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}
