package toyyibpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CreateBillParams are the caller-facing arguments for CreateBill. Only the
// customer fields, the amount and the order ID are required; everything else
// falls back to configured or gateway defaults.
type CreateBillParams struct {
	Name    string
	Email   string
	Phone   string
	Amount  decimal.Decimal
	OrderID string

	// Description defaults to "Payment".
	Description string

	// ReturnURL and CallbackURL default to the configured URLs.
	ReturnURL   string
	CallbackURL string

	// CategoryCode defaults to the configured category ID.
	CategoryCode string

	// BillName defaults to a generated ULID.
	BillName string

	ContentEmail     string
	ExpiryDate       string
	ExpiryDays       int
	SplitPayment     bool
	SplitPaymentArgs string

	// Channel, ChargeToCustomer, ChargeFPXB2B, PriceSetting and PayorInfo
	// override the defaults (FPX+credit card, charge customer, fixed price,
	// show payer info) when non-nil.
	Channel          *PaymentChannel
	ChargeToCustomer *ChargeParty
	ChargeFPXB2B     *ChargeParty
	PriceSetting     *PriceSetting
	PayorInfo        *PayerInfo
}

// poster is the transport surface shared by the blocking and pooled clients,
// so both variants run the exact same business rules.
type poster interface {
	post(ctx context.Context, endpoint string, data url.Values) (map[string]interface{}, error)
}

// clientOptions collects the optional knobs shared by both client variants.
type clientOptions struct {
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
}

// ClientOption configures a Client or PooledClient.
type ClientOption func(*clientOptions)

// WithHTTPClient supplies a custom *http.Client. The caller owns its
// timeout; the configured request timeout is ignored in that case.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics attaches Prometheus instrumentation to the transport.
func WithMetrics(m *Metrics) ClientOption {
	return func(o *clientOptions) { o.metrics = m }
}

func applyOptions(opts []ClientOption) *clientOptions {
	o := &clientOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Client is the blocking gateway client. Each call executes entirely on the
// calling goroutine; the context bounds the underlying HTTP request. A Client
// is safe for concurrent use.
type Client struct {
	cfg       *Config
	transport *transport
}

// NewClient builds a blocking client. When cfg is nil the process-wide
// default config is used; an error is returned when neither is available or
// the config is invalid.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		var err error
		if cfg, err = DefaultConfig(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return &Client{
		cfg:       cfg,
		transport: newTransport(cfg, o.httpClient, o.logger, o.metrics),
	}, nil
}

// Config returns the client's configuration.
func (c *Client) Config() *Config { return c.cfg }

// Close releases idle transport connections. The client remains usable.
func (c *Client) Close() {
	c.transport.httpClient.CloseIdleConnections()
}

// CreateBill creates a new bill and returns its code and hosted payment URL.
func (c *Client) CreateBill(ctx context.Context, params CreateBillParams) (*BillResponse, error) {
	return createBill(ctx, c.cfg, c.transport, params)
}

// CreateBillFromInput creates a bill from an InitPaymentInput.
func (c *Client) CreateBillFromInput(ctx context.Context, input InitPaymentInput) (*BillResponse, error) {
	return createBillFromInput(ctx, c.cfg, c.transport, input)
}

// GetBillTransactions returns the transaction history of a bill, optionally
// filtered by payment status.
func (c *Client) GetBillTransactions(ctx context.Context, billCode string, status *PaymentStatus) ([]TransactionData, error) {
	return getBillTransactions(ctx, c.transport, billCode, status)
}

// CheckPaymentStatus reports the effective payment status of a bill, or nil
// when the bill has no transactions at all.
func (c *Client) CheckPaymentStatus(ctx context.Context, billCode string) (*PaymentStatus, error) {
	return checkPaymentStatus(ctx, c.transport, billCode)
}

// CreateCategory creates a payment category and returns the raw gateway
// response.
func (c *Client) CreateCategory(ctx context.Context, name, description string) (map[string]interface{}, error) {
	return createCategory(ctx, c.transport, name, description)
}

// ============================================================================
// Shared business rules (identical for both client variants)
// ============================================================================

func createBill(ctx context.Context, cfg *Config, p poster, params CreateBillParams) (*BillResponse, error) {
	if !params.Amount.GreaterThan(decimal.Zero) {
		return nil, NewValidationError("Amount must be greater than 0")
	}

	input := CreateBillInput{
		CategoryCode:        params.CategoryCode,
		BillName:            params.BillName,
		BillDescription:     params.Description,
		BillPriceSetting:    PriceFixed,
		BillPayorInfo:       PayerInfoShow,
		Amount:              params.Amount,
		ReturnURL:           params.ReturnURL,
		CallbackURL:         params.CallbackURL,
		ExternalReferenceNo: params.OrderID,
		BillTo:              params.Name,
		Email:               params.Email,
		Phone:               params.Phone,
		ContentEmail:        params.ContentEmail,
		ExpiryDate:          params.ExpiryDate,
		ExpiryDays:          params.ExpiryDays,
		SplitPayment:        params.SplitPayment,
		SplitPaymentArgs:    params.SplitPaymentArgs,
		PaymentChannel:      ChannelFPXAndCreditCard,
		ChargeToCustomer:    ChargeCustomer,
		ChargeFPXB2B:        ChargeCustomer,

		// Large amounts are routed through the corporate-banking rail.
		EnableFPXB2B: params.Amount.GreaterThanOrEqual(decimal.NewFromInt(CorporateBankingThreshold)),
	}
	if input.CategoryCode == "" {
		input.CategoryCode = cfg.CategoryID
	}
	if input.BillName == "" {
		input.BillName = NewULID()
	}
	if input.BillDescription == "" {
		input.BillDescription = "Payment"
	}
	if input.ReturnURL == "" {
		input.ReturnURL = cfg.ReturnURL
	}
	if input.CallbackURL == "" {
		input.CallbackURL = cfg.CallbackURL
	}
	if params.Channel != nil {
		input.PaymentChannel = *params.Channel
	}
	if params.ChargeToCustomer != nil {
		input.ChargeToCustomer = *params.ChargeToCustomer
	}
	if params.ChargeFPXB2B != nil {
		input.ChargeFPXB2B = *params.ChargeFPXB2B
	}
	if params.PriceSetting != nil {
		input.BillPriceSetting = *params.PriceSetting
	}
	if params.PayorInfo != nil {
		input.BillPayorInfo = *params.PayorInfo
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	resp, err := p.post(ctx, endpointCreateBill, input.formValues())
	if err != nil {
		return nil, err
	}

	billCode, _ := resp["BillCode"].(string)
	if billCode == "" {
		return nil, &Error{
			Type:     ErrorTypeValidation,
			Message:  fmt.Sprintf("Failed to create bill: %v", resp),
			Response: resp,
		}
	}
	return newBillResponse(billCode, cfg), nil
}

func createBillFromInput(ctx context.Context, cfg *Config, p poster, input InitPaymentInput) (*BillResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return createBill(ctx, cfg, p, CreateBillParams{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Amount:    input.Amount,
		OrderID:   input.OrderID,
		ReturnURL: input.ReturnURL,
	})
}

func getBillTransactions(ctx context.Context, p poster, billCode string, status *PaymentStatus) ([]TransactionData, error) {
	data := url.Values{}
	data.Set("billCode", billCode)
	if status != nil {
		data.Set("billpaymentStatus", strconv.Itoa(int(*status)))
	}

	resp, err := p.post(ctx, endpointGetBillTransactions, data)
	if err != nil {
		return nil, err
	}

	raw, ok := resp["data"].([]interface{})
	if !ok {
		return nil, nil
	}

	// Round-trip through JSON so the flexible field types normalize the
	// gateway's string-encoded integers and booleans.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, NewValidationError("invalid transaction data: " + err.Error())
	}
	var transactions []TransactionData
	if err := json.Unmarshal(encoded, &transactions); err != nil {
		return nil, NewValidationError("invalid transaction data: " + err.Error())
	}
	return transactions, nil
}

func checkPaymentStatus(ctx context.Context, p poster, billCode string) (*PaymentStatus, error) {
	success := StatusSuccess
	transactions, err := getBillTransactions(ctx, p, billCode, &success)
	if err != nil {
		return nil, err
	}
	if len(transactions) > 0 {
		return &success, nil
	}

	// No successful payment: fall back to the status of the last transaction
	// in the order the gateway returned them. The gateway does not document
	// this ordering; no time-based sort is applied on purpose.
	all, err := getBillTransactions(ctx, p, billCode, nil)
	if err != nil {
		return nil, err
	}
	if len(all) > 0 {
		last := all[len(all)-1].BillPaymentStatus
		return &last, nil
	}
	return nil, nil
}

func createCategory(ctx context.Context, p poster, name, description string) (map[string]interface{}, error) {
	input := CategoryInput{Name: name, Description: description}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	data := url.Values{}
	data.Set("catname", name)
	data.Set("catdescription", description)
	return p.post(ctx, endpointCreateCategory, data)
}
