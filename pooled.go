package toyyibpay

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// ErrNotOpen is returned when a PooledClient method is called outside the
// Open/Close window. This is a caller ordering bug, not a network failure.
var ErrNotOpen = NewConfigurationError("client is not open: call Open before making requests")

// PooledClient is the concurrent client variant. Its pooled transport has an
// explicit lifecycle: Open acquires it, Close releases it, and any request
// made outside that window fails fast with ErrNotOpen. Between Open and
// Close it is safe for any number of goroutines; every call builds its own
// request from its own arguments and the immutable config, so concurrent
// calls never share mutable state.
//
//	client, _ := toyyibpay.NewPooledClient(cfg)
//	if err := client.Open(ctx); err != nil { ... }
//	defer client.Close()
type PooledClient struct {
	cfg  *Config
	opts *clientOptions

	mu        sync.RWMutex
	transport *transport
}

// NewPooledClient builds a pooled client. The transport is not usable until
// Open is called.
func NewPooledClient(cfg *Config, opts ...ClientOption) (*PooledClient, error) {
	if cfg == nil {
		var err error
		if cfg, err = DefaultConfig(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PooledClient{cfg: cfg, opts: applyOptions(opts)}, nil
}

// Config returns the client's configuration.
func (c *PooledClient) Config() *Config { return c.cfg }

// Open acquires the pooled transport. Opening an already-open client is a
// no-op.
func (c *PooledClient) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transport == nil {
		hc := c.opts.httpClient
		if hc == nil {
			hc = &http.Client{Timeout: c.cfg.timeout()}
		}
		c.transport = newTransport(c.cfg, hc, c.opts.logger, c.opts.metrics)
	}
	return nil
}

// Close releases the pooled transport. Requests made after Close fail with
// ErrNotOpen until the client is opened again.
func (c *PooledClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transport != nil {
		c.transport.httpClient.CloseIdleConnections()
		c.transport = nil
	}
}

// post satisfies poster, enforcing the open-lifecycle check on every call.
func (c *PooledClient) post(ctx context.Context, endpoint string, data url.Values) (map[string]interface{}, error) {
	c.mu.RLock()
	t := c.transport
	c.mu.RUnlock()
	if t == nil {
		return nil, ErrNotOpen
	}
	return t.post(ctx, endpoint, data)
}

// CreateBill creates a new bill and returns its code and hosted payment URL.
// Business rules are identical to Client.CreateBill.
func (c *PooledClient) CreateBill(ctx context.Context, params CreateBillParams) (*BillResponse, error) {
	return createBill(ctx, c.cfg, c, params)
}

// CreateBillFromInput creates a bill from an InitPaymentInput.
func (c *PooledClient) CreateBillFromInput(ctx context.Context, input InitPaymentInput) (*BillResponse, error) {
	return createBillFromInput(ctx, c.cfg, c, input)
}

// GetBillTransactions returns the transaction history of a bill, optionally
// filtered by payment status.
func (c *PooledClient) GetBillTransactions(ctx context.Context, billCode string, status *PaymentStatus) ([]TransactionData, error) {
	return getBillTransactions(ctx, c, billCode, status)
}

// CheckPaymentStatus reports the effective payment status of a bill, or nil
// when the bill has no transactions at all.
func (c *PooledClient) CheckPaymentStatus(ctx context.Context, billCode string) (*PaymentStatus, error) {
	return checkPaymentStatus(ctx, c, billCode)
}

// CreateCategory creates a payment category and returns the raw gateway
// response.
func (c *PooledClient) CreateCategory(ctx context.Context, name, description string) (map[string]interface{}, error) {
	return createCategory(ctx, c, name, description)
}
