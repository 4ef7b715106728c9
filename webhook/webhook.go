// Package webhook processes inbound ToyyibPay payment callbacks: it decodes
// the payload, optionally verifies its HMAC signature, builds a typed
// callback record, and dispatches it to registered handlers partitioned by
// event category.
package webhook

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

// Event is the derived category of a callback, used purely for routing
// handlers. EventAll fires for every callback in addition to the specific
// category.
type Event string

const (
	EventPaymentSuccess Event = "payment.success"
	EventPaymentFailed  Event = "payment.failed"
	EventPaymentPending Event = "payment.pending"
	EventAll            Event = "all"
)

// EventForStatus maps a payment status onto its event category: success and
// failed map to their own categories, everything else is pending.
func EventForStatus(status toyyibpay.PaymentStatus) Event {
	switch status {
	case toyyibpay.StatusSuccess:
		return EventPaymentSuccess
	case toyyibpay.StatusFailed:
		return EventPaymentFailed
	default:
		return EventPaymentPending
	}
}

// HandlerFunc consumes a processed callback record. A non-nil error (or a
// panic) is logged and does not affect other handlers or the Process result.
type HandlerFunc func(data *toyyibpay.CallbackData) error

// Handler parses, authenticates, validates and dispatches webhook callbacks.
// It holds only the handler registry and an optional shared secret: there is
// no per-call state, so a single Handler may be used from any number of
// request-handling goroutines. Handlers are normally registered once during
// setup; the registry lock exists so late registration is still safe.
type Handler struct {
	secretKey       string
	verifySignature bool
	logger          zerolog.Logger
	metrics         *toyyibpay.Metrics

	mu       sync.RWMutex
	handlers map[Event][]HandlerFunc
}

// Option configures a Handler.
type Option func(*Handler)

// WithSecretKey sets the shared secret used for signature verification.
func WithSecretKey(secret string) Option {
	return func(h *Handler) { h.secretKey = secret }
}

// WithSignatureVerification toggles signature verification. Verification
// only happens when it is enabled and a secret key is configured.
func WithSignatureVerification(verify bool) Option {
	return func(h *Handler) { h.verifySignature = verify }
}

// WithLogger attaches a structured logger used to report individual handler
// failures during dispatch. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *toyyibpay.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler builds a webhook handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		logger:   zerolog.Nop(),
		handlers: make(map[Event][]HandlerFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// On registers fn for the given event category. Handlers run in
// registration order.
func (h *Handler) On(event Event, fn HandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[event] = append(h.handlers[event], fn)
}

// OnPaymentSuccess registers fn for successful payments.
func (h *Handler) OnPaymentSuccess(fn HandlerFunc) { h.On(EventPaymentSuccess, fn) }

// OnPaymentFailed registers fn for failed payments.
func (h *Handler) OnPaymentFailed(fn HandlerFunc) { h.On(EventPaymentFailed, fn) }

// OnPaymentPending registers fn for pending payments.
func (h *Handler) OnPaymentPending(fn HandlerFunc) { h.On(EventPaymentPending, fn) }

// OnAllEvents registers fn for every callback, regardless of category.
func (h *Handler) OnAllEvents(fn HandlerFunc) { h.On(EventAll, fn) }

// Process runs the full pipeline on a raw callback payload: decode the JSON,
// verify the signature when enabled, validate and construct the callback
// record, derive its event category, and dispatch to registered handlers.
//
// Decode, signature and validation failures are returned as typed errors.
// Handler failures are logged and swallowed: Process returns the constructed
// record regardless of handler outcomes, so the caller can acknowledge the
// gateway promptly.
func (h *Handler) Process(payload []byte, headers map[string]string) (*toyyibpay.CallbackData, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, toyyibpay.NewWebhookError("Invalid JSON payload: "+err.Error(), err)
	}
	return h.process(payload, headers)
}

// ProcessMap runs the pipeline on an already-decoded payload (for callers
// that receive form-encoded callbacks and convert them to a map). For
// signature verification the map is serialized to its canonical compact JSON
// byte representation, which is deterministic.
func (h *Handler) ProcessMap(data map[string]interface{}, headers map[string]string) (*toyyibpay.CallbackData, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, toyyibpay.NewWebhookError("Invalid callback payload: "+err.Error(), err)
	}
	return h.process(raw, headers)
}

func (h *Handler) process(raw []byte, headers map[string]string) (*toyyibpay.CallbackData, error) {
	if h.verifySignature && h.secretKey != "" {
		if err := h.verify(raw, headers); err != nil {
			h.observe("", "rejected")
			return nil, err
		}
	}

	data, err := parseCallback(raw)
	if err != nil {
		h.observe("", "rejected")
		return nil, err
	}

	event := EventForStatus(data.Status)
	h.dispatch(event, data)
	h.dispatch(EventAll, data)
	h.observe(string(event), "processed")
	return data, nil
}

// dispatch invokes every handler registered for the event, in registration
// order. Each invocation is isolated: an error or panic from one handler is
// logged and never stops the remaining handlers or reaches the caller.
func (h *Handler) dispatch(event Event, data *toyyibpay.CallbackData) {
	h.mu.RLock()
	handlers := h.handlers[event]
	h.mu.RUnlock()

	for i, fn := range handlers {
		h.invoke(event, i, fn, data)
	}
}

func (h *Handler) invoke(event Event, index int, fn HandlerFunc, data *toyyibpay.CallbackData) {
	defer func() {
		if r := recover(); r != nil {
			h.logHandlerError(event, index, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(data); err != nil {
		h.logHandlerError(event, index, err)
	}
}

func (h *Handler) logHandlerError(event Event, index int, err error) {
	h.logger.Error().
		Str("event", string(event)).
		Int("handler", index).
		Err(err).
		Msg("webhook handler failed")
	if h.metrics != nil {
		h.metrics.WebhookHandlerErrors.WithLabelValues(string(event)).Inc()
	}
}

func (h *Handler) observe(event, outcome string) {
	if h.metrics == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	h.metrics.WebhookEventsTotal.WithLabelValues(event, outcome).Inc()
}

// parseCallback validates the decoded payload shape and constructs the
// immutable callback record. The wire amount is in minor units; the division
// by 100 here is the only conversion point.
func parseCallback(raw []byte) (*toyyibpay.CallbackData, error) {
	if err := validateCallbackShape(raw); err != nil {
		return nil, toyyibpay.NewWebhookError("Invalid callback data: "+err.Error(), err)
	}

	var wire struct {
		RefNo           string                  `json:"refno"`
		OrderID         string                  `json:"order_id"`
		BillCode        string                  `json:"billcode"`
		Status          toyyibpay.PaymentStatus `json:"status"`
		Reason          string                  `json:"reason"`
		Amount          decimal.Decimal         `json:"amount"`
		TransactionTime string                  `json:"transaction_time"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, toyyibpay.NewWebhookError("Invalid callback data: "+err.Error(), err)
	}

	return &toyyibpay.CallbackData{
		RefNo:           wire.RefNo,
		OrderID:         wire.OrderID,
		BillCode:        wire.BillCode,
		Status:          wire.Status,
		Reason:          wire.Reason,
		Amount:          wire.Amount.Div(decimal.NewFromInt(100)),
		TransactionTime: wire.TransactionTime,
	}, nil
}
