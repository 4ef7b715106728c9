package toyyibpay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the SDK's optional Prometheus instrumentation. Nothing is
// registered unless the caller builds a Metrics and attaches it with
// WithMetrics / webhook.WithMetrics.
type Metrics struct {
	// RequestsTotal counts gateway requests, labeled by endpoint and outcome
	// (success / error).
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks gateway request latency per endpoint.
	RequestDuration *prometheus.HistogramVec

	// WebhookEventsTotal counts processed webhook callbacks, labeled by event
	// category and outcome (processed / rejected).
	WebhookEventsTotal *prometheus.CounterVec

	// WebhookHandlerErrors counts individual handler failures during webhook
	// dispatch, labeled by event category.
	WebhookHandlerErrors *prometheus.CounterVec
}

// NewMetrics creates and registers the SDK collectors on reg. Pass
// prometheus.DefaultRegisterer to use the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toyyibpay_requests_total",
			Help: "Total gateway requests, labeled by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "toyyibpay_request_duration_seconds",
			Help:    "Latency distribution of gateway requests",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		WebhookEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toyyibpay_webhook_events_total",
			Help: "Total webhook callbacks processed, labeled by event and outcome",
		}, []string{"event", "outcome"}),
		WebhookHandlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toyyibpay_webhook_handler_errors_total",
			Help: "Total individual webhook handler failures, labeled by event",
		}, []string{"event"}),
	}
}
