package toyyibpay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Gateway endpoint names under /index.php/api/.
const (
	endpointCreateBill          = "createBill"
	endpointGetBillTransactions = "getBillTransactions"
	endpointCreateCategory      = "createCategory"
)

// transport issues authenticated form-encoded POSTs against the gateway and
// normalizes whatever comes back. All transport and HTTP failures are
// classified here, exactly once; callers never re-wrap them.
type transport struct {
	cfg        *Config
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
}

func newTransport(cfg *Config, httpClient *http.Client, logger zerolog.Logger, metrics *Metrics) *transport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout()}
	}
	return &transport{cfg: cfg, httpClient: httpClient, logger: logger, metrics: metrics}
}

// post sends a form-encoded POST to the named endpoint. The configured API
// key is injected as userSecretKey on every request. The returned map is the
// normalized response body (see normalizeBody).
func (t *transport) post(ctx context.Context, endpoint string, data url.Values) (map[string]interface{}, error) {
	if data == nil {
		data = url.Values{}
	}
	data.Set("userSecretKey", t.cfg.APIKey)

	reqURL := t.cfg.APIBaseURL() + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, NewNetworkError("failed to build request: "+err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range t.cfg.AdditionalHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.observe(endpoint, "error", start)
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.observe(endpoint, "error", start)
		return nil, NewNetworkError("failed to read response body: "+err.Error(), err)
	}

	t.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("gateway request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.observe(endpoint, "error", start)
		return nil, classifyHTTPError(resp.StatusCode, body)
	}

	t.observe(endpoint, "success", start)
	return normalizeBody(body), nil
}

func (t *transport) observe(endpoint, outcome string, start time.Time) {
	if t.metrics == nil {
		return
	}
	t.metrics.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	t.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// normalizeBody converts the gateway's heterogeneous response shapes into one
// canonical mapping: JSON objects pass through, JSON arrays are wrapped as
// {"data": [...]}, and anything that is not a JSON object or array becomes
// {"response": <raw text>}.
func normalizeBody(body []byte) map[string]interface{} {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		switch v := decoded.(type) {
		case map[string]interface{}:
			return v
		case []interface{}:
			return map[string]interface{}{"data": v}
		}
	}
	return map[string]interface{}{"response": string(body)}
}

// classifyTransportError maps client-side failures onto the error taxonomy:
// expired deadlines become timeout errors, everything else is a network
// error.
func classifyTransportError(err error) *Error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return NewTimeoutError("Request timed out: "+err.Error(), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("Request timed out: "+err.Error(), err)
	}
	return NewNetworkError("Network error: "+err.Error(), err)
}

// classifyHTTPError maps non-2xx gateway responses onto the error taxonomy,
// in priority order: 401, 429, 5xx, everything else.
func classifyHTTPError(statusCode int, body []byte) *Error {
	var response map[string]interface{}
	message := ""
	if err := json.Unmarshal(body, &response); err == nil {
		if m, ok := response["message"].(string); ok {
			message = m
		}
	} else {
		response = nil
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		if message == "" {
			message = "Invalid API key"
		}
		return NewAuthenticationError(message, statusCode, response)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError("Rate limit exceeded", statusCode, response)
	case statusCode >= 500:
		if message == "" {
			message = http.StatusText(statusCode)
		}
		return NewAPIError("Server error: "+message, statusCode, response)
	default:
		if message == "" {
			message = http.StatusText(statusCode)
		}
		return NewAPIError(message, statusCode, response)
	}
}
