package toyyibpay

import (
	"errors"
	"fmt"
)

// ErrorType identifies the category of an SDK error. The taxonomy is flat:
// every error the SDK raises is a *Error carrying one of these types, so
// callers can branch on the failure class (retry on network/timeout, surface
// validation errors, etc.).
type ErrorType string

const (
	// ErrorTypeConfiguration indicates invalid or missing client configuration.
	ErrorTypeConfiguration ErrorType = "configuration_error"

	// ErrorTypeAuthentication indicates the gateway rejected the API key (HTTP 401).
	ErrorTypeAuthentication ErrorType = "authentication_error"

	// ErrorTypeAPI indicates a gateway-side failure (HTTP 5xx or any other
	// unexpected non-2xx status).
	ErrorTypeAPI ErrorType = "api_error"

	// ErrorTypeValidation indicates a business-rule violation detected before
	// or after the request (invalid amount, missing bill code in response).
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeNetwork indicates a transport-level connection failure.
	ErrorTypeNetwork ErrorType = "network_error"

	// ErrorTypeTimeout indicates the request exceeded the configured timeout.
	ErrorTypeTimeout ErrorType = "timeout_error"

	// ErrorTypeRateLimit indicates the gateway throttled the request (HTTP 429).
	ErrorTypeRateLimit ErrorType = "rate_limit_error"

	// ErrorTypePayment indicates a payment processing failure.
	ErrorTypePayment ErrorType = "payment_error"

	// ErrorTypeWebhook indicates an inbound callback could not be processed.
	ErrorTypeWebhook ErrorType = "webhook_error"

	// ErrorTypeSignatureVerification is the webhook subtype raised when HMAC
	// verification of a callback fails. IsWebhookError reports true for it.
	ErrorTypeSignatureVerification ErrorType = "signature_verification_error"

	// ErrorTypeDatabase indicates a payment-store operation failed.
	ErrorTypeDatabase ErrorType = "database_error"
)

// Error is the error type returned by all SDK operations.
type Error struct {
	Type ErrorType

	// Message is a human-readable description of the failure.
	Message string

	// Code is an optional machine-readable code (e.g. "duplicate" for
	// unique-constraint violations surfaced by the store).
	Code string

	// StatusCode is the HTTP status of the gateway response, when the error
	// was classified at the transport boundary. Zero otherwise.
	StatusCode int

	// Response holds the normalized gateway response body, when available.
	Response map[string]interface{}

	err error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("toyyibpay: %s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("toyyibpay: %s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.err }

func newError(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// NewConfigurationError reports invalid or missing configuration.
func NewConfigurationError(message string) *Error {
	return newError(ErrorTypeConfiguration, message)
}

// NewAuthenticationError reports a rejected API key.
func NewAuthenticationError(message string, statusCode int, response map[string]interface{}) *Error {
	return &Error{Type: ErrorTypeAuthentication, Message: message, StatusCode: statusCode, Response: response}
}

// NewAPIError reports a gateway-side failure.
func NewAPIError(message string, statusCode int, response map[string]interface{}) *Error {
	return &Error{Type: ErrorTypeAPI, Message: message, StatusCode: statusCode, Response: response}
}

// NewValidationError reports a business-rule violation.
func NewValidationError(message string) *Error {
	return newError(ErrorTypeValidation, message)
}

// NewNetworkError reports a transport-level connection failure.
func NewNetworkError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: message, err: cause}
}

// NewTimeoutError reports an expired request deadline.
func NewTimeoutError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeTimeout, Message: message, err: cause}
}

// NewRateLimitError reports gateway throttling.
func NewRateLimitError(message string, statusCode int, response map[string]interface{}) *Error {
	return &Error{Type: ErrorTypeRateLimit, Message: message, StatusCode: statusCode, Response: response}
}

// NewPaymentError reports a payment processing failure.
func NewPaymentError(message string) *Error {
	return newError(ErrorTypePayment, message)
}

// NewWebhookError reports a callback-processing failure.
func NewWebhookError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeWebhook, Message: message, err: cause}
}

// NewSignatureVerificationError reports a failed callback signature check.
func NewSignatureVerificationError(message string) *Error {
	return newError(ErrorTypeSignatureVerification, message)
}

// NewDatabaseError reports a payment-store failure.
func NewDatabaseError(message string, code string, cause error) *Error {
	return &Error{Type: ErrorTypeDatabase, Message: message, Code: code, err: cause}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func isType(err error, t ErrorType) bool {
	e, ok := AsError(err)
	return ok && e.Type == t
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool { return isType(err, ErrorTypeConfiguration) }

// IsAuthenticationError reports whether err is an authentication error.
func IsAuthenticationError(err error) bool { return isType(err, ErrorTypeAuthentication) }

// IsAPIError reports whether err is a gateway API error.
func IsAPIError(err error) bool { return isType(err, ErrorTypeAPI) }

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNetworkError reports whether err is a transport-level network error.
func IsNetworkError(err error) bool { return isType(err, ErrorTypeNetwork) }

// IsTimeoutError reports whether err is a request timeout.
func IsTimeoutError(err error) bool { return isType(err, ErrorTypeTimeout) }

// IsRateLimitError reports whether err is a rate-limit error.
func IsRateLimitError(err error) bool { return isType(err, ErrorTypeRateLimit) }

// IsRetryable reports whether the failure class is plausibly transient.
// Network and timeout errors may succeed on retry; validation and
// authentication errors will not.
func IsRetryable(err error) bool {
	return IsNetworkError(err) || IsTimeoutError(err) || IsRateLimitError(err)
}

// IsWebhookError reports whether err is a webhook-processing error,
// including its signature-verification subtype.
func IsWebhookError(err error) bool {
	return isType(err, ErrorTypeWebhook) || isType(err, ErrorTypeSignatureVerification)
}

// IsSignatureVerificationError reports whether err is specifically a failed
// signature check.
func IsSignatureVerificationError(err error) bool {
	return isType(err, ErrorTypeSignatureVerification)
}

// IsDatabaseError reports whether err is a payment-store error.
func IsDatabaseError(err error) bool { return isType(err, ErrorTypeDatabase) }
