package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

// SignatureHeader is the header carrying the callback's HMAC signature.
const SignatureHeader = "X-ToyyibPay-Signature"

// verify checks the callback signature: HMAC-SHA256 over the exact raw
// payload bytes, keyed with the configured secret, hex-encoded and compared
// in constant time against the signature header. The gateway does not
// document a signature scheme; this one is the SDK's contract.
func (h *Handler) verify(raw []byte, headers map[string]string) error {
	if len(headers) == 0 {
		return toyyibpay.NewSignatureVerificationError("No headers provided for signature verification")
	}

	signature := lookupHeader(headers, SignatureHeader)
	if signature == "" {
		return toyyibpay.NewSignatureVerificationError("No signature header found")
	}

	mac := hmac.New(sha256.New, []byte(h.secretKey))
	mac.Write(raw)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return toyyibpay.NewSignatureVerificationError("Invalid signature")
	}
	return nil
}

// lookupHeader finds a header value case-insensitively, since callers hand
// us header maps from different HTTP stacks with different canonical forms.
func lookupHeader(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Sign computes the signature the verifier expects for the given payload,
// keyed with secret. Useful for tests and for callers that relay callbacks
// to their own services.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
