package toyyibpay

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// NewULID returns a 26-character lexicographically sortable identifier,
// used as the default bill name and as payment-record primary keys.
func NewULID() string {
	return ulid.Make().String()
}

// GenerateOrderID returns a unique order reference of the form
// PREFIX-20060102150405-XXXXXXXX. The suffix is derived from a random UUID.
func GenerateOrderID(prefix string) string {
	if prefix == "" {
		prefix = "ORD"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + time.Now().Format("20060102150405") + "-" + suffix
}

// AmountToCents converts a major-unit amount to minor units (cents),
// rounding half-up. This is the single conversion point for outbound
// payloads.
func AmountToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CentsToAmount converts minor units (cents) to a major-unit amount.
func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// CleanPhoneNumber strips non-digits and normalizes a leading Malaysian
// country code (60...) to the domestic 0-prefixed form.
func CleanPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if strings.HasPrefix(cleaned, "60") && len(cleaned) > 10 {
		cleaned = "0" + cleaned[2:]
	}
	return cleaned
}

// SanitizeAlphanumeric drops every rune that is not a letter, digit, space
// or underscore, matching the gateway's bill name/description constraint.
func SanitizeAlphanumeric(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TruncateString shortens text to maxLength runes, appending "..." when it
// had to cut.
func TruncateString(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	const suffix = "..."
	if maxLength <= len(suffix) {
		return text[:maxLength]
	}
	return text[:maxLength-len(suffix)] + suffix
}
