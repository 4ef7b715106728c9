package toyyibpay

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PaymentStatus is the gateway's payment state code. The gateway is not
// consistent about types: depending on the endpoint the code arrives as a
// JSON number or a numeric string, so UnmarshalJSON accepts both.
type PaymentStatus int

const (
	StatusSuccess            PaymentStatus = 1
	StatusPending            PaymentStatus = 2
	StatusFailed             PaymentStatus = 3
	StatusPendingTransaction PaymentStatus = 4
)

// String returns a stable human-readable name for the status.
func (s PaymentStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	case StatusPendingTransaction:
		return "pending_transaction"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// UnmarshalJSON accepts the status as either a JSON number or a numeric
// string ("1" and 1 are equivalent on the wire).
func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	n, err := flexInt(data)
	if err != nil {
		return fmt.Errorf("invalid payment status %s: %w", string(data), err)
	}
	*s = PaymentStatus(n)
	return nil
}

// MarshalJSON encodes the status as its integer code.
func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// PaymentChannel selects which payment rails a bill accepts.
type PaymentChannel int

const (
	ChannelFPX              PaymentChannel = 0
	ChannelCreditCard       PaymentChannel = 1
	ChannelFPXAndCreditCard PaymentChannel = 2
)

// ChargeParty selects who absorbs the gateway fee.
type ChargeParty int

const (
	ChargeCustomer ChargeParty = 0
	ChargeOwner    ChargeParty = 1
)

// PriceSetting selects whether the bill amount is fixed or payer-defined.
type PriceSetting int

const (
	PriceVariable PriceSetting = 0
	PriceFixed    PriceSetting = 1
)

// PayerInfo selects whether payer details are collected on the payment page.
type PayerInfo int

const (
	PayerInfoHide PayerInfo = 0
	PayerInfoShow PayerInfo = 1
)

// Environment selects which gateway deployment the client talks to.
type Environment string

const (
	EnvDev        Environment = "dev"
	EnvStaging    Environment = "staging"
	EnvProduction Environment = "production"
)

// CorporateBankingThreshold is the fixed amount at or above which a bill is
// routed through the FPX corporate-banking (B2B) rail. Compared against the
// major-unit bill amount, matching the gateway's observed behavior.
const CorporateBankingThreshold = 30000

// DefaultBillExpiryDays is the default number of days before a bill expires.
const DefaultBillExpiryDays = 1

// flexInt parses a JSON number or numeric string into an int.
func flexInt(data []byte) (int, error) {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
