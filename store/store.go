// Package store persists payment records created alongside gateway bills.
// It is an optional collaborator: the core client never touches it, but
// webhook handlers typically update a record here when a callback arrives.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

// Payment is one persisted payment record. Records are soft-deleted: reads
// ignore rows with a DeletedAt timestamp.
type Payment struct {
	ID       string
	OrderID  string
	BillCode string
	Amount   decimal.Decimal
	Currency string
	Status   toyyibpay.PaymentStatus

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Channel            toyyibpay.PaymentChannel
	CategoryCode       string
	BillDescription    string
	TransactionMessage *string
	TransactionRef     *string
	ReturnURL          string
	CallbackURL        string
	ChargeToCustomer   bool

	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	TransactionTime *time.Time
}

// CreatePaymentParams are the fields required to create a payment record.
// ID defaults to a generated ULID and Currency to MYR.
type CreatePaymentParams struct {
	ID       string
	OrderID  string
	BillCode string
	Amount   decimal.Decimal
	Currency string
	Status   toyyibpay.PaymentStatus

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Channel          toyyibpay.PaymentChannel
	CategoryCode     string
	BillDescription  string
	ReturnURL        string
	CallbackURL      string
	ChargeToCustomer bool
}

// UpdateStatusParams carry the optional transaction metadata recorded with a
// status change.
type UpdateStatusParams struct {
	TransactionRef     string
	TransactionMessage string
	TransactionTime    *time.Time
}

// ListParams filter and page ListPayments. Limit defaults to 100.
type ListParams struct {
	Status *toyyibpay.PaymentStatus
	Limit  int
	Offset int
}

// PaymentStore is the persistence surface the SDK's collaborators rely on.
// Lookups return (nil, nil) when no live record matches.
type PaymentStore interface {
	CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error)
	GetPaymentByBillCode(ctx context.Context, billCode string) (*Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status toyyibpay.PaymentStatus, params UpdateStatusParams) (*Payment, error)
	ListPayments(ctx context.Context, params ListParams) ([]Payment, error)
	SoftDeletePayment(ctx context.Context, id string) (*Payment, error)
}
