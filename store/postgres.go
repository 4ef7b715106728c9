package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

// uniqueViolation is the Postgres error code for unique-constraint
// violations (duplicate order_id or bill_code).
const uniqueViolation = "23505"

// PostgresStore is the pgx-backed PaymentStore implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ PaymentStore = (*PostgresStore)(nil)

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a connection pool for the given Postgres URL and verifies it
// with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, toyyibpay.NewDatabaseError("failed to create connection pool: "+err.Error(), "", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, toyyibpay.NewDatabaseError("failed to connect to database: "+err.Error(), "", err)
	}
	return pool, nil
}

const paymentColumns = `id, order_id, bill_code, amount, currency, status,
	customer_name, customer_email, customer_phone,
	tp_channel, tp_category_code, tp_bill_description,
	tp_transaction_message, tp_transaction_ref,
	tp_return_url, tp_callback_url, tp_bill_charge_to_customer,
	created_at, updated_at, deleted_at, transaction_time`

// CreatePayment inserts a new payment record. A duplicate order_id or
// bill_code surfaces as a database error with code "duplicate", never as a
// silent overwrite.
func (s *PostgresStore) CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error) {
	if params.ID == "" {
		params.ID = toyyibpay.NewULID()
	}
	if params.Currency == "" {
		params.Currency = "MYR"
	}
	if params.Status == 0 {
		params.Status = toyyibpay.StatusPending
	}

	query := `
		INSERT INTO payments (
			id, order_id, bill_code, amount, currency, status,
			customer_name, customer_email, customer_phone,
			tp_channel, tp_category_code, tp_bill_description,
			tp_return_url, tp_callback_url, tp_bill_charge_to_customer
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		RETURNING created_at
	`

	payment := &Payment{
		ID:               params.ID,
		OrderID:          params.OrderID,
		BillCode:         params.BillCode,
		Amount:           params.Amount,
		Currency:         params.Currency,
		Status:           params.Status,
		CustomerName:     params.CustomerName,
		CustomerEmail:    params.CustomerEmail,
		CustomerPhone:    params.CustomerPhone,
		Channel:          params.Channel,
		CategoryCode:     params.CategoryCode,
		BillDescription:  params.BillDescription,
		ReturnURL:        params.ReturnURL,
		CallbackURL:      params.CallbackURL,
		ChargeToCustomer: params.ChargeToCustomer,
	}

	err := s.pool.QueryRow(ctx, query,
		params.ID,
		params.OrderID,
		params.BillCode,
		params.Amount,
		params.Currency,
		int(params.Status),
		params.CustomerName,
		params.CustomerEmail,
		params.CustomerPhone,
		int(params.Channel),
		params.CategoryCode,
		params.BillDescription,
		params.ReturnURL,
		params.CallbackURL,
		params.ChargeToCustomer,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return nil, mapPostgresError("failed to create payment", err)
	}
	return payment, nil
}

// GetPayment returns the live payment with the given ID, or (nil, nil).
func (s *PostgresStore) GetPayment(ctx context.Context, id string) (*Payment, error) {
	return s.getBy(ctx, "id", id)
}

// GetPaymentByOrderID returns the live payment for an order ID, or (nil, nil).
func (s *PostgresStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	return s.getBy(ctx, "order_id", orderID)
}

// GetPaymentByBillCode returns the live payment for a bill code, or (nil, nil).
func (s *PostgresStore) GetPaymentByBillCode(ctx context.Context, billCode string) (*Payment, error) {
	return s.getBy(ctx, "bill_code", billCode)
}

func (s *PostgresStore) getBy(ctx context.Context, column, value string) (*Payment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM payments WHERE %s = $1 AND deleted_at IS NULL`,
		paymentColumns, column,
	)
	payment, err := scanPayment(s.pool.QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPostgresError("failed to load payment", err)
	}
	return payment, nil
}

// UpdatePaymentStatus sets a new status plus optional transaction metadata
// on a live payment. Returns (nil, nil) when the record does not exist.
func (s *PostgresStore) UpdatePaymentStatus(ctx context.Context, id string, status toyyibpay.PaymentStatus, params UpdateStatusParams) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = $2,
			tp_transaction_ref = COALESCE(NULLIF($3, ''), tp_transaction_ref),
			tp_transaction_message = COALESCE(NULLIF($4, ''), tp_transaction_message),
			transaction_time = COALESCE($5, transaction_time),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + paymentColumns

	payment, err := scanPayment(s.pool.QueryRow(ctx, query,
		id, int(status), params.TransactionRef, params.TransactionMessage, params.TransactionTime,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPostgresError("failed to update payment status", err)
	}
	return payment, nil
}

// ListPayments returns live payments newest-first, optionally filtered by
// status.
func (s *PostgresStore) ListPayments(ctx context.Context, params ListParams) ([]Payment, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE deleted_at IS NULL`
	args := []interface{}{}
	if params.Status != nil {
		query += ` AND status = $1`
		args = append(args, int(*params.Status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError("failed to list payments", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, mapPostgresError("failed to scan payment", err)
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError("failed to list payments", err)
	}
	return payments, nil
}

// SoftDeletePayment marks a payment deleted. Returns (nil, nil) when the
// record does not exist or is already deleted.
func (s *PostgresStore) SoftDeletePayment(ctx context.Context, id string) (*Payment, error) {
	query := `
		UPDATE payments
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + paymentColumns

	payment, err := scanPayment(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPostgresError("failed to delete payment", err)
	}
	return payment, nil
}

// scanPayment reads one payment row. The column order must match
// paymentColumns.
func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var status, channel int
	err := row.Scan(
		&p.ID, &p.OrderID, &p.BillCode, &p.Amount, &p.Currency, &status,
		&p.CustomerName, &p.CustomerEmail, &p.CustomerPhone,
		&channel, &p.CategoryCode, &p.BillDescription,
		&p.TransactionMessage, &p.TransactionRef,
		&p.ReturnURL, &p.CallbackURL, &p.ChargeToCustomer,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &p.TransactionTime,
	)
	if err != nil {
		return nil, err
	}
	p.Status = toyyibpay.PaymentStatus(status)
	p.Channel = toyyibpay.PaymentChannel(channel)
	return &p, nil
}

// mapPostgresError classifies a pgx failure: unique-constraint violations
// become database errors with code "duplicate" so callers can distinguish
// integrity conflicts from transient failures.
func mapPostgresError(message string, err error) *toyyibpay.Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return toyyibpay.NewDatabaseError(
			fmt.Sprintf("%s: duplicate value for %s", message, pgErr.ConstraintName),
			"duplicate", err,
		)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return toyyibpay.NewDatabaseError(message+": "+err.Error(), "timeout", err)
	}
	return toyyibpay.NewDatabaseError(message+": "+err.Error(), "", err)
}
