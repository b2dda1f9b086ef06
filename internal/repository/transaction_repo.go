package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-allocation-engine/internal/model"
)

// TransactionRepository reads checkout sessions written by the payment
// processor integration. It never writes.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `session_id, amount_total::text, currency, description, quantity, payment_status,
	COALESCE(payment_intent_id, ''), COALESCE(charge_id, ''), COALESCE(customer_email, ''), created_at`

// GetBySessionID returns pgx.ErrNoRows (wrapped) when the session does not exist.
func (r *TransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.PaymentTransaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM payment_transactions WHERE session_id = $1`, sessionID)

	txn, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("get payment transaction %s: %w", sessionID, err)
	}
	return txn, nil
}

// ListPaid returns up to limit paid sessions created in [from, to) that sort
// after the cursor by (created_at, session_id). Rows inserted during a walk
// never shift later pages, so no session is returned twice.
func (r *TransactionRepository) ListPaid(ctx context.Context, from, to time.Time, after model.SessionCursor, limit int) ([]*model.PaymentTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE payment_status = $1 AND created_at >= $2 AND created_at < $3`
	args := []any{model.PaymentStatusPaid, from, to}
	if !after.IsZero() {
		query += ` AND (created_at, session_id) > ($4, $5)`
		args = append(args, after.CreatedAt, after.SessionID)
	}
	query += fmt.Sprintf(` ORDER BY created_at, session_id LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query paid transactions: %w", err)
	}
	defer rows.Close()

	var results []*model.PaymentTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paid transaction: %w", err)
		}
		results = append(results, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paid transactions: %w", err)
	}

	return results, nil
}

func scanTransaction(row pgx.Row) (*model.PaymentTransaction, error) {
	var (
		txn    model.PaymentTransaction
		amount string
	)
	if err := row.Scan(&txn.SessionID, &amount, &txn.Currency, &txn.Description, &txn.Quantity,
		&txn.PaymentStatus, &txn.PaymentIntentID, &txn.ChargeID, &txn.CustomerEmail, &txn.CreatedAt); err != nil {
		return nil, err
	}

	total, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount_total %q: %w", amount, err)
	}
	txn.AmountTotal = total

	return &txn, nil
}
