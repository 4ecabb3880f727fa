package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tiponx-backend/internal/features/transaction/models"
	"tiponx-backend/internal/features/transaction/repository"
)

const transactionColumns = `id, sender_handle, receiver_handle, amount, currency, chain,
	tx_hash, usd_value, status, pending_claim, created_at, claimed_at`

type transactionRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var claimedAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.SenderHandle, &t.ReceiverHandle, &t.Amount, &t.Currency, &t.Chain,
		&t.TxHash, &t.USDValue, &t.Status, &t.PendingClaim, &t.CreatedAt, &claimedAt,
	)
	if err != nil {
		return nil, err
	}
	if claimedAt.Valid {
		t.ClaimedAt = &claimedAt.Time
	}
	return &t, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (sender_handle, receiver_handle, amount, currency, chain,
			tx_hash, usd_value, status, pending_claim)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns,
		tx.SenderHandle, tx.ReceiverHandle, tx.Amount, tx.Currency, tx.Chain,
		tx.TxHash, tx.USDValue, tx.Status, tx.PendingClaim,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return created, nil
}

func (r *transactionRepository) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	return r.query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
}

func (r *transactionRepository) ListBySender(ctx context.Context, senderHandle string, limit int) ([]*models.Transaction, error) {
	return r.query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE sender_handle = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit, senderHandle)
}

func (r *transactionRepository) ListByReceiver(ctx context.Context, receiverHandle string, limit int) ([]*models.Transaction, error) {
	return r.query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE receiver_handle = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit, receiverHandle)
}

func (r *transactionRepository) query(ctx context.Context, q string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
