package memory

import (
	"context"
	"time"

	"tiponx-backend/internal/features/transaction/models"
	"tiponx-backend/internal/features/transaction/repository"
	"tiponx-backend/internal/platform/memstore"
)

type transactionRepository struct {
	store *memstore.Store
}

func NewMemoryRepository(store *memstore.Store) repository.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	r.store.NextTxID++
	stored := tx.Clone()
	stored.ID = r.store.NextTxID
	stored.CreatedAt = time.Now().UTC()
	r.store.Transactions = append(r.store.Transactions, stored)
	return stored.Clone(), nil
}

func (r *transactionRepository) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	return r.filter(limit, func(*models.Transaction) bool { return true })
}

func (r *transactionRepository) ListBySender(ctx context.Context, senderHandle string, limit int) ([]*models.Transaction, error) {
	return r.filter(limit, func(t *models.Transaction) bool { return t.SenderHandle == senderHandle })
}

func (r *transactionRepository) ListByReceiver(ctx context.Context, receiverHandle string, limit int) ([]*models.Transaction, error) {
	return r.filter(limit, func(t *models.Transaction) bool { return t.ReceiverHandle == receiverHandle })
}

// filter walks the ledger backwards so callers see newest records first.
func (r *transactionRepository) filter(limit int, keep func(*models.Transaction) bool) ([]*models.Transaction, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	var out []*models.Transaction
	for i := len(r.store.Transactions) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if t := r.store.Transactions[i]; keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}
