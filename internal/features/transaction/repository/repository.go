package repository

import (
	"context"

	"tiponx-backend/internal/features/transaction/models"
)

// TransactionRepository stores the append-only tip ledger. Listings return
// newest records first.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	List(ctx context.Context, limit int) ([]*models.Transaction, error)
	ListBySender(ctx context.Context, senderHandle string, limit int) ([]*models.Transaction, error)
	ListByReceiver(ctx context.Context, receiverHandle string, limit int) ([]*models.Transaction, error)
}
