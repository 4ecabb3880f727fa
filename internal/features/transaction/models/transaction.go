package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusCompleted = "completed"

// Transaction is one recorded tip. Records are append-only; the only later
// mutation is the claim workflow clearing PendingClaim for a freshly claimed
// handle.
type Transaction struct {
	ID             int64           `json:"id"`
	SenderHandle   string          `json:"senderHandle"`
	ReceiverHandle string          `json:"receiverHandle"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Chain          string          `json:"chain"`
	TxHash         string          `json:"txHash"`
	USDValue       decimal.Decimal `json:"usdValue"`
	Status         string          `json:"status"`
	PendingClaim   bool            `json:"pendingClaim"`
	CreatedAt      time.Time       `json:"createdAt"`
	ClaimedAt      *time.Time      `json:"claimedAt,omitempty"`
}

// Clone returns a copy so store internals never alias caller state.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	if t.ClaimedAt != nil {
		at := *t.ClaimedAt
		cp.ClaimedAt = &at
	}
	return &cp
}
