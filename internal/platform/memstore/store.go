package memstore

import (
	"sync"

	commentmodels "tiponx-backend/internal/features/comment/models"
	creatormodels "tiponx-backend/internal/features/creator/models"
	txmodels "tiponx-backend/internal/features/transaction/models"
	upvotemodels "tiponx-backend/internal/features/upvote/models"
)

// Store is the in-memory storage backend. All feature repositories share one
// Store and take its mutex, so multi-collection operations (claim backlog
// settlement, upvote counter increment) are atomic, matching the per-document
// transaction guarantees of the SQL backend.
type Store struct {
	Mu sync.RWMutex

	Creators     map[string]*creatormodels.Creator // keyed by canonical handle
	Transactions []*txmodels.Transaction
	Upvotes      map[string]*upvotemodels.Upvote // keyed by handle + "\x00" + wallet
	Comments     map[string]*commentmodels.Comment

	NextTxID     int64
	NextUpvoteID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		Creators: make(map[string]*creatormodels.Creator),
		Upvotes:  make(map[string]*upvotemodels.Upvote),
		Comments: make(map[string]*commentmodels.Comment),
	}
}

// UpvoteKey builds the uniqueness key for the upvote ledger.
func UpvoteKey(creatorHandle, voterWallet string) string {
	return creatorHandle + "\x00" + voterWallet
}
