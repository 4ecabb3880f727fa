package memory

import (
	"context"
	"time"

	creatormodels "tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/upvote/models"
	"tiponx-backend/internal/features/upvote/repository"
	"tiponx-backend/internal/platform/memstore"
)

type memoryRepository struct {
	store *memstore.Store
}

func NewMemoryRepository(store *memstore.Store) repository.UpvoteRepository {
	return &memoryRepository{store: store}
}

func (r *memoryRepository) Has(_ context.Context, creatorHandle, voterWallet string) (bool, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	_, ok := r.store.Upvotes[memstore.UpvoteKey(creatorHandle, voterWallet)]
	return ok, nil
}

// Cast records the vote and bumps the counter under one lock, mirroring the
// SQL backend's transaction.
func (r *memoryRepository) Cast(_ context.Context, upvote *models.Upvote) (*creatormodels.Creator, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	key := memstore.UpvoteKey(upvote.CreatorHandle, upvote.VoterWallet)
	if _, ok := r.store.Upvotes[key]; ok {
		return nil, repository.ErrAlreadyVoted
	}
	creator, ok := r.store.Creators[upvote.CreatorHandle]
	if !ok {
		return nil, repository.ErrCreatorNotFound
	}

	r.store.NextUpvoteID++
	now := time.Now()
	record := *upvote
	record.ID = r.store.NextUpvoteID
	record.CreatedAt = now
	r.store.Upvotes[key] = &record

	creator.UpvoteCount++
	creator.UpdatedAt = now
	return creator.Clone(), nil
}
