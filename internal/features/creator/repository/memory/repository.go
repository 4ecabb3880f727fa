package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository"
	"tiponx-backend/internal/platform/memstore"
)

type memoryRepository struct {
	store *memstore.Store
}

// NewMemoryRepository returns a CreatorRepository over the shared in-memory
// store. All mutations happen under the store mutex, which is what makes the
// claim CAS and backlog settlement atomic.
func NewMemoryRepository(store *memstore.Store) repository.CreatorRepository {
	return &memoryRepository{store: store}
}

func (r *memoryRepository) Create(_ context.Context, creator *models.Creator) error {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	if _, exists := r.store.Creators[creator.Handle]; exists {
		return repository.ErrAlreadyExists
	}
	r.store.Creators[creator.Handle] = creator.Clone()
	return nil
}

func (r *memoryRepository) GetByHandle(_ context.Context, handle string) (*models.Creator, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	creator, ok := r.store.Creators[handle]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return creator.Clone(), nil
}

func (r *memoryRepository) Update(_ context.Context, handle string, patch *models.ProfileUpdate) (*models.Creator, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	creator, ok := r.store.Creators[handle]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		creator.Name = *patch.Name
	}
	if patch.Avatar != nil {
		creator.Avatar = *patch.Avatar
	}
	if patch.Description != nil {
		creator.Description = *patch.Description
	}
	if len(patch.Wallets) > 0 {
		if creator.Wallets == nil {
			creator.Wallets = make(map[string]string, len(patch.Wallets))
		}
		for currency, address := range patch.Wallets {
			creator.Wallets[currency] = address
		}
	}
	creator.UpdatedAt = time.Now()
	return creator.Clone(), nil
}

func (r *memoryRepository) RedeemClaim(_ context.Context, claimCode string, wallets map[string]string) (*models.Creator, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	var creator *models.Creator
	for _, c := range r.store.Creators {
		if c.ClaimCode == claimCode {
			creator = c
			break
		}
	}
	if creator == nil {
		return nil, repository.ErrClaimNotFound
	}
	if creator.IsClaimed {
		return nil, repository.ErrAlreadyClaimed
	}

	now := time.Now()
	creator.IsClaimed = true
	creator.ClaimedAt = &now
	creator.UpdatedAt = now
	if creator.Wallets == nil {
		creator.Wallets = make(map[string]string, len(wallets))
	}
	for currency, address := range wallets {
		creator.Wallets[currency] = address
	}

	// Settle tips recorded while the profile was unclaimed.
	for _, tx := range r.store.Transactions {
		if tx.ReceiverHandle == creator.Handle && tx.PendingClaim {
			tx.PendingClaim = false
			at := now
			tx.ClaimedAt = &at
		}
	}

	return creator.Clone(), nil
}

func (r *memoryRepository) MarkTwitterVerified(_ context.Context, handle, tweetURL string) (*models.Creator, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	creator, ok := r.store.Creators[handle]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !creator.IsTwitterVerified {
		now := time.Now()
		creator.IsTwitterVerified = true
		creator.TwitterVerifiedAt = &now
		creator.VerifiedTweetURL = tweetURL
		creator.UpdatedAt = now
	}
	return creator.Clone(), nil
}

func (r *memoryRepository) SetVerificationCode(_ context.Context, handle, code string) (*models.Creator, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	creator, ok := r.store.Creators[handle]
	if !ok {
		return nil, repository.ErrNotFound
	}
	creator.VerificationCode = code
	creator.UpdatedAt = time.Now()
	return creator.Clone(), nil
}

func (r *memoryRepository) Sample(_ context.Context, n int) ([]*models.Creator, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	all := make([]*models.Creator, 0, len(r.store.Creators))
	for _, c := range r.store.Creators {
		all = append(all, c)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if n > len(all) {
		n = len(all)
	}
	out := make([]*models.Creator, 0, n)
	for _, c := range all[:n] {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (r *memoryRepository) Search(_ context.Context, query string, limit int) ([]*models.Creator, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	lower := strings.ToLower(query)
	var matched []*models.Creator
	for _, c := range r.store.Creators {
		if strings.Contains(strings.ToLower(c.Handle), lower) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*models.Creator, 0, len(matched))
	for _, c := range matched {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (r *memoryRepository) Rankings(_ context.Context, limit int, since time.Time) ([]*models.RankedCreator, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	var rankings []*models.RankedCreator
	for _, c := range r.store.Creators {
		var tips, upvotes int64
		for _, tx := range r.store.Transactions {
			if tx.ReceiverHandle == c.Handle && !tx.CreatedAt.Before(since) {
				tips++
			}
		}
		for _, uv := range r.store.Upvotes {
			if uv.CreatorHandle == c.Handle && !uv.CreatedAt.Before(since) {
				upvotes++
			}
		}
		rankings = append(rankings, &models.RankedCreator{
			Handle:      c.Handle,
			Name:        c.Name,
			Avatar:      c.Avatar,
			Description: c.Description,
			IsClaimed:   c.IsClaimed,
			TipCount:    tips,
			UpvoteCount: upvotes,
			Score:       tips*10 + upvotes*10,
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].Handle < rankings[j].Handle
	})
	if limit < len(rankings) {
		rankings = rankings[:limit]
	}
	return rankings, nil
}
