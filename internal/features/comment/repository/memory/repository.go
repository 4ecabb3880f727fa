package memory

import (
	"context"
	"sort"
	"time"

	"tiponx-backend/internal/features/comment/models"
	"tiponx-backend/internal/features/comment/repository"
	"tiponx-backend/internal/platform/memstore"
)

type commentRepository struct {
	store *memstore.Store
}

func NewMemoryRepository(store *memstore.Store) repository.CommentRepository {
	return &commentRepository{store: store}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	stored := comment.Clone()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.store.Comments[stored.ID] = stored
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	c, ok := r.store.Comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *commentRepository) ListByProfile(ctx context.Context, profileHandle string) ([]*models.Comment, error) {
	r.store.Mu.RLock()
	defer r.store.Mu.RUnlock()

	var out []*models.Comment
	for _, c := range r.store.Comments {
		if c.ProfileHandle == profileHandle && !c.IsDeleted {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *commentRepository) SetLikes(ctx context.Context, id string, likedBy []string) (*models.Comment, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	c, ok := r.store.Comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.LikedBy = append([]string(nil), likedBy...)
	c.Likes = len(c.LikedBy)
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id string) (*models.Comment, error) {
	r.store.Mu.Lock()
	defer r.store.Mu.Unlock()

	c, ok := r.store.Comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.IsDeleted = true
	c.Content = "[deleted]"
	c.UpdatedAt = time.Now().UTC()
	return c.Clone(), nil
}
