package repository

import (
	"context"
	"errors"

	"tiponx-backend/internal/features/comment/models"
)

var ErrNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByProfile(ctx context.Context, profileHandle string) ([]*models.Comment, error)
	// SetLikes replaces the liker set of a comment.
	SetLikes(ctx context.Context, id string, likedBy []string) (*models.Comment, error)
	SoftDelete(ctx context.Context, id string) (*models.Comment, error)
}
