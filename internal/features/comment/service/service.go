package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/validation"
	"tiponx-backend/internal/features/comment/models"
	"tiponx-backend/internal/features/comment/repository"
)

const maxContentLength = validation.MaxCommentLength

type CreateCommentRequest struct {
	ProfileHandle   string `json:"profileHandle"`
	AuthorHandle    string `json:"authorHandle"`
	ParentCommentID string `json:"parentCommentId"`
	Content         string `json:"content"`
}

type CommentService interface {
	Create(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)
	ListByProfile(ctx context.Context, profileHandle string) ([]*models.Comment, error)
	ToggleLike(ctx context.Context, commentID, likerHandle string) (*models.Comment, error)
	Delete(ctx context.Context, commentID, requesterHandle string) (*models.Comment, error)
}

type commentService struct {
	repo repository.CommentRepository
}

func NewCommentService(repo repository.CommentRepository) CommentService {
	return &commentService{repo: repo}
}

func (s *commentService) Create(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error) {
	if req.ProfileHandle == "" || req.AuthorHandle == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Missing required fields")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "Comment content is required")
	}
	if len(content) > maxContentLength {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "Comment content is too long")
	}

	if req.ParentCommentID != "" {
		parent, err := s.repo.GetByID(ctx, req.ParentCommentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.New(apperrors.ErrCodeNotFound, "Parent comment not found")
			}
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to look up parent comment")
		}
		if parent.IsDeleted {
			return nil, apperrors.New(apperrors.ErrCodeValidation, "Cannot reply to a deleted comment")
		}
		if parent.ProfileHandle != validation.CanonicalHandle(req.ProfileHandle) {
			return nil, apperrors.New(apperrors.ErrCodeValidation, "Parent comment belongs to a different profile")
		}
	}

	comment := &models.Comment{
		ID:              uuid.NewString(),
		ProfileHandle:   validation.CanonicalHandle(req.ProfileHandle),
		AuthorHandle:    validation.CanonicalHandle(req.AuthorHandle),
		ParentCommentID: req.ParentCommentID,
		Content:         content,
		LikedBy:         []string{},
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to create comment")
	}

	log.Info().
		Str("profile", comment.ProfileHandle).
		Str("comment_id", comment.ID).
		Msg("comment created")
	return comment, nil
}

func (s *commentService) ListByProfile(ctx context.Context, profileHandle string) ([]*models.Comment, error) {
	if profileHandle == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Profile handle is required")
	}
	out, err := s.repo.ListByProfile(ctx, validation.CanonicalHandle(profileHandle))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list comments")
	}
	return out, nil
}

// ToggleLike adds the handle to the liker set, or removes it if already there.
func (s *commentService) ToggleLike(ctx context.Context, commentID, likerHandle string) (*models.Comment, error) {
	if commentID == "" || likerHandle == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Missing required fields")
	}
	liker := validation.CanonicalHandle(likerHandle)

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Comment not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to look up comment")
	}

	likedBy := make([]string, 0, len(comment.LikedBy)+1)
	removed := false
	for _, h := range comment.LikedBy {
		if h == liker {
			removed = true
			continue
		}
		likedBy = append(likedBy, h)
	}
	if !removed {
		likedBy = append(likedBy, liker)
	}

	updated, err := s.repo.SetLikes(ctx, commentID, likedBy)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to update comment likes")
	}
	return updated, nil
}

// Delete soft-deletes a comment. Only the author may delete their own comment.
func (s *commentService) Delete(ctx context.Context, commentID, requesterHandle string) (*models.Comment, error) {
	if commentID == "" || requesterHandle == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Missing required fields")
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Comment not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to look up comment")
	}
	if !strings.EqualFold(comment.AuthorHandle, validation.CanonicalHandle(requesterHandle)) {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Only the author can delete a comment")
	}

	deleted, err := s.repo.SoftDelete(ctx, commentID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to delete comment")
	}
	return deleted, nil
}
