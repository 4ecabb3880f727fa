package service

import (
	"context"
	"errors"
	"time"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/validation"
	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository"
)

const defaultDescription = "Creator on X - Share your support with tips!"

// Ranking timeframes.
const (
	TimeframeAll   = "all"
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
	TimeframeYear  = "year"
)

// CreateProfileRequest carries the fields for a new (usually unclaimed)
// profile.
type CreateProfileRequest struct {
	Handle      string            `json:"handle"`
	Name        string            `json:"name"`
	Avatar      string            `json:"avatar"`
	Description string            `json:"description"`
	Wallets     map[string]string `json:"wallets"`
	IsClaimed   bool              `json:"isClaimed"`
}

type CreatorService interface {
	CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.CreatorResponse, error)
	GetByHandle(ctx context.Context, handle string) (*models.CreatorResponse, error)
	UpdateProfile(ctx context.Context, handle string, patch *models.ProfileUpdate) (*models.CreatorResponse, error)
	Sample(ctx context.Context, n int) ([]*models.CreatorResponse, error)
	Search(ctx context.Context, query string) ([]*models.CreatorResponse, error)
	Rankings(ctx context.Context, limit int, timeframe string) ([]*models.RankedCreator, error)
	RefreshVerificationCode(ctx context.Context, handle string) (*models.CreatorResponse, error)
}

type creatorService struct {
	repo repository.CreatorRepository
}

func NewCreatorService(repo repository.CreatorRepository) CreatorService {
	return &creatorService{repo: repo}
}

func (s *creatorService) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.CreatorResponse, error) {
	if req.Handle == "" || req.Name == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Handle and name are required")
	}
	if err := validation.ValidateHandle(req.Handle); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	description := req.Description
	if description == "" {
		description = defaultDescription
	}
	now := time.Now()
	creator := &models.Creator{
		Handle:           validation.CanonicalHandle(req.Handle),
		Name:             req.Name,
		Avatar:           req.Avatar,
		Description:      description,
		Wallets:          req.Wallets,
		IsClaimed:        req.IsClaimed,
		VerificationCode: NewVerificationCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !creator.IsClaimed {
		creator.ClaimCode = NewClaimCode()
	}

	if err := s.repo.Create(ctx, creator); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.New(apperrors.ErrCodeConflict, "User with this handle already exists")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to create profile")
	}
	return creator.ToResponse(), nil
}

func (s *creatorService) GetByHandle(ctx context.Context, handle string) (*models.CreatorResponse, error) {
	creator, err := s.repo.GetByHandle(ctx, validation.CanonicalHandle(handle))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "User not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to get profile")
	}
	return creator.ToResponse(), nil
}

func (s *creatorService) UpdateProfile(ctx context.Context, handle string, patch *models.ProfileUpdate) (*models.CreatorResponse, error) {
	if len(patch.Wallets) > 0 {
		if err := validation.ValidateWallets(patch.Wallets); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
		}
	}
	creator, err := s.repo.Update(ctx, validation.CanonicalHandle(handle), patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "User not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to update profile")
	}
	return creator.ToResponse(), nil
}

func (s *creatorService) Sample(ctx context.Context, n int) ([]*models.CreatorResponse, error) {
	if n <= 0 || n > 50 {
		n = 10
	}
	creators, err := s.repo.Sample(ctx, n)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list profiles")
	}
	return toResponses(creators), nil
}

func (s *creatorService) Search(ctx context.Context, query string) ([]*models.CreatorResponse, error) {
	if query == "" {
		return []*models.CreatorResponse{}, nil
	}
	creators, err := s.repo.Search(ctx, validation.CanonicalHandle(query), 10)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to search profiles")
	}
	return toResponses(creators), nil
}

func (s *creatorService) Rankings(ctx context.Context, limit int, timeframe string) ([]*models.RankedCreator, error) {
	if limit <= 0 {
		limit = 10
	}
	now := time.Now()
	var since time.Time
	switch timeframe {
	case TimeframeWeek:
		since = now.Add(-7 * 24 * time.Hour)
	case TimeframeMonth:
		since = now.Add(-30 * 24 * time.Hour)
	case TimeframeYear:
		since = now.Add(-365 * 24 * time.Hour)
	case "", TimeframeAll:
		// zero time: everything counts
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeBadRequest, "unknown timeframe: %s", timeframe)
	}

	rankings, err := s.repo.Rankings(ctx, limit, since)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to load rankings")
	}
	return rankings, nil
}

func (s *creatorService) RefreshVerificationCode(ctx context.Context, handle string) (*models.CreatorResponse, error) {
	creator, err := s.repo.SetVerificationCode(ctx, validation.CanonicalHandle(handle), NewVerificationCode())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "User not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to refresh verification code")
	}
	return creator.ToResponse(), nil
}

func toResponses(creators []*models.Creator) []*models.CreatorResponse {
	out := make([]*models.CreatorResponse, 0, len(creators))
	for _, c := range creators {
		out = append(out, c.ToResponse())
	}
	return out
}
