package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/validation"
	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository"
)

// ClaimService redeems one-time claim codes, binding wallet addresses to an
// unclaimed profile.
type ClaimService interface {
	Redeem(ctx context.Context, claimCode string, wallets map[string]string) (*models.CreatorResponse, error)
}

type claimService struct {
	repo repository.CreatorRepository
}

func NewClaimService(repo repository.CreatorRepository) ClaimService {
	return &claimService{repo: repo}
}

// Redeem validates the request, then delegates the claim to the store's
// atomic conditional update. Validation failures never mutate state, and a
// code can win at most once regardless of concurrent attempts.
func (s *claimService) Redeem(ctx context.Context, claimCode string, wallets map[string]string) (*models.CreatorResponse, error) {
	if claimCode == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Claim code is required")
	}
	if err := validation.ValidateWallets(wallets); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	creator, err := s.repo.RedeemClaim(ctx, claimCode, wallets)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClaimNotFound):
			return nil, apperrors.New(apperrors.ErrCodeClaimNotFound, "Invalid claim code. Creator profile not found.")
		case errors.Is(err, repository.ErrAlreadyClaimed):
			return nil, apperrors.New(apperrors.ErrCodeAlreadyClaimed, "This creator profile has already been claimed")
		default:
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to claim profile")
		}
	}

	log.Info().
		Str("handle", creator.Handle).
		Int("wallet_count", len(wallets)).
		Msg("profile claimed")
	return creator.ToResponse(), nil
}
