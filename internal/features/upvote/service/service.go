package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tiponx-backend/internal/chainsig"
	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/validation"
	creatormodels "tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/upvote/models"
	"tiponx-backend/internal/features/upvote/repository"
)

// CastRequest is one upvote attempt: the voter signs the fixed message with
// their wallet.
type CastRequest struct {
	CreatorHandle string `json:"creatorHandle"`
	VoterWallet   string `json:"voterWallet"`
	Chain         string `json:"chain"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

type UpvoteService interface {
	Cast(ctx context.Context, req *CastRequest) (*creatormodels.CreatorResponse, error)
	HasVoted(ctx context.Context, creatorHandle, voterWallet string) (bool, error)
}

type upvoteService struct {
	repo    repository.UpvoteRepository
	verify  chainsig.VerifyFunc
	appName string
}

func NewUpvoteService(repo repository.UpvoteRepository, verify chainsig.VerifyFunc, appName string) UpvoteService {
	if verify == nil {
		verify = chainsig.Verify
	}
	return &upvoteService{repo: repo, verify: verify, appName: appName}
}

// ExpectedMessage is the template the voter must sign. Binding the creator
// handle into the message means a captured signature cannot be replayed
// against a different creator; replay against the same pair trips the
// uniqueness constraint instead.
func (s *upvoteService) ExpectedMessage(creatorHandle string) string {
	return fmt.Sprintf("I want to upvote creator %s on %s", creatorHandle, s.appName)
}

// Cast checks preconditions cheapest-first: field presence, duplicate vote,
// message template, then the signature. The insert and counter increment are
// one transaction in the repository.
func (s *upvoteService) Cast(ctx context.Context, req *CastRequest) (*creatormodels.CreatorResponse, error) {
	if req.CreatorHandle == "" || req.VoterWallet == "" || req.Chain == "" ||
		req.Signature == "" || req.Message == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Missing required fields")
	}
	if req.Chain != models.ChainEthereum && req.Chain != models.ChainSolana {
		return nil, apperrors.Newf(apperrors.ErrCodeBadRequest, "unsupported chain: %s", req.Chain)
	}

	handle := validation.CanonicalHandle(req.CreatorHandle)

	voted, err := s.repo.Has(ctx, handle, req.VoterWallet)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to check vote")
	}
	if voted {
		return nil, apperrors.New(apperrors.ErrCodeAlreadyVoted, "User has already voted for this creator")
	}

	if req.Message != s.ExpectedMessage(handle) && req.Message != s.ExpectedMessage(req.CreatorHandle) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSignature, "Invalid signature")
	}
	if !s.verify(req.Chain, req.Message, req.Signature, req.VoterWallet) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidSignature, "Invalid signature")
	}

	creator, err := s.repo.Cast(ctx, &models.Upvote{
		CreatorHandle: handle,
		VoterWallet:   req.VoterWallet,
		Chain:         req.Chain,
		Signature:     req.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVoted):
			return nil, apperrors.New(apperrors.ErrCodeAlreadyVoted, "User has already voted for this creator")
		case errors.Is(err, repository.ErrCreatorNotFound):
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Creator profile not found")
		default:
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to record upvote")
		}
	}

	log.Info().
		Str("creator", handle).
		Str("chain", req.Chain).
		Int64("upvote_count", creator.UpvoteCount).
		Msg("upvote cast")
	return creator.ToResponse(), nil
}

func (s *upvoteService) HasVoted(ctx context.Context, creatorHandle, voterWallet string) (bool, error) {
	if creatorHandle == "" || voterWallet == "" {
		return false, apperrors.New(apperrors.ErrCodeBadRequest, "Missing required parameters")
	}
	voted, err := s.repo.Has(ctx, validation.CanonicalHandle(creatorHandle), voterWallet)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to check vote")
	}
	return voted, nil
}
