package repository

import (
	"context"
	"errors"

	creatormodels "tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/upvote/models"
)

var (
	ErrAlreadyVoted    = errors.New("wallet already voted for this creator")
	ErrCreatorNotFound = errors.New("creator not found")
)

// UpvoteRepository is the vote ledger. Cast must insert the record and
// increment the creator's upvote counter as one transaction: the counter
// equals the number of records for the handle at all times.
type UpvoteRepository interface {
	Has(ctx context.Context, creatorHandle, voterWallet string) (bool, error)
	Cast(ctx context.Context, upvote *models.Upvote) (*creatormodels.Creator, error)
}
