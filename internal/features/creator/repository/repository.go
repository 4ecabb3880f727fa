package repository

import (
	"context"
	"errors"
	"time"

	"tiponx-backend/internal/features/creator/models"
)

var (
	ErrNotFound       = errors.New("creator not found")
	ErrAlreadyExists  = errors.New("creator already exists")
	ErrClaimNotFound  = errors.New("claim code not found")
	ErrAlreadyClaimed = errors.New("profile already claimed")
)

// CreatorRepository is the profile store. Implementations must make
// RedeemClaim and MarkTwitterVerified atomic conditional updates (no
// read-then-write), so concurrent requests for the same profile cannot both
// win.
type CreatorRepository interface {
	Create(ctx context.Context, creator *models.Creator) error
	GetByHandle(ctx context.Context, handle string) (*models.Creator, error)
	// Update merge-patches profile fields; wallet entries are added without
	// dropping existing ones.
	Update(ctx context.Context, handle string, patch *models.ProfileUpdate) (*models.Creator, error)
	// RedeemClaim flips IsClaimed false->true for the profile holding the
	// code, merges the wallets, and settles the pending-claim transaction
	// backlog for the handle, all in one transaction. Returns
	// ErrClaimNotFound for an unknown code and ErrAlreadyClaimed when the
	// profile was claimed before (or concurrently).
	RedeemClaim(ctx context.Context, claimCode string, wallets map[string]string) (*models.Creator, error)
	// MarkTwitterVerified flips IsTwitterVerified false->true. The flip is
	// one-way: a profile verified earlier keeps its original timestamp.
	MarkTwitterVerified(ctx context.Context, handle, tweetURL string) (*models.Creator, error)
	SetVerificationCode(ctx context.Context, handle, code string) (*models.Creator, error)
	Sample(ctx context.Context, n int) ([]*models.Creator, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Creator, error)
	Rankings(ctx context.Context, limit int, since time.Time) ([]*models.RankedCreator, error)
}
