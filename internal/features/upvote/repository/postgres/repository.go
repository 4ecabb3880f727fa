package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	creatormodels "tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/upvote/models"
	"tiponx-backend/internal/features/upvote/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UpvoteRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Has(ctx context.Context, creatorHandle, voterWallet string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM upvotes WHERE creator_handle = $1 AND voter_wallet = $2)`,
		creatorHandle, voterWallet).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check upvote: %w", err)
	}
	return exists, nil
}

// Cast inserts the vote and bumps the counter in one transaction. The unique
// constraint on (creator_handle, voter_wallet) catches races that got past
// the service-level duplicate check.
func (r *postgresRepository) Cast(ctx context.Context, upvote *models.Upvote) (*creatormodels.Creator, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upvote tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO upvotes (creator_handle, voter_wallet, chain, signature, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		upvote.CreatorHandle, upvote.VoterWallet, upvote.Chain, upvote.Signature)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, repository.ErrAlreadyVoted
		}
		return nil, fmt.Errorf("failed to insert upvote: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE creators SET upvote_count = upvote_count + 1, updated_at = now()
		WHERE handle = $1
		RETURNING handle, name, avatar, description, wallets, is_claimed,
			COALESCE(claim_code, ''), is_twitter_verified, verification_code,
			verified_tweet_url, upvote_count, created_at, updated_at,
			claimed_at, twitter_verified_at`,
		upvote.CreatorHandle)

	var c creatormodels.Creator
	var wallets []byte
	var claimedAt, verifiedAt sql.NullTime
	err = row.Scan(
		&c.Handle, &c.Name, &c.Avatar, &c.Description, &wallets, &c.IsClaimed,
		&c.ClaimCode, &c.IsTwitterVerified, &c.VerificationCode,
		&c.VerifiedTweetURL, &c.UpvoteCount, &c.CreatedAt, &c.UpdatedAt,
		&claimedAt, &verifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to increment upvote count: %w", err)
	}
	if claimedAt.Valid {
		c.ClaimedAt = &claimedAt.Time
	}
	if verifiedAt.Valid {
		c.TwitterVerifiedAt = &verifiedAt.Time
	}
	if err := json.Unmarshal(wallets, &c.Wallets); err != nil {
		return nil, fmt.Errorf("decode wallets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upvote tx: %w", err)
	}
	return &c, nil
}
