package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.CreatorRepository {
	return &postgresRepository{db: db}
}

const creatorColumns = `handle, name, avatar, description, wallets, is_claimed,
	COALESCE(claim_code, ''), is_twitter_verified, verification_code,
	verified_tweet_url, upvote_count, created_at, updated_at, claimed_at,
	twitter_verified_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCreator(row rowScanner) (*models.Creator, error) {
	var c models.Creator
	var wallets []byte
	var claimedAt, verifiedAt sql.NullTime
	err := row.Scan(
		&c.Handle, &c.Name, &c.Avatar, &c.Description, &wallets, &c.IsClaimed,
		&c.ClaimCode, &c.IsTwitterVerified, &c.VerificationCode,
		&c.VerifiedTweetURL, &c.UpvoteCount, &c.CreatedAt, &c.UpdatedAt,
		&claimedAt, &verifiedAt)
	if err != nil {
		return nil, err
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
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, creator *models.Creator) error {
	wallets, err := json.Marshal(creator.Wallets)
	if err != nil {
		return fmt.Errorf("encode wallets: %w", err)
	}
	if creator.Wallets == nil {
		wallets = []byte("{}")
	}

	query := `
		INSERT INTO creators (handle, name, avatar, description, wallets,
			is_claimed, claim_code, verification_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, now(), now())
	`
	_, err = r.db.ExecContext(ctx, query,
		creator.Handle, creator.Name, creator.Avatar, creator.Description,
		wallets, creator.IsClaimed, creator.ClaimCode, creator.VerificationCode)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create creator: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByHandle(ctx context.Context, handle string) (*models.Creator, error) {
	query := `SELECT ` + creatorColumns + ` FROM creators WHERE handle = $1`
	creator, err := scanCreator(r.db.QueryRowContext(ctx, query, handle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	return creator, nil
}

func (r *postgresRepository) Update(ctx context.Context, handle string, patch *models.ProfileUpdate) (*models.Creator, error) {
	wallets, err := json.Marshal(patch.Wallets)
	if err != nil {
		return nil, fmt.Errorf("encode wallets: %w", err)
	}
	if patch.Wallets == nil {
		wallets = []byte("{}")
	}

	query := `
		UPDATE creators SET
			name = COALESCE($2, name),
			avatar = COALESCE($3, avatar),
			description = COALESCE($4, description),
			wallets = wallets || $5::jsonb,
			updated_at = now()
		WHERE handle = $1
		RETURNING ` + creatorColumns
	creator, err := scanCreator(r.db.QueryRowContext(ctx, query,
		handle, patch.Name, patch.Avatar, patch.Description, wallets))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update creator: %w", err)
	}
	return creator, nil
}

// RedeemClaim performs the compare-and-swap on is_claimed and settles the
// pending-claim transaction backlog inside one transaction. Two concurrent
// redemptions can both reach the UPDATE; only one matches the
// is_claimed = FALSE predicate.
func (r *postgresRepository) RedeemClaim(ctx context.Context, claimCode string, wallets map[string]string) (*models.Creator, error) {
	walletsJSON, err := json.Marshal(wallets)
	if err != nil {
		return nil, fmt.Errorf("encode wallets: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE creators SET
			is_claimed = TRUE,
			wallets = wallets || $2::jsonb,
			claimed_at = now(),
			updated_at = now()
		WHERE claim_code = $1 AND is_claimed = FALSE
		RETURNING ` + creatorColumns
	creator, err := scanCreator(tx.QueryRowContext(ctx, query, claimCode, walletsJSON))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to claim profile: %w", err)
		}
		// Distinguish unknown code from a lost race / reused code.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM creators WHERE claim_code = $1)`,
			claimCode).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to look up claim code: %w", err)
		}
		if exists {
			return nil, repository.ErrAlreadyClaimed
		}
		return nil, repository.ErrClaimNotFound
	}

	// Settle tips recorded while the profile was unclaimed.
	_, err = tx.ExecContext(ctx, `
		UPDATE transactions SET pending_claim = FALSE, claimed_at = now()
		WHERE receiver_handle = $1 AND pending_claim = TRUE`,
		creator.Handle)
	if err != nil {
		return nil, fmt.Errorf("failed to settle pending tips: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim tx: %w", err)
	}
	return creator, nil
}

func (r *postgresRepository) MarkTwitterVerified(ctx context.Context, handle, tweetURL string) (*models.Creator, error) {
	query := `
		UPDATE creators SET
			is_twitter_verified = TRUE,
			twitter_verified_at = now(),
			verified_tweet_url = $2,
			updated_at = now()
		WHERE handle = $1 AND is_twitter_verified = FALSE
		RETURNING ` + creatorColumns
	creator, err := scanCreator(r.db.QueryRowContext(ctx, query, handle, tweetURL))
	if err == nil {
		return creator, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to mark verified: %w", err)
	}
	// Already verified (one-way flip) or unknown handle.
	return r.GetByHandle(ctx, handle)
}

func (r *postgresRepository) SetVerificationCode(ctx context.Context, handle, code string) (*models.Creator, error) {
	query := `
		UPDATE creators SET verification_code = $2, updated_at = now()
		WHERE handle = $1
		RETURNING ` + creatorColumns
	creator, err := scanCreator(r.db.QueryRowContext(ctx, query, handle, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set verification code: %w", err)
	}
	return creator, nil
}

func (r *postgresRepository) Sample(ctx context.Context, n int) ([]*models.Creator, error) {
	query := `SELECT ` + creatorColumns + ` FROM creators ORDER BY random() LIMIT $1`
	return r.queryCreators(ctx, query, n)
}

func (r *postgresRepository) Search(ctx context.Context, query string, limit int) ([]*models.Creator, error) {
	q := `SELECT ` + creatorColumns + `
		FROM creators
		WHERE handle ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2`
	return r.queryCreators(ctx, q, query, limit)
}

func (r *postgresRepository) queryCreators(ctx context.Context, query string, args ...interface{}) ([]*models.Creator, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query creators: %w", err)
	}
	defer rows.Close()

	var creators []*models.Creator
	for rows.Next() {
		creator, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		creators = append(creators, creator)
	}
	return creators, rows.Err()
}

func (r *postgresRepository) Rankings(ctx context.Context, limit int, since time.Time) ([]*models.RankedCreator, error) {
	query := `
		SELECT c.handle, c.name, c.avatar, c.description, c.is_claimed,
			COUNT(DISTINCT t.id) AS tip_count,
			COUNT(DISTINCT u.id) AS upvote_count,
			COUNT(DISTINCT t.id) * 10 + COUNT(DISTINCT u.id) * 10 AS score
		FROM creators c
		LEFT JOIN transactions t
			ON t.receiver_handle = c.handle AND t.created_at >= $1
		LEFT JOIN upvotes u
			ON u.creator_handle = c.handle AND u.created_at >= $1
		GROUP BY c.handle, c.name, c.avatar, c.description, c.is_claimed
		ORDER BY score DESC, c.handle
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []*models.RankedCreator
	for rows.Next() {
		var rc models.RankedCreator
		if err := rows.Scan(&rc.Handle, &rc.Name, &rc.Avatar, &rc.Description,
			&rc.IsClaimed, &rc.TipCount, &rc.UpvoteCount, &rc.Score); err != nil {
			return nil, err
		}
		rankings = append(rankings, &rc)
	}
	return rankings, rows.Err()
}
