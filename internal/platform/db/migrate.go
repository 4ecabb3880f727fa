package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is idempotent; statements use IF NOT EXISTS so startup migration
// can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS creators (
		handle TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		wallets JSONB NOT NULL DEFAULT '{}'::jsonb,
		is_claimed BOOLEAN NOT NULL DEFAULT FALSE,
		claim_code TEXT,
		is_twitter_verified BOOLEAN NOT NULL DEFAULT FALSE,
		verification_code TEXT NOT NULL,
		verified_tweet_url TEXT NOT NULL DEFAULT '',
		upvote_count BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		claimed_at TIMESTAMPTZ,
		twitter_verified_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS creators_claim_code_idx
		ON creators (claim_code) WHERE claim_code IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS creators_upvote_count_idx
		ON creators (upvote_count DESC)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		sender_handle TEXT NOT NULL,
		receiver_handle TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		currency TEXT NOT NULL,
		chain TEXT NOT NULL,
		tx_hash TEXT NOT NULL,
		usd_value NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'completed',
		pending_claim BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		claimed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_sender_idx ON transactions (sender_handle)`,
	`CREATE INDEX IF NOT EXISTS transactions_receiver_idx ON transactions (receiver_handle)`,
	`CREATE INDEX IF NOT EXISTS transactions_created_at_idx ON transactions (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS upvotes (
		id BIGSERIAL PRIMARY KEY,
		creator_handle TEXT NOT NULL,
		voter_wallet TEXT NOT NULL,
		chain TEXT NOT NULL,
		signature TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT upvotes_creator_voter_key UNIQUE (creator_handle, voter_wallet)
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		profile_handle TEXT NOT NULL,
		author_handle TEXT NOT NULL,
		parent_comment_id TEXT,
		content TEXT NOT NULL,
		liked_by JSONB NOT NULL DEFAULT '[]'::jsonb,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_profile_idx ON comments (profile_handle, created_at DESC)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
