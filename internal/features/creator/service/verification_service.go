package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tiponx-backend/internal/common/clock"
	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/validation"
	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository"
	"tiponx-backend/internal/platform/twitter"
)

const (
	defaultMaxFetchAttempts = 3
	rateLimitWaitFloor      = 30 * time.Second
)

// VerificationService proves ownership of a social handle: the creator posts
// their verification code publicly and submits the post URL.
type VerificationService interface {
	VerifyTweet(ctx context.Context, handle, tweetURL, verificationCode string) (*models.CreatorResponse, error)
}

type verificationService struct {
	repo        repository.CreatorRepository
	fetcher     twitter.TweetFetcher
	clock       clock.Clock
	sleeper     clock.Sleeper
	maxAttempts int
}

func NewVerificationService(repo repository.CreatorRepository, fetcher twitter.TweetFetcher, clk clock.Clock, sleeper clock.Sleeper, maxAttempts int) VerificationService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxFetchAttempts
	}
	return &verificationService{
		repo:        repo,
		fetcher:     fetcher,
		clock:       clk,
		sleeper:     sleeper,
		maxAttempts: maxAttempts,
	}
}

// VerifyTweet runs the one-way verification flow. Checks are ordered so that
// every failure path leaves the profile untouched; the flip happens only
// after the post checks out.
func (s *verificationService) VerifyTweet(ctx context.Context, handle, tweetURL, verificationCode string) (*models.CreatorResponse, error) {
	if handle == "" || tweetURL == "" || verificationCode == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "Handle, tweet URL and verification code are required")
	}

	canonical := validation.CanonicalHandle(handle)
	creator, err := s.repo.GetByHandle(ctx, canonical)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Creator profile not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to load profile")
	}

	// Verification is idempotent from the caller's perspective.
	if creator.IsTwitterVerified {
		return creator.ToResponse(), nil
	}

	if creator.VerificationCode != verificationCode {
		return nil, apperrors.New(apperrors.ErrCodeInvalidCode, "Invalid verification code")
	}

	tweetID := extractTweetID(tweetURL)
	if tweetID == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidURL, "Invalid tweet URL")
	}

	tweet, err := s.fetchWithRetry(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(tweet.AuthorUsername, validation.BareHandle(canonical)) {
		return nil, apperrors.New(apperrors.ErrCodeVerificationMismatch,
			"Tweet must be posted from the account you are claiming")
	}
	// Substring containment, not equality: real posts wrap the code in text.
	if !strings.Contains(tweet.Text, creator.VerificationCode) {
		return nil, apperrors.New(apperrors.ErrCodeVerificationMismatch,
			"Tweet must contain the verification code")
	}

	updated, err := s.repo.MarkTwitterVerified(ctx, canonical, tweetURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to mark profile verified")
	}

	log.Info().Str("handle", canonical).Str("tweet_id", tweetID).Msg("twitter account verified")
	return updated.ToResponse(), nil
}

// fetchWithRetry absorbs transient rate limiting: wait for the advertised
// reset (floored) when the API gives one, otherwise back off exponentially,
// and give up after maxAttempts.
func (s *verificationService) fetchWithRetry(ctx context.Context, tweetID string) (*twitter.Tweet, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		tweet, err := s.fetcher.FetchTweet(ctx, tweetID)
		if err == nil {
			return tweet, nil
		}

		var rateErr *twitter.RateLimitError
		if !errors.As(err, &rateErr) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalAPI, "failed to verify tweet")
		}
		if attempt == s.maxAttempts-1 {
			break
		}

		wait := s.backoff(rateErr, attempt)
		log.Warn().
			Str("tweet_id", tweetID).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("twitter rate limited, retrying")
		s.sleeper.Sleep(wait)
	}
	return nil, apperrors.New(apperrors.ErrCodeRateLimited,
		"Twitter API rate limit reached. Please try again in a few minutes.")
}

func (s *verificationService) backoff(rateErr *twitter.RateLimitError, attempt int) time.Duration {
	if !rateErr.ResetAt.IsZero() {
		wait := rateErr.ResetAt.Sub(s.clock.Now())
		if wait < rateLimitWaitFloor {
			wait = rateLimitWaitFloor
		}
		return wait
	}
	return time.Duration(1<<(attempt+1)) * time.Second
}

// extractTweetID takes the last path segment of the post URL, dropping any
// query string.
func extractTweetID(tweetURL string) string {
	raw := tweetURL
	if parsed, err := url.Parse(tweetURL); err == nil && parsed.Path != "" {
		raw = parsed.Path
	} else if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.TrimSuffix(raw, "/")
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		raw = raw[idx+1:]
	}
	if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
