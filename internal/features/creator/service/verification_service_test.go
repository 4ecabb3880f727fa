package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiponx-backend/internal/common/clock"
	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository/memory"
	"tiponx-backend/internal/platform/memstore"
	"tiponx-backend/internal/platform/twitter"
)

// fakeFetcher replays a scripted sequence of responses.
type fakeFetcher struct {
	responses []fetchResult
	calls     int
}

type fetchResult struct {
	tweet *twitter.Tweet
	err   error
}

func (f *fakeFetcher) FetchTweet(_ context.Context, _ string) (*twitter.Tweet, error) {
	if f.calls >= len(f.responses) {
		return nil, errors.New("unexpected extra fetch")
	}
	res := f.responses[f.calls]
	f.calls++
	return res.tweet, res.err
}

// fakeSleeper records requested waits without sleeping.
type fakeSleeper struct {
	waits []time.Duration
}

func (f *fakeSleeper) Sleep(d time.Duration) { f.waits = append(f.waits, d) }

func newVerificationFixture(t *testing.T, fetcher *fakeFetcher) (*memstore.Store, *fakeSleeper, VerificationService) {
	t.Helper()
	store := memstore.New()
	sleeper := &fakeSleeper{}
	clk := &clock.Fake{Current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewVerificationService(memory.NewMemoryRepository(store), fetcher, clk, sleeper, 3)
	return store, sleeper, svc
}

func seedWithCode(store *memstore.Store, handle, code string) {
	store.Creators[handle] = &models.Creator{
		Handle:           handle,
		Name:             "Test Creator",
		VerificationCode: code,
		CreatedAt:        time.Now(),
	}
}

const tweetURL = "https://x.com/alice/status/1790000000000000001"

func TestVerificationService_VerifyTweet(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResult{
		{tweet: &twitter.Tweet{
			ID:             "1790000000000000001",
			Text:           "Verifying my TipOnX profile: TX-ABC123",
			AuthorUsername: "Alice",
		}},
	}}
	store, _, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	creator, err := svc.VerifyTweet(context.Background(), "alice", tweetURL, "TX-ABC123")
	require.NoError(t, err)
	assert.True(t, creator.IsTwitterVerified)
	require.NotNil(t, creator.TwitterVerifiedAt)
	assert.Equal(t, tweetURL, store.Creators["@alice"].VerifiedTweetURL)
}

func TestVerificationService_VerifyTweet_Idempotent(t *testing.T) {
	// No fetch responses scripted: a second call must not hit the API.
	fetcher := &fakeFetcher{}
	store, _, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")
	now := time.Now()
	store.Creators["@alice"].IsTwitterVerified = true
	store.Creators["@alice"].TwitterVerifiedAt = &now

	creator, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	require.NoError(t, err)
	assert.True(t, creator.IsTwitterVerified)
	assert.Zero(t, fetcher.calls)
}

func TestVerificationService_VerifyTweet_WrongCode(t *testing.T) {
	fetcher := &fakeFetcher{}
	store, _, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-WRONG0")
	requireErrorCode(t, err, apperrors.ErrCodeInvalidCode)
	assert.False(t, store.Creators["@alice"].IsTwitterVerified)
	assert.Zero(t, fetcher.calls, "code check happens before any fetch")
}

func TestVerificationService_VerifyTweet_WrongAuthor(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResult{
		{tweet: &twitter.Tweet{
			ID:             "1790000000000000001",
			Text:           "Verifying my TipOnX profile: TX-ABC123",
			AuthorUsername: "mallory",
		}},
	}}
	store, _, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	requireErrorCode(t, err, apperrors.ErrCodeVerificationMismatch)
	assert.False(t, store.Creators["@alice"].IsTwitterVerified)
}

func TestVerificationService_VerifyTweet_CodeMissingFromTweet(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResult{
		{tweet: &twitter.Tweet{
			ID:             "1790000000000000001",
			Text:           "gm",
			AuthorUsername: "alice",
		}},
	}}
	store, _, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	requireErrorCode(t, err, apperrors.ErrCodeVerificationMismatch)
	assert.False(t, store.Creators["@alice"].IsTwitterVerified)
}

func TestVerificationService_VerifyTweet_BadURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	store, _, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", "https://x.com/", "TX-ABC123")
	requireErrorCode(t, err, apperrors.ErrCodeInvalidURL)
}

func TestVerificationService_VerifyTweet_UnknownProfile(t *testing.T) {
	fetcher := &fakeFetcher{}
	_, _, svc := newVerificationFixture(t, fetcher)

	_, err := svc.VerifyTweet(context.Background(), "@ghost", tweetURL, "TX-ABC123")
	requireErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestVerificationService_RetryAfterRateLimit(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResult{
		{err: &twitter.RateLimitError{}},
		{err: &twitter.RateLimitError{}},
		{tweet: &twitter.Tweet{
			ID:             "1790000000000000001",
			Text:           "TX-ABC123",
			AuthorUsername: "alice",
		}},
	}}
	store, sleeper, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	creator, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	require.NoError(t, err)
	assert.True(t, creator.IsTwitterVerified)
	assert.Equal(t, 3, fetcher.calls)
	// Without a reset hint the waits grow exponentially.
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.waits)
}

func TestVerificationService_RateLimitUsesResetHint(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{responses: []fetchResult{
		{err: &twitter.RateLimitError{ResetAt: base.Add(5 * time.Minute)}},
		{tweet: &twitter.Tweet{
			ID:             "1790000000000000001",
			Text:           "TX-ABC123",
			AuthorUsername: "alice",
		}},
	}}
	store, sleeper, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Minute}, sleeper.waits)
}

func TestVerificationService_RateLimitWaitFloor(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{responses: []fetchResult{
		{err: &twitter.RateLimitError{ResetAt: base.Add(3 * time.Second)}},
		{tweet: &twitter.Tweet{
			ID:             "1790000000000000001",
			Text:           "TX-ABC123",
			AuthorUsername: "alice",
		}},
	}}
	store, sleeper, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	require.NoError(t, err)
	// Reset hints below the floor are rounded up to it.
	assert.Equal(t, []time.Duration{30 * time.Second}, sleeper.waits)
}

func TestVerificationService_RateLimitExhausted(t *testing.T) {
	fetcher := &fakeFetcher{responses: []fetchResult{
		{err: &twitter.RateLimitError{}},
		{err: &twitter.RateLimitError{}},
		{err: &twitter.RateLimitError{}},
	}}
	store, sleeper, svc := newVerificationFixture(t, fetcher)
	seedWithCode(store, "@alice", "TX-ABC123")

	_, err := svc.VerifyTweet(context.Background(), "@alice", tweetURL, "TX-ABC123")
	requireErrorCode(t, err, apperrors.ErrCodeRateLimited)
	assert.Equal(t, 3, fetcher.calls)
	assert.Len(t, sleeper.waits, 2, "no sleep after the final attempt")
	assert.False(t, store.Creators["@alice"].IsTwitterVerified)
}

func TestExtractTweetID(t *testing.T) {
	cases := map[string]string{
		"https://x.com/alice/status/123456":            "123456",
		"https://twitter.com/alice/status/123456?s=20": "123456",
		"https://x.com/alice/status/123456/":           "123456",
		"https://x.com/alice/status/123456#reply":      "123456",
		"https://x.com/i/web/status/9876543210":        "9876543210",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractTweetID(in), in)
	}
}
