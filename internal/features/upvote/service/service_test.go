package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tiponx-backend/internal/common/errors"
	creatormodels "tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/upvote/repository/memory"
	"tiponx-backend/internal/platform/memstore"
)

const (
	testWallet  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	otherWallet = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

func alwaysValid(chain, message, signature, wallet string) bool { return true }
func neverValid(chain, message, signature, wallet string) bool  { return false }

func newUpvoteFixture(t *testing.T, verify func(chain, message, signature, wallet string) bool) (*memstore.Store, UpvoteService) {
	t.Helper()
	store := memstore.New()
	store.Creators["@alice"] = &creatormodels.Creator{
		Handle:    "@alice",
		Name:      "Alice",
		CreatedAt: time.Now(),
	}
	svc := NewUpvoteService(memory.NewMemoryRepository(store), verify, "TipOnX")
	return store, svc
}

func castRequest(wallet string) *CastRequest {
	return &CastRequest{
		CreatorHandle: "@alice",
		VoterWallet:   wallet,
		Chain:         "ETH",
		Signature:     "0xsig",
		Message:       "I want to upvote creator @alice on TipOnX",
	}
}

func TestUpvoteService_Cast(t *testing.T) {
	store, svc := newUpvoteFixture(t, alwaysValid)

	creator, err := svc.Cast(context.Background(), castRequest(testWallet))
	require.NoError(t, err)
	assert.Equal(t, int64(1), creator.UpvoteCount)
	assert.Len(t, store.Upvotes, 1)

	creator, err = svc.Cast(context.Background(), castRequest(otherWallet))
	require.NoError(t, err)
	assert.Equal(t, int64(2), creator.UpvoteCount, "distinct wallets each count once")
}

func TestUpvoteService_Cast_Duplicate(t *testing.T) {
	store, svc := newUpvoteFixture(t, alwaysValid)

	_, err := svc.Cast(context.Background(), castRequest(testWallet))
	require.NoError(t, err)

	_, err = svc.Cast(context.Background(), castRequest(testWallet))
	requireErrorCode(t, err, apperrors.ErrCodeAlreadyVoted)
	assert.Equal(t, int64(1), store.Creators["@alice"].UpvoteCount, "duplicate must not change the counter")
}

func TestUpvoteService_Cast_InvalidSignature(t *testing.T) {
	store, svc := newUpvoteFixture(t, neverValid)

	_, err := svc.Cast(context.Background(), castRequest(testWallet))
	requireErrorCode(t, err, apperrors.ErrCodeInvalidSignature)
	assert.Empty(t, store.Upvotes, "rejected vote must not be recorded")
	assert.Zero(t, store.Creators["@alice"].UpvoteCount)
}

func TestUpvoteService_Cast_WrongMessage(t *testing.T) {
	_, svc := newUpvoteFixture(t, alwaysValid)

	req := castRequest(testWallet)
	req.Message = "I want to upvote creator @mallory on TipOnX"
	_, err := svc.Cast(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeInvalidSignature)
}

func TestUpvoteService_Cast_UnknownCreator(t *testing.T) {
	_, svc := newUpvoteFixture(t, alwaysValid)

	req := castRequest(testWallet)
	req.CreatorHandle = "@ghost"
	req.Message = "I want to upvote creator @ghost on TipOnX"
	_, err := svc.Cast(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestUpvoteService_Cast_MissingFields(t *testing.T) {
	_, svc := newUpvoteFixture(t, alwaysValid)

	req := castRequest(testWallet)
	req.Signature = ""
	_, err := svc.Cast(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeBadRequest)

	req = castRequest(testWallet)
	req.Chain = "DOGE"
	_, err = svc.Cast(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeBadRequest)
}

func TestUpvoteService_HasVoted(t *testing.T) {
	_, svc := newUpvoteFixture(t, alwaysValid)

	voted, err := svc.HasVoted(context.Background(), "@alice", testWallet)
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = svc.Cast(context.Background(), castRequest(testWallet))
	require.NoError(t, err)

	voted, err = svc.HasVoted(context.Background(), "alice", testWallet)
	require.NoError(t, err)
	assert.True(t, voted, "handle lookup is canonicalized")
}

func requireErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}
