package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/repository/memory"
	txmodels "tiponx-backend/internal/features/transaction/models"
	upvotemodels "tiponx-backend/internal/features/upvote/models"
	"tiponx-backend/internal/platform/memstore"
)

func newCreatorFixture(t *testing.T) (*memstore.Store, CreatorService) {
	t.Helper()
	store := memstore.New()
	return store, NewCreatorService(memory.NewMemoryRepository(store))
}

func TestCreatorService_CreateProfile(t *testing.T) {
	store, svc := newCreatorFixture(t)

	creator, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{
		Handle: "alice",
		Name:   "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "@alice", creator.Handle, "handle is canonicalized on create")
	assert.False(t, creator.IsClaimed)
	assert.Equal(t, defaultDescription, creator.Description)
	assert.True(t, strings.HasPrefix(creator.VerificationCode, "TX-"))

	stored := store.Creators["@alice"]
	require.NotNil(t, stored)
	assert.Len(t, stored.ClaimCode, 8, "unclaimed profile gets a claim code")
}

func TestCreatorService_CreateProfile_Claimed(t *testing.T) {
	store, svc := newCreatorFixture(t)

	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{
		Handle:    "@alice",
		Name:      "Alice",
		IsClaimed: true,
		Wallets:   map[string]string{"ETH": "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
	})
	require.NoError(t, err)
	assert.Empty(t, store.Creators["@alice"].ClaimCode, "claimed profiles never carry a claim code")
}

func TestCreatorService_CreateProfile_Duplicate(t *testing.T) {
	_, svc := newCreatorFixture(t)

	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "alice", Name: "Alice"})
	require.NoError(t, err)

	// Same handle with a different spelling still collides.
	_, err = svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "@alice", Name: "Alice II"})
	requireErrorCode(t, err, apperrors.ErrCodeConflict)
}

func TestCreatorService_CreateProfile_Validation(t *testing.T) {
	_, svc := newCreatorFixture(t)

	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "", Name: "Alice"})
	requireErrorCode(t, err, apperrors.ErrCodeBadRequest)

	_, err = svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "alice", Name: ""})
	requireErrorCode(t, err, apperrors.ErrCodeBadRequest)
}

func TestCreatorService_GetByHandle(t *testing.T) {
	_, svc := newCreatorFixture(t)
	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "alice", Name: "Alice"})
	require.NoError(t, err)

	creator, err := svc.GetByHandle(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "@alice", creator.Handle)

	_, err = svc.GetByHandle(context.Background(), "@ghost")
	requireErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestCreatorService_UpdateProfile_MergesWallets(t *testing.T) {
	store, svc := newCreatorFixture(t)
	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{
		Handle:  "alice",
		Name:    "Alice",
		Wallets: map[string]string{"ETH": "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
	})
	require.NoError(t, err)

	name := "Alice Prime"
	updated, err := svc.UpdateProfile(context.Background(), "alice", &models.ProfileUpdate{
		Name:    &name,
		Wallets: map[string]string{"SOL": "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Prime", updated.Name)
	assert.Len(t, updated.Wallets, 2, "new wallet entries merge with existing ones")
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", store.Creators["@alice"].Wallets["ETH"])
}

func TestCreatorService_UpdateProfile_InvalidWallet(t *testing.T) {
	_, svc := newCreatorFixture(t)
	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "alice", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), "alice", &models.ProfileUpdate{
		Wallets: map[string]string{"ETH": "nope"},
	})
	requireErrorCode(t, err, apperrors.ErrCodeValidation)
}

func TestCreatorService_Search(t *testing.T) {
	_, svc := newCreatorFixture(t)
	for _, handle := range []string{"alice", "alicia", "bob"} {
		_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: handle, Name: handle})
		require.NoError(t, err)
	}

	results, err := svc.Search(context.Background(), "ali")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, results, "empty query returns nothing rather than everything")
}

func TestCreatorService_Sample(t *testing.T) {
	_, svc := newCreatorFixture(t)
	for _, handle := range []string{"a", "b", "c"} {
		_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: handle, Name: handle})
		require.NoError(t, err)
	}

	sample, err := svc.Sample(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, sample, 2)

	sample, err = svc.Sample(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, sample, 3, "sample larger than population returns everyone")
}

func TestCreatorService_Rankings(t *testing.T) {
	store, svc := newCreatorFixture(t)
	for _, handle := range []string{"alice", "bob"} {
		_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: handle, Name: handle})
		require.NoError(t, err)
	}

	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	store.Transactions = []*txmodels.Transaction{
		{ID: 1, ReceiverHandle: "@alice", CreatedAt: now},
		{ID: 2, ReceiverHandle: "@alice", CreatedAt: old},
		{ID: 3, ReceiverHandle: "@alice", CreatedAt: old},
		{ID: 4, ReceiverHandle: "@bob", CreatedAt: now},
	}
	store.Upvotes[memstore.UpvoteKey("@bob", "w1")] = &upvotemodels.Upvote{
		ID: 1, CreatorHandle: "@bob", VoterWallet: "w1", CreatedAt: now,
	}

	all, err := svc.Rankings(context.Background(), 10, TimeframeAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "@alice", all[0].Handle)
	assert.Equal(t, int64(30), all[0].Score, "three tips at 10 points each")

	weekly, err := svc.Rankings(context.Background(), 10, TimeframeWeek)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "@bob", weekly[0].Handle, "old tips fall out of the week window")
	assert.Equal(t, int64(20), weekly[0].Score, "one tip plus one upvote")

	_, err = svc.Rankings(context.Background(), 10, "decade")
	requireErrorCode(t, err, apperrors.ErrCodeBadRequest)
}

func TestCreatorService_RefreshVerificationCode(t *testing.T) {
	store, svc := newCreatorFixture(t)
	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{Handle: "alice", Name: "Alice"})
	require.NoError(t, err)
	before := store.Creators["@alice"].VerificationCode

	refreshed, err := svc.RefreshVerificationCode(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(refreshed.VerificationCode, "TX-"))
	assert.NotEqual(t, before, refreshed.VerificationCode)
}
