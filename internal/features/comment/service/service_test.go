package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/features/comment/repository/memory"
	"tiponx-backend/internal/platform/memstore"
)

func newCommentFixture(t *testing.T) (*memstore.Store, CommentService) {
	t.Helper()
	store := memstore.New()
	return store, NewCommentService(memory.NewMemoryRepository(store))
}

func createRequest() *CreateCommentRequest {
	return &CreateCommentRequest{
		ProfileHandle: "@alice",
		AuthorHandle:  "@bob",
		Content:       "great work!",
	}
}

func TestCommentService_Create(t *testing.T) {
	store, svc := newCommentFixture(t)

	comment, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "@alice", comment.ProfileHandle)
	assert.Equal(t, "@bob", comment.AuthorHandle)
	assert.Zero(t, comment.Likes)
	assert.Len(t, store.Comments, 1)
}

func TestCommentService_Create_Reply(t *testing.T) {
	_, svc := newCommentFixture(t)

	parent, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	req := createRequest()
	req.ParentCommentID = parent.ID
	reply, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, reply.ParentCommentID)

	req = createRequest()
	req.ParentCommentID = "missing"
	_, err = svc.Create(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestCommentService_Create_ReplyAcrossProfiles(t *testing.T) {
	_, svc := newCommentFixture(t)

	parent, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	req := createRequest()
	req.ProfileHandle = "@carol"
	req.ParentCommentID = parent.ID
	_, err = svc.Create(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeValidation)
}

func TestCommentService_Create_Validation(t *testing.T) {
	_, svc := newCommentFixture(t)

	req := createRequest()
	req.Content = "   "
	_, err := svc.Create(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeValidation)

	req = createRequest()
	req.Content = strings.Repeat("x", maxContentLength+1)
	_, err = svc.Create(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeValidation)

	req = createRequest()
	req.AuthorHandle = ""
	_, err = svc.Create(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeBadRequest)
}

func TestCommentService_ListByProfile(t *testing.T) {
	_, svc := newCommentFixture(t)

	_, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	other := createRequest()
	other.ProfileHandle = "@carol"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	comments, err := svc.ListByProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestCommentService_ToggleLike(t *testing.T) {
	_, svc := newCommentFixture(t)
	comment, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	liked, err := svc.ToggleLike(context.Background(), comment.ID, "@carol")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.HasLiked("@carol"))

	// Same handle toggles the like off again.
	unliked, err := svc.ToggleLike(context.Background(), comment.ID, "carol")
	require.NoError(t, err)
	assert.Zero(t, unliked.Likes)

	_, err = svc.ToggleLike(context.Background(), "missing", "@carol")
	requireErrorCode(t, err, apperrors.ErrCodeNotFound)
}

func TestCommentService_Delete(t *testing.T) {
	_, svc := newCommentFixture(t)
	comment, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), comment.ID, "@mallory")
	requireErrorCode(t, err, apperrors.ErrCodeConflict)

	deleted, err := svc.Delete(context.Background(), comment.ID, "@bob")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, "[deleted]", deleted.Content)

	comments, err := svc.ListByProfile(context.Background(), "@alice")
	require.NoError(t, err)
	assert.Empty(t, comments, "deleted comments drop out of listings")

	req := createRequest()
	req.ParentCommentID = comment.ID
	_, err = svc.Create(context.Background(), req)
	requireErrorCode(t, err, apperrors.ErrCodeValidation)
}

func requireErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}
