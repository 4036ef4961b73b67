package engagement

import (
	"context"
	"testing"

	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentAndReply(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	top, err := svc.CreateComment(ctx, "p1", nil, "u1", "Lupe", "", "primera fila!")
	require.NoError(t, err)
	require.NotEmpty(t, top.ID)

	reply, err := svc.CreateComment(ctx, "p1", &top.ID, "u2", "Rafa", "", "yo estaba al lado")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	// A reply to a reply exceeds the single nesting level.
	_, err = svc.CreateComment(ctx, "p1", &reply.ID, "u3", "Sole", "", "yo tambien")
	assert.True(t, utils.IsErrorCode(err, utils.ErrReplyDepth))

	// The post's comment count tracked both writes.
	post, err := store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, post.CommentCount)
}

func TestCreateReplyAcrossPostsRejected(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")
	seedPost(t, store, "p2")

	top, err := svc.CreateComment(ctx, "p1", nil, "u1", "Lupe", "", "hola")
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, "p2", &top.ID, "u2", "Rafa", "", "hola")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
}

func TestEditComment(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	comment := seedComment(t, svc, "p1", "u1")

	require.NoError(t, svc.EditComment(ctx, comment.ID, "u1", "que show (editado)"))
	edited, err := store.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "que show (editado)", edited.Content)
	assert.True(t, edited.Edited)

	// Only the author may edit.
	err = svc.EditComment(ctx, comment.ID, "u2", "jaque")
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))
}

func TestSoftDeleteLeavesTombstone(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	comment := seedComment(t, svc, "p1", "u1")

	// A stranger cannot delete, an admin can.
	err := svc.DeleteComment(ctx, comment.ID, "u2", false)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))
	require.NoError(t, svc.DeleteComment(ctx, comment.ID, "admin", true))

	deleted, err := store.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, models.TombstoneText, deleted.Content)

	// Editing a tombstone is rejected.
	err = svc.EditComment(ctx, comment.ID, "u1", "lo reescribo")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
}

func TestToggleCommentLike(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	comment := seedComment(t, svc, "p1", "u1")

	liked, err := svc.ToggleCommentLike(ctx, comment.ID, "u2")
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := store.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.True(t, got.LikedByUser("u2"))

	liked, err = svc.ToggleCommentLike(ctx, comment.ID, "u2")
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = store.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
	assert.False(t, got.LikedByUser("u2"))
}

func TestListPostCommentsPinnedFirst(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	c1 := seedComment(t, svc, "p1", "u1")
	c2 := seedComment(t, svc, "p1", "u2")
	c3 := seedComment(t, svc, "p1", "u3")

	require.NoError(t, svc.Pin(ctx, c1.ID, "admin"))

	comments, err := svc.ListPostComments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, c1.ID, comments[0].ID)
	// The unpinned tail is newest first.
	assert.Equal(t, c3.ID, comments[1].ID)
	assert.Equal(t, c2.ID, comments[2].ID)
}

func TestListPostCommentsDegradesOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	store.FailReads = true
	comments, err := svc.ListPostComments(ctx, "p1")
	assert.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	comment := seedComment(t, svc, "p1", "u1")
	_, err := svc.SetReaction(ctx, models.TargetPost, "p1", "u2", "Rafa", "", "like")
	require.NoError(t, err)
	_, err = svc.SetReaction(ctx, models.TargetComment, comment.ID, "u3", "Sole", "", "haha")
	require.NoError(t, err)
	_, err = svc.Rate(ctx, "p1", "u4", "Tono", 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, "p1"))

	_, err = store.GetPost(ctx, "p1")
	assert.True(t, utils.IsNotFound(err))
	_, err = store.GetComment(ctx, comment.ID)
	assert.True(t, utils.IsNotFound(err))

	postRecs, err := store.ListReactions(ctx, models.TargetPost, "p1")
	require.NoError(t, err)
	assert.Empty(t, postRecs)
	commentRecs, err := store.ListReactions(ctx, models.TargetComment, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, commentRecs)
	ratings, err := store.ListRatings(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
