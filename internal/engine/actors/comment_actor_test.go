package actors

import (
	"context"
	"testing"
	"time"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentActor(t *testing.T) {
	system, svc, store := newActorFixture(t)
	metrics := utils.NewMetricsCollector()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(svc, metrics)
	})
	pid := system.Root.Spawn(props)

	createMsg := &CreateCommentMsg{
		PostID:     "p1",
		AuthorID:   "u1",
		AuthorName: "Lupe",
		Content:    "primera fila!",
	}
	future := system.Root.RequestFuture(pid, createMsg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	comment, ok := result.(*models.Comment)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "primera fila!", comment.Content)
	assert.Equal(t, "u1", comment.AuthorID)

	editMsg := &EditCommentMsg{CommentID: comment.ID, AuthorID: "u1", Content: "primera fila (editado)"}
	future = system.Root.RequestFuture(pid, editMsg, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	_, ok = result.(error)
	require.False(t, ok, "edit replied with error %v", result)

	edited, err := store.GetComment(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "primera fila (editado)", edited.Content)
	assert.True(t, edited.Edited)

	replyMsg := &CreateCommentMsg{
		PostID:     "p1",
		ParentID:   &comment.ID,
		AuthorID:   "u2",
		AuthorName: "Rafa",
		Content:    "yo estaba al lado",
	}
	future = system.Root.RequestFuture(pid, replyMsg, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)

	reply, ok := result.(*models.Comment)
	require.True(t, ok, "got %T", result)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, comment.ID, *reply.ParentID)
}

func TestCommentActorLikeAndPin(t *testing.T) {
	system, svc, store := newActorFixture(t)
	metrics := utils.NewMetricsCollector()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(svc, metrics)
	})
	pid := system.Root.Spawn(props)

	createMsg := &CreateCommentMsg{PostID: "p1", AuthorID: "u1", AuthorName: "Lupe", Content: "que show"}
	future := system.Root.RequestFuture(pid, createMsg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	comment := result.(*models.Comment)

	likeMsg := &ToggleCommentLikeMsg{CommentID: comment.ID, UserID: "u2"}
	future = system.Root.RequestFuture(pid, likeMsg, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)

	like, ok := result.(*LikeOutcome)
	require.True(t, ok, "got %T", result)
	assert.True(t, like.Liked)

	pinMsg := &PinCommentMsg{CommentID: comment.ID, AdminID: "admin"}
	future = system.Root.RequestFuture(pid, pinMsg, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	_, ok = result.(error)
	require.False(t, ok, "pin replied with error %v", result)

	pinned, err := store.GetComment(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)
	assert.Equal(t, "admin", pinned.PinnedBy)

	unpinMsg := &UnpinCommentMsg{CommentID: comment.ID}
	future = system.Root.RequestFuture(pid, unpinMsg, 5*time.Second)
	_, err = future.Result()
	require.NoError(t, err)

	unpinned, err := store.GetComment(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
}
