package actors

import (
	"context"
	"testing"
	"time"

	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActorFixture(t *testing.T) (*actor.ActorSystem, *engagement.Service, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	svc := engagement.NewService(store, utils.NewMetricsCollector(), nil, nil, nil, time.Now)
	require.NoError(t, store.SavePost(context.Background(), &models.Post{
		ID:        "p1",
		Slug:      "p1-slug",
		Title:     "Festival de salsa en el malecon",
		Reactions: models.NewEngagementSummary(),
	}))
	return actor.NewActorSystem(), svc, store
}

func TestEngagementActorReactionFlow(t *testing.T) {
	system, svc, _ := newActorFixture(t)
	metrics := utils.NewMetricsCollector()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(svc, metrics)
	})
	pid := system.Root.Spawn(props)

	setMsg := &SetReactionMsg{
		Kind:     models.TargetPost,
		TargetID: "p1",
		UserID:   "u1",
		UserName: "Lupe",
		Type:     "love",
	}
	future := system.Root.RequestFuture(pid, setMsg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	outcome, ok := result.(*ReactionOutcome)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, models.ReactionLove, outcome.Delta.Added)
	assert.Equal(t, 1, outcome.Summary.Total)
	assert.Equal(t, 1, outcome.Summary.Types[models.ReactionLove])

	clearMsg := &ClearReactionMsg{Kind: models.TargetPost, TargetID: "p1", UserID: "u1"}
	future = system.Root.RequestFuture(pid, clearMsg, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)

	outcome, ok = result.(*ReactionOutcome)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, models.ReactionLove, outcome.Delta.Removed)
	assert.Equal(t, 0, outcome.Summary.Total)
}

func TestEngagementActorRespondsWithError(t *testing.T) {
	system, svc, _ := newActorFixture(t)
	metrics := utils.NewMetricsCollector()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(svc, metrics)
	})
	pid := system.Root.Spawn(props)

	// An empty target id fails validation; the error comes back as the reply.
	badMsg := &SetReactionMsg{Kind: models.TargetPost, UserID: "u1", Type: "like"}
	future := system.Root.RequestFuture(pid, badMsg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	replyErr, ok := result.(error)
	require.True(t, ok, "got %T", result)
	assert.True(t, utils.IsErrorCode(replyErr, utils.ErrValidation))
}

func TestEngagementActorRating(t *testing.T) {
	system, svc, store := newActorFixture(t)
	metrics := utils.NewMetricsCollector()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(svc, metrics)
	})
	pid := system.Root.Spawn(props)

	rateMsg := &RateMsg{PostID: "p1", UserID: "u1", UserName: "Lupe", Value: 4, Comment: "buen sonido"}
	future := system.Root.RequestFuture(pid, rateMsg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	outcome, ok := result.(*RatingOutcome)
	require.True(t, ok, "got %T", result)
	assert.NotEmpty(t, outcome.RatingID)
	assert.Equal(t, 4.0, outcome.Aggregate.AverageRating)
	assert.Equal(t, 1, outcome.Aggregate.RatingCount)

	post, err := store.GetPost(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, outcome.Aggregate, post.Rating)
}
