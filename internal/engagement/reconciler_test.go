package engagement

import (
	"context"
	"testing"

	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltaAddAndRemove(t *testing.T) {
	s := models.NewEngagementSummary()

	s = ApplyDelta(s, models.ReactionLike, "")
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Types[models.ReactionLike])

	// A type change is one add and one remove in the same delta.
	s = ApplyDelta(s, models.ReactionLove, models.ReactionLike)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 0, s.Types[models.ReactionLike])
	assert.Equal(t, 1, s.Types[models.ReactionLove])

	s = ApplyDelta(s, "", models.ReactionLove)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Types[models.ReactionLove])
}

func TestApplyDeltaNeverNegative(t *testing.T) {
	s := models.NewEngagementSummary()

	// Removing from an empty summary floors at zero regardless of order.
	s = ApplyDelta(s, "", models.ReactionWow)
	s = ApplyDelta(s, "", models.ReactionWow)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Types[models.ReactionWow])

	s = ApplyDelta(s, models.ReactionSad, "")
	s = ApplyDelta(s, "", models.ReactionSad)
	s = ApplyDelta(s, "", models.ReactionSad)
	assert.Equal(t, 0, s.Total)
	for reaction, n := range s.Types {
		assert.GreaterOrEqual(t, n, 0, "bucket %s went negative", reaction)
	}
}

func TestApplyDeltaIsPure(t *testing.T) {
	original := models.NewEngagementSummary()
	original.Types[models.ReactionLike] = 2
	original.Total = 2

	_ = ApplyDelta(original, models.ReactionLove, models.ReactionLike)
	assert.Equal(t, 2, original.Total)
	assert.Equal(t, 2, original.Types[models.ReactionLike])
	assert.Equal(t, 0, original.Types[models.ReactionLove])
}

func TestReconcileRepairsDrift(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	// Three users react through the ledger.
	for _, u := range []struct{ id, reaction string }{
		{"u1", "like"}, {"u2", "love"}, {"u3", "like"},
	} {
		_, err := svc.SetReaction(ctx, models.TargetPost, "p1", u.id, u.id, "", u.reaction)
		require.NoError(t, err)
	}

	// Simulate a partial write: the stored summary loses an update.
	broken := models.NewEngagementSummary()
	broken.Total = 1
	broken.Types[models.ReactionLike] = 1
	require.NoError(t, store.SetPostSummary(ctx, "p1", broken))

	summary, err := svc.Reconcile(ctx, models.TargetPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Types[models.ReactionLike])
	assert.Equal(t, 1, summary.Types[models.ReactionLove])

	// The repaired summary was persisted.
	post, err := store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, post.Reactions.Equal(summary))

	// Reconciling again is idempotent.
	again, err := svc.Reconcile(ctx, models.TargetPost, "p1")
	require.NoError(t, err)
	assert.True(t, summary.Equal(again))
}

func TestReconcileCountsLegacyRecords(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	// A record written by the old blog with a retired type string.
	require.NoError(t, store.SaveReaction(ctx, models.TargetPost, &models.ReactionRecord{
		TargetID: "p1", UserID: "u9", UserName: "Vieja guardia",
		Type: models.ReactionType("corazon"),
	}))

	summary, err := svc.Reconcile(ctx, models.TargetPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Types[models.ReactionLove])
}

// Scenario: one user reacts, changes their reaction, then clears it.
func TestSummaryFollowsSingleUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	_, err := svc.SetReaction(ctx, models.TargetPost, "p1", "u1", "Lupe", "", "like")
	require.NoError(t, err)

	post, err := store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, post.Reactions.Total)
	assert.Equal(t, 1, post.Reactions.Types[models.ReactionLike])

	_, err = svc.SetReaction(ctx, models.TargetPost, "p1", "u1", "Lupe", "", "love")
	require.NoError(t, err)

	post, err = store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, post.Reactions.Total)
	assert.Equal(t, 0, post.Reactions.Types[models.ReactionLike])
	assert.Equal(t, 1, post.Reactions.Types[models.ReactionLove])

	_, err = svc.ClearReaction(ctx, models.TargetPost, "p1", "u1")
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, models.TargetPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Types)
}

func TestGetSummaryDegradesOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	store.FailReads = true
	summary, err := svc.GetSummary(ctx, models.TargetPost, "p1")
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
}
