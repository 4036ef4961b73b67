package engagement

import (
	"context"
	"testing"

	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateBounds(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	for _, v := range []float64{1, 2, 3, 4, 5} {
		_, err := svc.Rate(ctx, "p1", "u1", "Lupe", v, "")
		assert.NoError(t, err, "value %v should be accepted", v)
	}

	for _, v := range []float64{0, 6, -1, 3.5} {
		_, err := svc.Rate(ctx, "p1", "u1", "Lupe", v, "")
		assert.True(t, utils.IsErrorCode(err, utils.ErrRatingOutOfRange),
			"value %v should be rejected", v)
	}

	_, err := svc.Rate(ctx, "", "u1", "Lupe", 3, "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))

	_, err = svc.Rate(ctx, "p1", "", "Lupe", 3, "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
}

func TestRateUpsertsInPlace(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	id1, err := svc.Rate(ctx, "p1", "u1", "Lupe", 5, "imperdible")
	require.NoError(t, err)

	first, err := svc.GetRating(ctx, "p1", "u1")
	require.NoError(t, err)
	require.NotNil(t, first)

	id2, err := svc.Rate(ctx, "p1", "u1", "Lupe", 2, "el sonido fallo")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	ratings, err := store.ListRatings(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 2, ratings[0].Value)
	assert.Equal(t, "el sonido fallo", ratings[0].Comment)
	// createdAt survives the resubmission; updatedAt moves.
	assert.Equal(t, first.CreatedAt, ratings[0].CreatedAt)
	assert.True(t, ratings[0].UpdatedAt.After(first.UpdatedAt))
}

func TestRecomputeAggregate(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	// No ratings: a zero aggregate, not an error.
	agg, err := svc.RecomputeAggregate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.AverageRating)
	assert.Equal(t, 0, agg.RatingCount)

	_, err = svc.Rate(ctx, "p1", "u2", "Rafa", 4, "")
	require.NoError(t, err)
	agg, err = svc.RecomputeAggregate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, agg.AverageRating)
	assert.Equal(t, 1, agg.RatingCount)

	_, err = svc.Rate(ctx, "p1", "u3", "Sole", 2, "")
	require.NoError(t, err)
	agg, err = svc.RecomputeAggregate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, agg.AverageRating)
	assert.Equal(t, 2, agg.RatingCount)

	// The aggregate was persisted on the post.
	post, err := store.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, agg, post.Rating)
}

func TestGetRatingAbsent(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	rating, err := svc.GetRating(ctx, "p1", "u1")
	assert.NoError(t, err)
	assert.Nil(t, rating)
}
