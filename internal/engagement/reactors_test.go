package engagement

import (
	"context"
	"fmt"
	"testing"

	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReactors(t *testing.T, svc *Service, postID string, n int, reaction string) {
	t.Helper()
	for i := 0; i < n; i++ {
		userID := fmt.Sprintf("u%02d", i)
		_, err := svc.SetReaction(context.Background(), models.TargetPost, postID, userID, "User "+userID, "", reaction)
		require.NoError(t, err)
	}
}

func TestListReactorsPagination(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")
	seedReactors(t, svc, "p1", 25, "like")

	seen := make(map[string]bool)
	cursor := ""
	pages := 0
	for {
		page, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, cursor)
		require.NoError(t, err)
		pages++

		for _, rec := range page.Items {
			assert.False(t, seen[rec.UserID], "user %s appeared twice", rec.UserID)
			seen[rec.UserID] = true
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	assert.Equal(t, 25, len(seen))
	assert.Equal(t, 3, pages)
}

func TestListReactorsOrderedMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")
	seedReactors(t, svc, "p1", 5, "wow")

	page, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	for i := 1; i < len(page.Items); i++ {
		assert.False(t, page.Items[i].CreatedAt.After(page.Items[i-1].CreatedAt))
	}
	// The most recent reactor leads.
	assert.Equal(t, "u04", page.Items[0].UserID)
}

func TestListReactorsTypeFilter(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	_, err := svc.SetReaction(ctx, models.TargetPost, "p1", "u1", "Lupe", "", "like")
	require.NoError(t, err)
	_, err = svc.SetReaction(ctx, models.TargetPost, "p1", "u2", "Rafa", "", "love")
	require.NoError(t, err)
	_, err = svc.SetReaction(ctx, models.TargetPost, "p1", "u3", "Sole", "", "love")
	require.NoError(t, err)

	page, err := svc.ListReactors(ctx, models.TargetPost, "p1", "love", 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, rec := range page.Items {
		assert.Equal(t, models.ReactionLove, rec.Type)
	}

	page, err = svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
}

// A result set that ends exactly on a page boundary reports HasMore=true
// once; the follow-up page resolves empty. This mirrors the
// len(items)==pageSize heuristic.
func TestListReactorsExactBoundary(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")
	seedReactors(t, svc, "p1", 10, "like")

	page, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)

	next, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, page.NextCursor)
	require.NoError(t, err)
	assert.Empty(t, next.Items)
	assert.False(t, next.HasMore)
}

func TestListReactorsSameCursorSamePage(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")
	seedReactors(t, svc, "p1", 15, "like")

	first, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, "")
	require.NoError(t, err)

	a, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, first.NextCursor)
	require.NoError(t, err)
	b, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, first.NextCursor)
	require.NoError(t, err)

	require.Equal(t, len(a.Items), len(b.Items))
	for i := range a.Items {
		assert.Equal(t, a.Items[i].UserID, b.Items[i].UserID)
	}
}

func TestListReactorsDegradesOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	store.FailReads = true
	page, err := svc.ListReactors(ctx, models.TargetPost, "p1", "all", 10, "")
	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}
