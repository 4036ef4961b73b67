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

func seedComment(t *testing.T, svc *Service, postID, author string) *models.Comment {
	t.Helper()
	comment, err := svc.CreateComment(context.Background(), postID, nil, author, "User "+author, "", "que show")
	require.NoError(t, err)
	return comment
}

func pinnedIDs(t *testing.T, store *database.MemoryStore, postID string) []string {
	t.Helper()
	pinned, err := store.GetPinnedComments(context.Background(), postID)
	require.NoError(t, err)
	ids := make([]string, len(pinned))
	for i, c := range pinned {
		ids[i] = c.ID
	}
	return ids
}

// Pinning a fourth comment evicts the oldest-pinned one.
func TestPinCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	c1 := seedComment(t, svc, "p1", "u1")
	c2 := seedComment(t, svc, "p1", "u2")
	c3 := seedComment(t, svc, "p1", "u3")
	c4 := seedComment(t, svc, "p1", "u4")

	require.NoError(t, svc.Pin(ctx, c1.ID, "admin"))
	require.NoError(t, svc.Pin(ctx, c2.ID, "admin"))
	require.NoError(t, svc.Pin(ctx, c3.ID, "admin"))

	assert.ElementsMatch(t, []string{c1.ID, c2.ID, c3.ID}, pinnedIDs(t, store, "p1"))

	require.NoError(t, svc.Pin(ctx, c4.ID, "admin"))

	ids := pinnedIDs(t, store, "p1")
	assert.Len(t, ids, 3)
	assert.ElementsMatch(t, []string{c2.ID, c3.ID, c4.ID}, ids)

	unpinned, err := store.GetComment(ctx, c1.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
	assert.Nil(t, unpinned.PinnedAt)
	assert.Empty(t, unpinned.PinnedBy)
}

func TestRepinRefreshesWithoutEviction(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")

	c1 := seedComment(t, svc, "p1", "u1")
	c2 := seedComment(t, svc, "p1", "u2")
	c3 := seedComment(t, svc, "p1", "u3")

	require.NoError(t, svc.Pin(ctx, c1.ID, "admin"))
	require.NoError(t, svc.Pin(ctx, c2.ID, "admin"))
	require.NoError(t, svc.Pin(ctx, c3.ID, "admin"))

	// Re-pinning c1 refreshes its pinnedAt; nothing is evicted.
	require.NoError(t, svc.Pin(ctx, c1.ID, "admin2"))

	ids := pinnedIDs(t, store, "p1")
	assert.ElementsMatch(t, []string{c1.ID, c2.ID, c3.ID}, ids)
	// c1 is now the newest pin, so c2 is the next eviction candidate.
	assert.Equal(t, c2.ID, ids[0])

	repinned, err := store.GetComment(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin2", repinned.PinnedBy)
}

func TestPinMissingComment(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)

	err := svc.Pin(ctx, "no-such-comment", "admin")
	assert.True(t, utils.IsNotFound(err))
}

func TestUnpinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestService(store)
	seedPost(t, store, "p1")
	c1 := seedComment(t, svc, "p1", "u1")

	require.NoError(t, svc.Pin(ctx, c1.ID, "admin"))
	require.NoError(t, svc.Unpin(ctx, c1.ID))
	require.NoError(t, svc.Unpin(ctx, c1.ID))

	comment, err := store.GetComment(ctx, c1.ID)
	require.NoError(t, err)
	assert.False(t, comment.IsPinned)
}
