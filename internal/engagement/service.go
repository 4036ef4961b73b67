// Package engagement implements the reaction ledger, counter
// reconciliation, rating aggregation and reactor listing for posts and
// comments. The per-(target,user) record set is the source of truth;
// every counter on a post or comment is a cache derived from it.
package engagement

import (
	"context"
	"log/slog"
	"time"

	"ritmo-vivo/internal/cache"
	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// Cache TTLs observed to be safe for each read shape. The caches are an
// optimization only and may be nil.
const (
	ListCacheTTL     = 60 * time.Second
	SlugCacheTTL     = 5 * time.Minute
	ReactionCacheTTL = 5 * time.Second
)

// Service is the engagement façade. One instance per process.
type Service struct {
	store   database.Store
	metrics *utils.MetricsCollector
	log     *slog.Logger

	// reactionCache answers "did this user already react" (5s TTL),
	// listCache holds reactor pages (60s), slugCache post-by-slug (5m).
	reactionCache *cache.TTL
	listCache     *cache.TTL
	slugCache     *cache.TTL

	now func() time.Time
}

// NewService wires the engagement layer. metrics and the caches may be
// nil; now defaults to time.Now and is injected by tests.
func NewService(store database.Store, metrics *utils.MetricsCollector, reactionCache, listCache, slugCache *cache.TTL, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:         store,
		metrics:       metrics,
		log:           slog.Default(),
		reactionCache: reactionCache,
		listCache:     listCache,
		slugCache:     slugCache,
		now:           now,
	}
}

// GetPostBySlug is the blog's hot read path, cached for 5 minutes.
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if slug == "" {
		return nil, utils.NewValidationError("slug")
	}

	if v, ok := s.slugCache.Get("slug:" + slug); ok {
		return v.(*models.Post), nil
	}

	post, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.slugCache.Set("slug:"+slug, post)
	return post, nil
}

// IncrementViews bumps the post's view counter through the store's atomic
// increment. The fourth instance of the counter pattern, but with no
// per-user ledger behind it, so there is nothing to reconcile against.
func (s *Service) IncrementViews(ctx context.Context, postID string) error {
	if postID == "" {
		return utils.NewValidationError("postId")
	}
	return s.store.IncrementPostViews(ctx, postID)
}

// DeletePost removes a post and cascades to its comments, ratings and
// reaction ledgers.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	if postID == "" {
		return utils.NewValidationError("postId")
	}
	// The by-slug cache is not invalidated here; a deleted post may be
	// served for up to SlugCacheTTL, same as the source behavior.
	return s.store.DeletePostCascade(ctx, postID)
}

// recordDriftRepair counts one reconciliation that had to rewrite a
// stored summary.
func (s *Service) recordDriftRepair() {
	if s.metrics != nil {
		s.metrics.IncrementDriftRepairs()
	}
}
