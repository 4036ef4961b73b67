// internal/database/post_repository.go
package database

import (
	"context"
	"time"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EngagementSummaryDoc is the embedded denormalized reaction cache.
type EngagementSummaryDoc struct {
	Total int            `bson:"total"`
	Types map[string]int `bson:"types"`
}

func summaryToDoc(s models.EngagementSummary) EngagementSummaryDoc {
	doc := EngagementSummaryDoc{Total: s.Total, Types: make(map[string]int, len(s.Types))}
	for t, n := range s.Types {
		doc.Types[t.String()] = n
	}
	return doc
}

func summaryFromDoc(doc EngagementSummaryDoc) models.EngagementSummary {
	s := models.EngagementSummary{Total: doc.Total, Types: make(map[models.ReactionType]int, len(doc.Types))}
	for t, n := range doc.Types {
		s.Types[models.ReactionType(t)] = n
	}
	return s
}

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID            string               `bson:"_id"`
	Slug          string               `bson:"slug"`
	Title         string               `bson:"title"`
	AuthorID      string               `bson:"authorId"`
	AuthorName    string               `bson:"authorName"`
	CreatedAt     time.Time            `bson:"createdAt"`
	Views         int                  `bson:"views"`
	CommentCount  int                  `bson:"commentCount"`
	Reactions     EngagementSummaryDoc `bson:"reactions"`
	AverageRating float64              `bson:"averageRating"`
	RatingCount   int                  `bson:"ratingCount"`
}

func postModelToDocument(post *models.Post) *PostDocument {
	return &PostDocument{
		ID:            post.ID,
		Slug:          post.Slug,
		Title:         post.Title,
		AuthorID:      post.AuthorID,
		AuthorName:    post.AuthorName,
		CreatedAt:     post.CreatedAt,
		Views:         post.Views,
		CommentCount:  post.CommentCount,
		Reactions:     summaryToDoc(post.Reactions),
		AverageRating: post.Rating.AverageRating,
		RatingCount:   post.Rating.RatingCount,
	}
}

func postDocumentToModel(doc *PostDocument) *models.Post {
	return &models.Post{
		ID:           doc.ID,
		Slug:         doc.Slug,
		Title:        doc.Title,
		AuthorID:     doc.AuthorID,
		AuthorName:   doc.AuthorName,
		CreatedAt:    doc.CreatedAt,
		Views:        doc.Views,
		CommentCount: doc.CommentCount,
		Reactions:    summaryFromDoc(doc.Reactions),
		Rating: models.PostRatingAggregate{
			AverageRating: doc.AverageRating,
			RatingCount:   doc.RatingCount,
		},
	}
}

// SavePost creates or updates a post.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	doc := postModelToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Posts.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewStoreError("save post", err)
	}
	return nil
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+id, err)
	}
	if err != nil {
		return nil, utils.NewStoreError("get post", err)
	}

	return postDocumentToModel(&doc), nil
}

// GetPostBySlug retrieves a post by its URL slug.
func (m *MongoDB) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+slug, err)
	}
	if err != nil {
		return nil, utils.NewStoreError("get post by slug", err)
	}

	return postDocumentToModel(&doc), nil
}

// SetPostSummary overwrites the stored reaction summary. Used by the
// reconciler after a recount; last writer wins.
func (m *MongoDB) SetPostSummary(ctx context.Context, postID string, summary models.EngagementSummary) error {
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"reactions": summaryToDoc(summary)}},
	)
	if err != nil {
		return utils.NewStoreError("set post summary", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	return nil
}

// ApplyPostSummaryDelta mirrors one ledger write into the cached summary
// with atomic increments. Drift from racing writers is repaired by the
// next reconciliation, not prevented here.
func (m *MongoDB) ApplyPostSummaryDelta(ctx context.Context, postID string, added, removed models.ReactionType) error {
	inc := bson.M{}
	if added != "" {
		inc["reactions.total"] = 1
		inc["reactions.types."+added.String()] = 1
	}
	if removed != "" {
		inc["reactions.total"] = asInt(inc["reactions.total"]) - 1
		inc["reactions.types."+removed.String()] = asInt(inc["reactions.types."+removed.String()]) - 1
	}
	if len(inc) == 0 {
		return nil
	}

	result, err := m.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$inc": inc})
	if err != nil {
		return utils.NewStoreError("apply post summary delta", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	return nil
}

// SetPostRatingAggregate stores the recomputed mean and count.
func (m *MongoDB) SetPostRatingAggregate(ctx context.Context, postID string, agg models.PostRatingAggregate) error {
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{
			"averageRating": agg.AverageRating,
			"ratingCount":   agg.RatingCount,
		}},
	)
	if err != nil {
		return utils.NewStoreError("set post rating aggregate", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	return nil
}

// IncrementPostViews bumps the view counter atomically.
func (m *MongoDB) IncrementPostViews(ctx context.Context, postID string) error {
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		return utils.NewStoreError("increment post views", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	return nil
}

// AdjustPostCommentCount applies a comment-count delta atomically.
func (m *MongoDB) AdjustPostCommentCount(ctx context.Context, postID string, delta int) error {
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"commentCount": delta}},
	)
	if err != nil {
		return utils.NewStoreError("adjust post comment count", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}
	return nil
}

// DeletePostCascade removes a post together with its comments, ratings and
// both reaction ledgers, so a reused id cannot resurrect stale counts.
func (m *MongoDB) DeletePostCascade(ctx context.Context, postID string) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return utils.NewStoreError("delete post", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrPostNotFound, "Post not found: "+postID, nil)
	}

	// Collect comment ids first so their ledgers can be cleared too.
	comments, err := m.GetPostComments(ctx, postID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if _, err := m.CommentReactions.DeleteMany(ctx, bson.M{"targetId": c.ID}); err != nil {
			return utils.NewStoreError("delete comment reactions", err)
		}
	}

	if _, err := m.Comments.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return utils.NewStoreError("delete post comments", err)
	}
	if _, err := m.Reactions.DeleteMany(ctx, bson.M{"targetId": postID}); err != nil {
		return utils.NewStoreError("delete post reactions", err)
	}
	if _, err := m.Ratings.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return utils.NewStoreError("delete post ratings", err)
	}
	return nil
}

func asInt(v interface{}) int {
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}
