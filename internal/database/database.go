// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ritmo-vivo/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store defines the document-store operations the engagement layer needs.
// MongoDB implements it; tests run against an in-memory fake.
type Store interface {
	// Connection
	Close(ctx context.Context) error

	// Post methods
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	SavePost(ctx context.Context, post *models.Post) error
	SetPostSummary(ctx context.Context, postID string, summary models.EngagementSummary) error
	ApplyPostSummaryDelta(ctx context.Context, postID string, added, removed models.ReactionType) error
	SetPostRatingAggregate(ctx context.Context, postID string, agg models.PostRatingAggregate) error
	IncrementPostViews(ctx context.Context, postID string) error
	AdjustPostCommentCount(ctx context.Context, postID string, delta int) error
	DeletePostCascade(ctx context.Context, postID string) error

	// Reaction ledger methods (kind routes to the post or comment collection)
	GetReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) (*models.ReactionRecord, error)
	SaveReaction(ctx context.Context, kind models.TargetKind, rec *models.ReactionRecord) error
	DeleteReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) error
	ListReactions(ctx context.Context, kind models.TargetKind, targetID string) ([]*models.ReactionRecord, error)
	ListReactionsPage(ctx context.Context, kind models.TargetKind, targetID, typeFilter string, pageSize int, cursor string) ([]*models.ReactionRecord, string, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID string) ([]*models.Comment, error)
	GetPinnedComments(ctx context.Context, postID string) ([]*models.Comment, error)
	SetCommentPin(ctx context.Context, commentID string, pinnedAt *time.Time, pinnedBy string) error
	SetCommentContent(ctx context.Context, commentID, content string, edited bool) error
	SoftDeleteComment(ctx context.Context, commentID string) error
	SetCommentLike(ctx context.Context, commentID, userID string, liked bool) error
	SetCommentSummary(ctx context.Context, commentID string, summary models.EngagementSummary) error
	ApplyCommentSummaryDelta(ctx context.Context, commentID string, added, removed models.ReactionType) error

	// Rating methods
	GetRating(ctx context.Context, postID, userID string) (*models.Rating, error)
	SaveRating(ctx context.Context, rating *models.Rating) error
	ListRatings(ctx context.Context, postID string) ([]*models.Rating, error)
}

type MongoDB struct {
	Client           *mongo.Client
	Posts            *mongo.Collection
	Comments         *mongo.Collection
	Reactions        *mongo.Collection
	CommentReactions *mongo.Collection
	Ratings          *mongo.Collection
}

var _ Store = (*MongoDB)(nil)

func NewMongoDB(uri string, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	slog.Info("connected to MongoDB", "database", dbName)

	db := client.Database(dbName)
	return &MongoDB{
		Client:           client,
		Posts:            db.Collection("posts"),
		Comments:         db.Collection("comments"),
		Reactions:        db.Collection("reactions"),
		CommentReactions: db.Collection("comment_reactions"),
		Ratings:          db.Collection("ratings"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// reactionCollection routes a target kind to its ledger collection.
func (m *MongoDB) reactionCollection(kind models.TargetKind) *mongo.Collection {
	if kind == models.TargetComment {
		return m.CommentReactions
	}
	return m.Reactions
}

// EnsureIndexes creates the indexes every query path relies on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	ledgerIndexes := []mongo.IndexModel{
		{
			// One record per (target, user); enforced by the store so a
			// racing double-create cannot duplicate a reaction.
			Keys:    bson.D{{Key: "targetId", Value: 1}, {Key: "userId", Value: 1}},
			Options: unique,
		},
		{
			Keys: bson.D{
				{Key: "targetId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	for _, coll := range []*mongo.Collection{m.Reactions, m.CommentReactions} {
		if _, err := coll.Indexes().CreateMany(ctx, ledgerIndexes); err != nil {
			return fmt.Errorf("failed to create ledger indexes: %v", err)
		}
	}

	if _, err := m.Ratings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
			Options: unique,
		},
	}); err != nil {
		return fmt.Errorf("failed to create rating indexes: %v", err)
	}

	if _, err := m.Comments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "postId", Value: 1}, {Key: "isPinned", Value: 1}, {Key: "pinnedAt", Value: 1}},
		},
	}); err != nil {
		return fmt.Errorf("failed to create comment indexes: %v", err)
	}

	if _, err := m.Posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: unique,
		},
	}); err != nil {
		return fmt.Errorf("failed to create post indexes: %v", err)
	}

	return nil
}
