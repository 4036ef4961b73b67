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

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID          string               `bson:"_id"`
	PostID      string               `bson:"postId"`
	ParentID    *string              `bson:"parentId,omitempty"`
	AuthorID    string               `bson:"authorId"`
	AuthorName  string               `bson:"authorName"`
	AuthorImage string               `bson:"authorImage,omitempty"`
	Content     string               `bson:"content"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
	Edited      bool                 `bson:"edited"`
	IsDeleted   bool                 `bson:"isDeleted"`
	Likes       int                  `bson:"likes"`
	LikedBy     []string             `bson:"likedBy"`
	IsPinned    bool                 `bson:"isPinned"`
	PinnedAt    *time.Time           `bson:"pinnedAt,omitempty"`
	PinnedBy    string               `bson:"pinnedBy,omitempty"`
	Reactions   EngagementSummaryDoc `bson:"reactions"`
}

func commentModelToDocument(comment *models.Comment) *CommentDocument {
	likedBy := comment.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return &CommentDocument{
		ID:          comment.ID,
		PostID:      comment.PostID,
		ParentID:    comment.ParentID,
		AuthorID:    comment.AuthorID,
		AuthorName:  comment.AuthorName,
		AuthorImage: comment.AuthorImage,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
		Edited:      comment.Edited,
		IsDeleted:   comment.IsDeleted,
		Likes:       comment.Likes,
		LikedBy:     likedBy,
		IsPinned:    comment.IsPinned,
		PinnedAt:    comment.PinnedAt,
		PinnedBy:    comment.PinnedBy,
		Reactions:   summaryToDoc(comment.Reactions),
	}
}

func commentDocumentToModel(doc *CommentDocument) *models.Comment {
	return &models.Comment{
		ID:          doc.ID,
		PostID:      doc.PostID,
		ParentID:    doc.ParentID,
		AuthorID:    doc.AuthorID,
		AuthorName:  doc.AuthorName,
		AuthorImage: doc.AuthorImage,
		Content:     doc.Content,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		Edited:      doc.Edited,
		IsDeleted:   doc.IsDeleted,
		Likes:       doc.Likes,
		LikedBy:     doc.LikedBy,
		IsPinned:    doc.IsPinned,
		PinnedAt:    doc.PinnedAt,
		PinnedBy:    doc.PinnedBy,
		Reactions:   summaryFromDoc(doc.Reactions),
	}
}

// SaveComment creates or updates a comment.
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	doc := commentModelToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": comment.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Comments.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewStoreError("save comment", err)
	}
	return nil
}

// GetComment retrieves a comment by ID.
func (m *MongoDB) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+id, err)
	}
	if err != nil {
		return nil, utils.NewStoreError("get comment", err)
	}

	return commentDocumentToModel(&doc), nil
}

// GetPostComments retrieves all comments for a post, newest first.
func (m *MongoDB) GetPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, utils.NewStoreError("get post comments", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewStoreError("decode comment", err)
		}
		comments = append(comments, commentDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreError("get post comments", err)
	}
	return comments, nil
}

// GetPinnedComments retrieves the pinned comments for a post, oldest pin
// first, so the caller can evict in FIFO order.
func (m *MongoDB) GetPinnedComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "pinnedAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": postID, "isPinned": true}, opts)
	if err != nil {
		return nil, utils.NewStoreError("get pinned comments", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewStoreError("decode comment", err)
		}
		comments = append(comments, commentDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreError("get pinned comments", err)
	}
	return comments, nil
}

// SetCommentPin marks or clears pin metadata. A nil pinnedAt unpins.
func (m *MongoDB) SetCommentPin(ctx context.Context, commentID string, pinnedAt *time.Time, pinnedBy string) error {
	var update bson.M
	if pinnedAt == nil {
		update = bson.M{
			"$set":   bson.M{"isPinned": false},
			"$unset": bson.M{"pinnedAt": "", "pinnedBy": ""},
		}
	} else {
		update = bson.M{"$set": bson.M{
			"isPinned": true,
			"pinnedAt": *pinnedAt,
			"pinnedBy": pinnedBy,
		}}
	}

	result, err := m.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, update)
	if err != nil {
		return utils.NewStoreError("set comment pin", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return nil
}

// SetCommentContent replaces the comment body and flags it as edited.
func (m *MongoDB) SetCommentContent(ctx context.Context, commentID, content string, edited bool) error {
	result, err := m.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": bson.M{
			"content":   content,
			"edited":    edited,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return utils.NewStoreError("set comment content", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return nil
}

// SoftDeleteComment replaces the content with the tombstone text and flags
// the comment deleted. The original content is discarded.
func (m *MongoDB) SoftDeleteComment(ctx context.Context, commentID string) error {
	result, err := m.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": bson.M{
			"isDeleted": true,
			"content":   models.TombstoneText,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return utils.NewStoreError("soft delete comment", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return nil
}

// SetCommentLike adds or removes userID in the like set and adjusts the
// like counter in the same update.
func (m *MongoDB) SetCommentLike(ctx context.Context, commentID, userID string, liked bool) error {
	var update bson.M
	if liked {
		update = bson.M{
			"$addToSet": bson.M{"likedBy": userID},
			"$inc":      bson.M{"likes": 1},
		}
	} else {
		update = bson.M{
			"$pull": bson.M{"likedBy": userID},
			"$inc":  bson.M{"likes": -1},
		}
	}

	result, err := m.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, update)
	if err != nil {
		return utils.NewStoreError("set comment like", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return nil
}

// SetCommentSummary overwrites the comment's reaction summary.
func (m *MongoDB) SetCommentSummary(ctx context.Context, commentID string, summary models.EngagementSummary) error {
	result, err := m.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID},
		bson.M{"$set": bson.M{"reactions": summaryToDoc(summary)}},
	)
	if err != nil {
		return utils.NewStoreError("set comment summary", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return nil
}

// ApplyCommentSummaryDelta mirrors one ledger write into the comment's
// cached summary with atomic increments.
func (m *MongoDB) ApplyCommentSummaryDelta(ctx context.Context, commentID string, added, removed models.ReactionType) error {
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

	result, err := m.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$inc": inc})
	if err != nil {
		return utils.NewStoreError("apply comment summary delta", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return nil
}
