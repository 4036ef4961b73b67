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

// RatingDocument represents one user's rating of a post in MongoDB.
type RatingDocument struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"postId"`
	UserID    string    `bson:"userId"`
	UserName  string    `bson:"userName,omitempty"`
	Value     int       `bson:"value"`
	Comment   string    `bson:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func ratingModelToDocument(rating *models.Rating) *RatingDocument {
	id := rating.ID
	if id == "" {
		id = uuid.New().String()
	}
	return &RatingDocument{
		ID:        id,
		PostID:    rating.PostID,
		UserID:    rating.UserID,
		UserName:  rating.UserName,
		Value:     rating.Value,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func ratingDocumentToModel(doc *RatingDocument) *models.Rating {
	return &models.Rating{
		ID:        doc.ID,
		PostID:    doc.PostID,
		UserID:    doc.UserID,
		UserName:  doc.UserName,
		Value:     doc.Value,
		Comment:   doc.Comment,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// GetRating retrieves the rating for a (post, user) pair.
func (m *MongoDB) GetRating(ctx context.Context, postID, userID string) (*models.Rating, error) {
	var doc RatingDocument

	err := m.Ratings.FindOne(ctx, bson.M{
		"postId": postID,
		"userId": userID,
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Rating", postID+"/"+userID)
	}
	if err != nil {
		return nil, utils.NewStoreError("get rating", err)
	}

	return ratingDocumentToModel(&doc), nil
}

// SaveRating upserts by (post, user): resubmitting updates in place.
func (m *MongoDB) SaveRating(ctx context.Context, rating *models.Rating) error {
	doc := ratingModelToDocument(rating)
	rating.ID = doc.ID

	opts := options.Update().SetUpsert(true)
	filter := bson.M{
		"postId": rating.PostID,
		"userId": rating.UserID,
	}
	update := bson.M{"$set": bson.M{
		"postId":    doc.PostID,
		"userId":    doc.UserID,
		"userName":  doc.UserName,
		"value":     doc.Value,
		"comment":   doc.Comment,
		"createdAt": doc.CreatedAt,
		"updatedAt": doc.UpdatedAt,
	}}

	if _, err := m.Ratings.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewStoreError("save rating", err)
	}
	return nil
}

// ListRatings loads every rating for a post. This is the full-scan path
// the aggregate recompute depends on.
func (m *MongoDB) ListRatings(ctx context.Context, postID string) ([]*models.Rating, error) {
	cursor, err := m.Ratings.Find(ctx, bson.M{"postId": postID})
	if err != nil {
		return nil, utils.NewStoreError("list ratings", err)
	}
	defer cursor.Close(ctx)

	var ratings []*models.Rating
	for cursor.Next(ctx) {
		var doc RatingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewStoreError("decode rating", err)
		}
		ratings = append(ratings, ratingDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreError("list ratings", err)
	}
	return ratings, nil
}
