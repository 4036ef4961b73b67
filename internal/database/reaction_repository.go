package database

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReactionDocument represents one user's reaction in MongoDB.
type ReactionDocument struct {
	ID        string    `bson:"_id"`
	TargetID  string    `bson:"targetId"`
	UserID    string    `bson:"userId"`
	UserName  string    `bson:"userName"`
	UserImage string    `bson:"userImage,omitempty"`
	Type      string    `bson:"type"`
	CreatedAt time.Time `bson:"createdAt"`
}

func reactionModelToDocument(rec *models.ReactionRecord) *ReactionDocument {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	return &ReactionDocument{
		ID:        id,
		TargetID:  rec.TargetID,
		UserID:    rec.UserID,
		UserName:  rec.UserName,
		UserImage: rec.UserImage,
		Type:      string(rec.Type),
		CreatedAt: rec.CreatedAt,
	}
}

func reactionDocumentToModel(doc *ReactionDocument) *models.ReactionRecord {
	return &models.ReactionRecord{
		ID:        doc.ID,
		TargetID:  doc.TargetID,
		UserID:    doc.UserID,
		UserName:  doc.UserName,
		UserImage: doc.UserImage,
		Type:      models.ReactionType(doc.Type),
		CreatedAt: doc.CreatedAt,
	}
}

// GetReaction retrieves the reaction record for a (target, user) pair.
func (m *MongoDB) GetReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) (*models.ReactionRecord, error) {
	var doc ReactionDocument

	err := m.reactionCollection(kind).FindOne(ctx, bson.M{
		"targetId": targetID,
		"userId":   userID,
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Reaction", targetID+"/"+userID)
	}
	if err != nil {
		return nil, utils.NewStoreError("get reaction", err)
	}

	return reactionDocumentToModel(&doc), nil
}

// SaveReaction upserts the record by (target, user), so a second reaction
// from the same user replaces the first instead of adding to it.
func (m *MongoDB) SaveReaction(ctx context.Context, kind models.TargetKind, rec *models.ReactionRecord) error {
	doc := reactionModelToDocument(rec)
	rec.ID = doc.ID

	opts := options.Update().SetUpsert(true)
	filter := bson.M{
		"targetId": rec.TargetID,
		"userId":   rec.UserID,
	}
	update := bson.M{"$set": bson.M{
		"targetId":  doc.TargetID,
		"userId":    doc.UserID,
		"userName":  doc.UserName,
		"userImage": doc.UserImage,
		"type":      doc.Type,
		"createdAt": doc.CreatedAt,
	}}

	if _, err := m.reactionCollection(kind).UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewStoreError("save reaction", err)
	}
	return nil
}

// DeleteReaction removes the record for a (target, user) pair. Deleting an
// absent record is a silent no-op: "remove something already gone" is a
// benign race, not an error.
func (m *MongoDB) DeleteReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) error {
	_, err := m.reactionCollection(kind).DeleteOne(ctx, bson.M{
		"targetId": targetID,
		"userId":   userID,
	})
	if err != nil {
		return utils.NewStoreError("delete reaction", err)
	}
	return nil
}

// ListReactions loads every record for a target. This is the recount path
// the reconciler depends on; no limit is applied.
func (m *MongoDB) ListReactions(ctx context.Context, kind models.TargetKind, targetID string) ([]*models.ReactionRecord, error) {
	cursor, err := m.reactionCollection(kind).Find(ctx, bson.M{"targetId": targetID})
	if err != nil {
		return nil, utils.NewStoreError("list reactions", err)
	}
	defer cursor.Close(ctx)

	var records []*models.ReactionRecord
	for cursor.Next(ctx) {
		var doc ReactionDocument
		if err := cursor.Decode(&doc); err != nil {
			slog.Warn("skipping undecodable reaction document", "target", targetID, "error", err)
			continue
		}
		records = append(records, reactionDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreError("list reactions", err)
	}
	return records, nil
}

// ListReactionsPage returns one page of reactors for a target, most recent
// first, with an opaque continuation cursor. typeFilter "all" unions every
// type; any other value filters to that type.
func (m *MongoDB) ListReactionsPage(ctx context.Context, kind models.TargetKind, targetID, typeFilter string, pageSize int, cursor string) ([]*models.ReactionRecord, string, error) {
	filter := bson.M{"targetId": targetID}
	if typeFilter != "" && typeFilter != "all" {
		filter["type"] = typeFilter
	}

	if cursor != "" {
		after, afterID, err := decodeReactionCursor(cursor)
		if err != nil {
			return nil, "", utils.NewValidationError("cursor")
		}
		// Start strictly after the cursor item in (createdAt desc, _id desc)
		// order so chained pages neither skip nor repeat records.
		filter["$or"] = bson.A{
			bson.M{"createdAt": bson.M{"$lt": after}},
			bson.M{"createdAt": after, "_id": bson.M{"$lt": afterID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(pageSize))

	cur, err := m.reactionCollection(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, "", utils.NewStoreError("list reactors page", err)
	}
	defer cur.Close(ctx)

	var records []*models.ReactionRecord
	for cur.Next(ctx) {
		var doc ReactionDocument
		if err := cur.Decode(&doc); err != nil {
			slog.Warn("skipping undecodable reaction document", "target", targetID, "error", err)
			continue
		}
		records = append(records, reactionDocumentToModel(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, "", utils.NewStoreError("list reactors page", err)
	}

	nextCursor := ""
	if len(records) > 0 {
		last := records[len(records)-1]
		nextCursor = encodeReactionCursor(last.CreatedAt, last.ID)
	}
	return records, nextCursor, nil
}

// encodeReactionCursor packs a (createdAt, id) position into an opaque
// token. The token is only meaningful to this repository.
func encodeReactionCursor(createdAt time.Time, id string) string {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeReactionCursor(token string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor: %v", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed cursor payload")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor timestamp: %v", err)
	}
	return time.Unix(0, nanos), parts[1], nil
}
