package engagement

import (
	"context"
	"math"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// Rate upserts userID's rating of a post. A resubmission updates the
// value, comment and updatedAt in place; createdAt is preserved. The
// value must be a whole number from 1 to 5.
func (s *Service) Rate(ctx context.Context, postID, userID, userName string, value float64, comment string) (string, error) {
	if postID == "" {
		return "", utils.NewValidationError("postId")
	}
	if userID == "" {
		return "", utils.NewValidationError("userId")
	}
	if value < 1 || value > 5 || value != math.Trunc(value) {
		return "", utils.NewRatingOutOfRangeError(value)
	}

	now := s.now()
	rating := &models.Rating{
		PostID:    postID,
		UserID:    userID,
		UserName:  userName,
		Value:     int(value),
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := s.store.GetRating(ctx, postID, userID)
	if err != nil && !utils.IsNotFound(err) {
		return "", err
	}
	if existing != nil {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	}

	if err := s.store.SaveRating(ctx, rating); err != nil {
		return "", err
	}
	return rating.ID, nil
}

// GetRating returns userID's rating of a post, or nil when there is none.
// Store failures degrade to "no rating".
func (s *Service) GetRating(ctx context.Context, postID, userID string) (*models.Rating, error) {
	if postID == "" || userID == "" {
		return nil, utils.NewValidationError("postId/userId")
	}

	rating, err := s.store.GetRating(ctx, postID, userID)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, nil
		}
		s.log.Warn("rating lookup failed, degrading to none",
			"post", postID, "user", userID, "error", err)
		return nil, nil
	}
	return rating, nil
}

// RecomputeAggregate rebuilds the post's mean/count by full scan and
// persists it. A post with no ratings aggregates to {0, 0}, which is a
// valid result, not an error. Returned so the caller can update its view
// without a second read.
func (s *Service) RecomputeAggregate(ctx context.Context, postID string) (models.PostRatingAggregate, error) {
	if postID == "" {
		return models.PostRatingAggregate{}, utils.NewValidationError("postId")
	}

	ratings, err := s.store.ListRatings(ctx, postID)
	if err != nil {
		return models.PostRatingAggregate{}, err
	}

	agg := models.PostRatingAggregate{}
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Value
		}
		agg.RatingCount = len(ratings)
		agg.AverageRating = float64(sum) / float64(len(ratings))
	}

	if err := s.store.SetPostRatingAggregate(ctx, postID, agg); err != nil {
		return models.PostRatingAggregate{}, err
	}
	return agg, nil
}
