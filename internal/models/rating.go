package models

import "time"

// Rating is one user's 1-5 star rating of a post, with an optional
// free-text comment. At most one rating exists per (post, user).
type Rating struct {
	ID        string
	PostID    string
	UserID    string
	UserName  string
	Value     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostRatingAggregate is the derived mean/count stored on the post.
// Recomputed by full scan; ratings are low-frequency enough that no
// incremental update is kept.
type PostRatingAggregate struct {
	AverageRating float64
	RatingCount   int
}
