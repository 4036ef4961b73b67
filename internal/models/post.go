package models

import "time"

// Post is a blog post (concert review, event announcement). Only the
// engagement-facing fields live here; editorial fields stay in the CMS.
type Post struct {
	ID           string
	Slug         string
	Title        string
	AuthorID     string
	AuthorName   string
	CreatedAt    time.Time
	Views        int
	CommentCount int
	Reactions    EngagementSummary
	Rating       PostRatingAggregate
}
