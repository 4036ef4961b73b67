package models

import "time"

// TombstoneText replaces the content of a soft-deleted comment. The
// original content is discarded, not archived.
const TombstoneText = "comentario eliminado"

// MaxPinnedComments is the per-post cap; pinning beyond it evicts the
// oldest-pinned comment.
const MaxPinnedComments = 3

// Comment belongs to a post. Replies carry the parent comment id and are
// single-level: a reply cannot itself be replied to.
type Comment struct {
	ID          string
	PostID      string
	ParentID    *string
	AuthorID    string
	AuthorName  string
	AuthorImage string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Edited      bool
	IsDeleted   bool
	Likes       int
	LikedBy     []string
	IsPinned    bool
	PinnedAt    *time.Time
	PinnedBy    string
	// Reactions is the comment's own denormalized reaction cache,
	// independent of the parent post's.
	Reactions EngagementSummary
}

// LikedByUser reports whether userID is in the comment's like set.
func (c *Comment) LikedByUser(userID string) bool {
	for _, id := range c.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
