package engagement

import (
	"context"
	"sort"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// CreateComment adds a comment to a post, or a reply when parentID is
// set. Nesting is single-level: replying to a reply is rejected.
func (s *Service) CreateComment(ctx context.Context, postID string, parentID *string, authorID, authorName, authorImage, content string) (*models.Comment, error) {
	if postID == "" {
		return nil, utils.NewValidationError("postId")
	}
	if authorID == "" {
		return nil, utils.NewValidationError("authorId")
	}
	if content == "" {
		return nil, utils.NewValidationError("content")
	}

	if parentID != nil {
		parent, err := s.store.GetComment(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, utils.NewAppError(utils.ErrReplyDepth,
				"Replies cannot be nested beyond one level", nil)
		}
		if parent.PostID != postID {
			return nil, utils.NewValidationError("parentId")
		}
	}

	now := s.now()
	comment := &models.Comment{
		PostID:      postID,
		ParentID:    parentID,
		AuthorID:    authorID,
		AuthorName:  authorName,
		AuthorImage: authorImage,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
		LikedBy:     []string{},
		Reactions:   models.NewEngagementSummary(),
	}
	if err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, err
	}

	// Comment count is a denormalized convenience like the reaction
	// summaries; a failed bump is logged and left for display drift.
	if err := s.store.AdjustPostCommentCount(ctx, postID, 1); err != nil {
		s.log.Warn("comment count bump failed", "post", postID, "error", err)
	}
	return comment, nil
}

// EditComment replaces the body of the author's own comment and flags it
// as edited.
func (s *Service) EditComment(ctx context.Context, commentID, authorID, content string) error {
	if commentID == "" {
		return utils.NewValidationError("commentId")
	}
	if content == "" {
		return utils.NewValidationError("content")
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != authorID {
		return utils.NewAppError(utils.ErrForbidden, "Only the author can edit a comment", nil)
	}
	if comment.IsDeleted {
		return utils.NewAppError(utils.ErrValidation, "Cannot edit a deleted comment", nil)
	}

	return s.store.SetCommentContent(ctx, commentID, content, true)
}

// DeleteComment soft-deletes: the comment stays in the thread as a
// tombstone and the post's comment count is left untouched.
func (s *Service) DeleteComment(ctx context.Context, commentID, requesterID string, isAdmin bool) error {
	if commentID == "" {
		return utils.NewValidationError("commentId")
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !isAdmin && comment.AuthorID != requesterID {
		return utils.NewAppError(utils.ErrForbidden, "Only the author or an admin can delete a comment", nil)
	}

	return s.store.SoftDeleteComment(ctx, commentID)
}

// ToggleCommentLike flips userID's like on a comment and returns the new
// state.
func (s *Service) ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, error) {
	if commentID == "" {
		return false, utils.NewValidationError("commentId")
	}
	if userID == "" {
		return false, utils.NewValidationError("userId")
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return false, err
	}

	liked := !comment.LikedByUser(userID)
	if err := s.store.SetCommentLike(ctx, commentID, userID, liked); err != nil {
		return false, err
	}
	return liked, nil
}

// ListPostComments returns a post's comments with pinned ones first
// (newest pin leading), then the rest newest first. Store failures
// degrade to an empty thread.
func (s *Service) ListPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if postID == "" {
		return nil, utils.NewValidationError("postId")
	}

	comments, err := s.store.GetPostComments(ctx, postID)
	if err != nil {
		s.log.Warn("comment listing failed, degrading to empty",
			"post", postID, "error", err)
		return []*models.Comment{}, nil
	}

	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if a.IsPinned && b.IsPinned && a.PinnedAt != nil && b.PinnedAt != nil && !a.PinnedAt.Equal(*b.PinnedAt) {
			return a.PinnedAt.After(*b.PinnedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return comments, nil
}
