package engagement

import (
	"context"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// Pin marks a comment as pinned by adminID. At most MaxPinnedComments
// comments per post may be pinned; pinning one more evicts the comment
// with the oldest pinnedAt (ties broken by ascending id). The caller is
// responsible for having verified the admin capability.
func (s *Service) Pin(ctx context.Context, commentID, adminID string) error {
	if commentID == "" {
		return utils.NewValidationError("commentId")
	}
	if adminID == "" {
		return utils.NewValidationError("adminId")
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	pinned, err := s.store.GetPinnedComments(ctx, comment.PostID)
	if err != nil {
		return err
	}

	// Count the already-pinned set without the target itself, so
	// re-pinning an already-pinned comment only refreshes its pinnedAt.
	others := make([]*models.Comment, 0, len(pinned))
	for _, c := range pinned {
		if c.ID != commentID {
			others = append(others, c)
		}
	}

	// others is ordered oldest pin first; evict from the front until the
	// cap has room for the new pin.
	for len(others) >= models.MaxPinnedComments {
		oldest := others[0]
		if err := s.store.SetCommentPin(ctx, oldest.ID, nil, ""); err != nil {
			return err
		}
		s.log.Info("evicted oldest pinned comment",
			"post", comment.PostID, "comment", oldest.ID)
		others = others[1:]
	}

	now := s.now()
	return s.store.SetCommentPin(ctx, commentID, &now, adminID)
}

// Unpin clears the comment's pin metadata. Unpinning a comment that is
// not pinned is an idempotent no-op.
func (s *Service) Unpin(ctx context.Context, commentID string) error {
	if commentID == "" {
		return utils.NewValidationError("commentId")
	}
	return s.store.SetCommentPin(ctx, commentID, nil, "")
}
