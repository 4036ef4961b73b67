package engagement

import (
	"context"
	"fmt"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// DefaultReactorPageSize matches the detail modal's page length.
const DefaultReactorPageSize = 10

// ReactorsPage is one page of "who reacted with X" results.
type ReactorsPage struct {
	Items      []*models.ReactionRecord
	NextCursor string
	HasMore    bool
}

// ListReactors returns one page of reactors for a target, most recent
// first. typeFilter "all" (or empty) unions every type; any other value
// filters to that single type. Pass the returned NextCursor to continue;
// under a quiescent ledger, chained pages neither skip nor repeat items.
//
// HasMore is the source's heuristic, len(items) == pageSize, not a true
// next-page probe: a result set that ends exactly on a page boundary
// reports HasMore=true once, and the follow-up fetch resolves empty with
// HasMore=false. Preserved deliberately.
func (s *Service) ListReactors(ctx context.Context, kind models.TargetKind, targetID, typeFilter string, pageSize int, cursor string) (ReactorsPage, error) {
	if targetID == "" {
		return ReactorsPage{}, utils.NewValidationError("targetId")
	}
	if typeFilter == "" {
		typeFilter = "all"
	}
	if pageSize <= 0 {
		pageSize = DefaultReactorPageSize
	}

	key := fmt.Sprintf("reactors:%s:%s:%s:%d:%s", kind, targetID, typeFilter, pageSize, cursor)
	if v, ok := s.listCache.Get(key); ok {
		return v.(ReactorsPage), nil
	}

	items, nextCursor, err := s.store.ListReactionsPage(ctx, kind, targetID, typeFilter, pageSize, cursor)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrValidation) {
			return ReactorsPage{}, err
		}
		// Read path: a transient store failure renders as an empty page.
		s.log.Warn("reactor listing failed, degrading to empty page",
			"kind", kind, "target", targetID, "type", typeFilter, "error", err)
		return ReactorsPage{Items: []*models.ReactionRecord{}}, nil
	}

	page := ReactorsPage{
		Items:   items,
		HasMore: len(items) == pageSize,
	}
	if page.HasMore {
		page.NextCursor = nextCursor
	}
	if page.Items == nil {
		page.Items = []*models.ReactionRecord{}
	}

	s.listCache.Set(key, page)
	return page, nil
}
