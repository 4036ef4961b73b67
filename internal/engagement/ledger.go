package engagement

import (
	"context"

	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/utils"
)

// Delta describes what one ledger write changed, for mirroring into the
// target's cached summary. A zero Delta means the write was a no-op.
type Delta struct {
	TargetID string
	Added    models.ReactionType
	Removed  models.ReactionType
}

// IsZero reports whether the write changed nothing.
func (d Delta) IsZero() bool {
	return d.Added == "" && d.Removed == ""
}

// SetReaction records userID's reaction to a target. A first reaction
// creates the record; the same type again is an idempotent no-op; a
// different type replaces the old one in place. At most one record ever
// exists per (target, user).
func (s *Service) SetReaction(ctx context.Context, kind models.TargetKind, targetID, userID, userName, userImage, rawType string) (Delta, error) {
	if targetID == "" {
		return Delta{}, utils.NewValidationError("targetId")
	}
	if userID == "" {
		return Delta{}, utils.NewValidationError("userId")
	}
	if rawType == "" {
		return Delta{}, utils.NewValidationError("type")
	}
	// Legacy clients still send v1 names; normalize before storing so the
	// ledger only ever holds current vocabulary.
	reaction := models.NormalizeReactionType(kind, rawType)

	existing, err := s.store.GetReaction(ctx, kind, targetID, userID)
	if err != nil && !utils.IsNotFound(err) {
		return Delta{}, err
	}

	var delta Delta
	switch {
	case existing == nil:
		rec := &models.ReactionRecord{
			TargetID:  targetID,
			UserID:    userID,
			UserName:  userName,
			UserImage: userImage,
			Type:      reaction,
			CreatedAt: s.now(),
		}
		if err := s.store.SaveReaction(ctx, kind, rec); err != nil {
			return Delta{}, err
		}
		delta = Delta{TargetID: targetID, Added: reaction}

	case existing.Type == reaction:
		// Same reaction again: nothing to write, nothing to mirror.
		return Delta{TargetID: targetID}, nil

	default:
		oldType := existing.Type
		existing.Type = reaction
		if err := s.store.SaveReaction(ctx, kind, existing); err != nil {
			return Delta{}, err
		}
		delta = Delta{TargetID: targetID, Added: reaction, Removed: oldType}
	}

	s.mirrorDelta(ctx, kind, delta)
	s.invalidateReactionCaches(kind, targetID, userID)
	return delta, nil
}

// ClearReaction removes userID's reaction from a target. Clearing an
// absent reaction is a benign race and a silent no-op.
func (s *Service) ClearReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) (Delta, error) {
	if targetID == "" {
		return Delta{}, utils.NewValidationError("targetId")
	}
	if userID == "" {
		return Delta{}, utils.NewValidationError("userId")
	}

	existing, err := s.store.GetReaction(ctx, kind, targetID, userID)
	if err != nil {
		if utils.IsNotFound(err) {
			return Delta{TargetID: targetID}, nil
		}
		return Delta{}, err
	}

	if err := s.store.DeleteReaction(ctx, kind, targetID, userID); err != nil {
		return Delta{}, err
	}

	// The removed type is needed so the mirror decrements the right bucket.
	delta := Delta{TargetID: targetID, Removed: existing.Type}
	s.mirrorDelta(ctx, kind, delta)
	s.invalidateReactionCaches(kind, targetID, userID)
	return delta, nil
}

// GetReaction returns userID's reaction to a target, or nil when there is
// none. Store failures degrade to "no reaction" so a transient read error
// never blocks rendering.
func (s *Service) GetReaction(ctx context.Context, kind models.TargetKind, targetID, userID string) (*models.ReactionRecord, error) {
	if targetID == "" || userID == "" {
		return nil, utils.NewValidationError("targetId/userId")
	}

	key := reactionCacheKey(kind, targetID, userID)
	if v, ok := s.reactionCache.Get(key); ok {
		rec, _ := v.(*models.ReactionRecord)
		return rec, nil
	}

	rec, err := s.store.GetReaction(ctx, kind, targetID, userID)
	if err != nil {
		if utils.IsNotFound(err) {
			s.reactionCache.Set(key, (*models.ReactionRecord)(nil))
			return nil, nil
		}
		s.log.Warn("reaction lookup failed, degrading to none",
			"kind", kind, "target", targetID, "user", userID, "error", err)
		return nil, nil
	}

	s.reactionCache.Set(key, rec)
	return rec, nil
}

// mirrorDelta applies a ledger delta to the target's cached summary via
// the store's atomic increments. Failures are logged, not propagated: the
// user's own action already succeeded, and reconcile-on-read repairs the
// counter on the next summary load.
func (s *Service) mirrorDelta(ctx context.Context, kind models.TargetKind, delta Delta) {
	if delta.IsZero() {
		return
	}

	var err error
	if kind == models.TargetComment {
		err = s.store.ApplyCommentSummaryDelta(ctx, delta.TargetID, delta.Added, delta.Removed)
	} else {
		err = s.store.ApplyPostSummaryDelta(ctx, delta.TargetID, delta.Added, delta.Removed)
	}
	if err != nil {
		s.log.Warn("summary mirror failed, drift until next reconcile",
			"kind", kind, "target", delta.TargetID, "error", err)
	}
}

func (s *Service) invalidateReactionCaches(kind models.TargetKind, targetID, userID string) {
	s.reactionCache.Invalidate(reactionCacheKey(kind, targetID, userID))
}

func reactionCacheKey(kind models.TargetKind, targetID, userID string) string {
	return "reaction:" + string(kind) + ":" + targetID + ":" + userID
}
